// Package waveform holds the data model shared by the analysis core:
// variable values, value kinds, transition runs and row identities.
package waveform

import (
	"math/big"
	"strings"
)

// ValueKind categorizes a translated value for rendering and fallback
// decisions. A value whose string form contains any of xXzZ-uwhl never
// yields Normal.
type ValueKind int

const (
	Normal ValueKind = iota
	HighImp
	Undef
	DontCare
	Weak
	Warn
	Custom
	Error
	Event
)

func (k ValueKind) String() string {
	switch k {
	case Normal:
		return "Normal"
	case HighImp:
		return "HighImp"
	case Undef:
		return "Undef"
	case DontCare:
		return "DontCare"
	case Weak:
		return "Weak"
	case Warn:
		return "Warn"
	case Custom:
		return "Custom"
	case Error:
		return "Error"
	case Event:
		return "Event"
	default:
		return "Unknown"
	}
}

// IsSpecial reports whether the kind renders as a special-value bar rather
// than a numeric sample.
func (k ValueKind) IsSpecial() bool {
	switch k {
	case HighImp, Undef, DontCare, Weak, Warn:
		return true
	default:
		return false
	}
}

// KindForBinaryRepresentation inspects a bit string and returns the kind
// implied by its characters, in first-match precedence order:
// x/X/u -> Undef, z/Z -> HighImp, - -> DontCare, w -> Undef (weak),
// h/l -> Weak, otherwise Normal.
func KindForBinaryRepresentation(s string) ValueKind {
	for _, c := range s {
		switch c {
		case 'x', 'X', 'u':
			return Undef
		case 'z', 'Z':
			return HighImp
		case '-':
			return DontCare
		case 'w':
			return Undef
		case 'h', 'l':
			return Weak
		}
	}
	return Normal
}

// hasSpecialChar reports whether s contains any 4-state digit other than
// 0/1, matching the invariant in spec.md §3: such a value never yields
// Normal.
func hasSpecialChar(s string) bool {
	return strings.ContainsAny(s, "xXzZ-uwhl")
}

// ValueRepr mirrors the translator's wire representation of a translated
// value, prior to the caller choosing a ValueKind.
type ValueReprTag int

const (
	ReprBit ValueReprTag = iota
	ReprBits
	ReprString
	ReprOther
)

// ValueRepr is the tagged result of a translator call.
type ValueRepr struct {
	Tag  ValueReprTag
	Bit  byte   // valid when Tag == ReprBit
	Text string // valid when Tag == ReprBits or Tag == ReprString
}

// VariableValueKind distinguishes the two forms a VariableValue may take.
type VariableValueKind int

const (
	BigUintValue VariableValueKind = iota
	StringValue
)

// VariableValue is a tagged union of {BigUint(v), String(s)}. String form
// carries 4-state digits (0/1/x/z/-/u/w/h/l).
type VariableValue struct {
	Kind VariableValueKind
	Big  *big.Int
	Str  string
}

// NewBigUintValue constructs a numeric VariableValue.
func NewBigUintValue(v *big.Int) VariableValue {
	return VariableValue{Kind: BigUintValue, Big: v}
}

// NewStringValue constructs a 4-state string VariableValue.
func NewStringValue(s string) VariableValue {
	return VariableValue{Kind: StringValue, Str: s}
}

// Equal reports deep equality, needed because VariableValue is used as a
// map key surrogate in components that can't rely on Go's built-in
// comparability for *big.Int.
func (v VariableValue) Equal(o VariableValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	if v.Kind == StringValue {
		return v.Str == o.Str
	}
	if v.Big == nil || o.Big == nil {
		return v.Big == o.Big
	}
	return v.Big.Cmp(o.Big) == 0
}

// Compare orders two VariableValues for deterministic sorting. String
// values compare lexicographically; BigUint values compare numerically.
// Mixed kinds order BigUint before String.
func (v VariableValue) Compare(o VariableValue) int {
	if v.Kind != o.Kind {
		if v.Kind == BigUintValue {
			return -1
		}
		return 1
	}
	if v.Kind == StringValue {
		return strings.Compare(v.Str, o.Str)
	}
	return v.Big.Cmp(o.Big)
}

// Key returns a comparable string usable as a Go map key, since
// VariableValue itself (containing a *big.Int) is not comparable with ==.
func (v VariableValue) Key() string {
	if v.Kind == StringValue {
		return "s:" + v.Str
	}
	if v.Big == nil {
		return "b:"
	}
	return "b:" + v.Big.String()
}

// String renders the value the way a digital trace would display it.
func (v VariableValue) String() string {
	if v.Kind == StringValue {
		return v.Str
	}
	if v.Big == nil {
		return ""
	}
	return v.Big.String()
}

// KindOf derives the ValueKind for a VariableValue from its string-form
// character content (StringValue) or treats BigUint values as Normal.
func (v VariableValue) KindOf() ValueKind {
	if v.Kind == StringValue && hasSpecialChar(v.Str) {
		return KindForBinaryRepresentation(v.Str)
	}
	return Normal
}
