// Package translator implements the name->translator dispatch and the
// value->(text, kind, numeric) pipeline described in spec.md §4.4.
package translator

import (
	"fmt"

	"github.com/ripopov/surfer-sub001/pkg/waveform"
)

// TranslationPreference tells the registry how eagerly a translator wants
// to handle a given variable.
type TranslationPreference int

const (
	No TranslationPreference = iota
	Yes
	Prefer
)

// VariableMeta carries the metadata a translator needs to decide whether
// and how to translate a value (bit width, signal kind, ...). The format
// parsers that populate this live outside the core's scope.
type VariableMeta struct {
	NumBits int
}

// TranslationResult is a translator's output: the rendered representation
// plus the inferred kind.
type TranslationResult struct {
	Val  waveform.ValueRepr
	Kind waveform.ValueKind
}

// Translator maps a raw VariableValue to a (text, kind, optional numeric)
// triple. Concrete implementations are owned exclusively by the
// TranslatorRegistry that constructed them.
type Translator interface {
	Name() string
	Translate(meta VariableMeta, value waveform.VariableValue) (TranslationResult, error)
	TranslateNumeric(meta VariableMeta, value waveform.VariableValue) (float64, bool)
	Translates(meta VariableMeta) (TranslationPreference, error)
}

// DefaultTranslatorName is the registry's default translator.
const DefaultTranslatorName = "Hexadecimal"

// Registry owns a fixed set of named translators. It is immutable after
// construction, except for an explicit plugin reload that produces a new
// immutable snapshot (out of scope here: no plugin loader in this module).
type Registry struct {
	byName map[string]Translator
}

// NewRegistry builds a registry from the given translators, keyed by Name().
func NewRegistry(translators ...Translator) *Registry {
	r := &Registry{byName: make(map[string]Translator, len(translators))}
	for _, t := range translators {
		r.byName[t.Name()] = t
	}
	return r
}

// NewDefaultRegistry builds a registry pre-populated with the standard
// Hexadecimal/Binary/Unsigned/Signed/SpecialOnly translators.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		NewHexadecimalTranslator(),
		NewBinaryTranslator(),
		NewUnsignedTranslator(),
		NewSignedTranslator(),
		NewSpecialOnlyTranslator(),
	)
}

// GetTranslator looks up a translator by name. A missing name is a
// programmer error: the registry enumerates valid names, so callers must
// validate with IsValidTranslator first. Mirrors the source's "panic if
// missing is acceptable" contract.
func (r *Registry) GetTranslator(name string) Translator {
	t, ok := r.byName[name]
	if !ok {
		panic(fmt.Sprintf("translator.Registry: unknown translator %q", name))
	}
	return t
}

// TryGetTranslator is the non-panicking counterpart, for callers that
// cannot guarantee a valid name.
func (r *Registry) TryGetTranslator(name string) (Translator, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// IsValidTranslator asks the translator's preference for meta; Yes or
// Prefer counts as valid.
func (r *Registry) IsValidTranslator(meta VariableMeta, name string) bool {
	t, ok := r.byName[name]
	if !ok {
		return false
	}
	pref, err := t.Translates(meta)
	if err != nil {
		return false
	}
	return pref == Yes || pref == Prefer
}

// Names returns every registered translator name, for UI enumeration.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	return out
}
