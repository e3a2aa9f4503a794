package translator

import (
	"fmt"

	"github.com/ripopov/surfer-sub001/pkg/waveform"
)

// basicTranslate renders a VariableValue as text, deriving kind from any
// special characters in its string form (string values only -- a numeric
// BigUint value is always Normal before radix formatting).
func basicTranslate(value waveform.VariableValue, format func(waveform.VariableValue) string) (TranslationResult, error) {
	if value.Kind == waveform.StringValue {
		kind := value.KindOf()
		if kind != waveform.Normal {
			return TranslationResult{
				Val:  waveform.ValueRepr{Tag: waveform.ReprString, Text: value.Str},
				Kind: kind,
			}, nil
		}
	}
	return TranslationResult{
		Val:  waveform.ValueRepr{Tag: waveform.ReprString, Text: format(value)},
		Kind: waveform.Normal,
	}, nil
}

// hexadecimalTranslator formats values as hexadecimal.
type hexadecimalTranslator struct{}

// NewHexadecimalTranslator returns the registry's default translator.
func NewHexadecimalTranslator() Translator { return hexadecimalTranslator{} }

func (hexadecimalTranslator) Name() string { return DefaultTranslatorName }

func (h hexadecimalTranslator) Translate(meta VariableMeta, value waveform.VariableValue) (TranslationResult, error) {
	return basicTranslate(value, func(v waveform.VariableValue) string {
		if v.Kind == waveform.BigUintValue && v.Big != nil {
			return fmt.Sprintf("%x", v.Big)
		}
		return v.Str
	})
}

func (h hexadecimalTranslator) TranslateNumeric(meta VariableMeta, value waveform.VariableValue) (float64, bool) {
	res, err := h.Translate(meta, value)
	if err != nil || res.Kind != waveform.Normal {
		return 0, false
	}
	return ParseNumericValue(res.Val.Text, h.Name())
}

func (hexadecimalTranslator) Translates(meta VariableMeta) (TranslationPreference, error) {
	return Yes, nil
}

// binaryTranslator formats values as binary.
type binaryTranslator struct{}

func NewBinaryTranslator() Translator { return binaryTranslator{} }

func (binaryTranslator) Name() string { return "Binary" }

func (b binaryTranslator) Translate(meta VariableMeta, value waveform.VariableValue) (TranslationResult, error) {
	return basicTranslate(value, func(v waveform.VariableValue) string {
		if v.Kind == waveform.BigUintValue && v.Big != nil {
			return fmt.Sprintf("%b", v.Big)
		}
		return v.Str
	})
}

func (b binaryTranslator) TranslateNumeric(meta VariableMeta, value waveform.VariableValue) (float64, bool) {
	res, err := b.Translate(meta, value)
	if err != nil || res.Kind != waveform.Normal {
		return 0, false
	}
	return ParseNumericValue(res.Val.Text, b.Name())
}

func (binaryTranslator) Translates(meta VariableMeta) (TranslationPreference, error) {
	return Yes, nil
}

// unsignedTranslator formats values as unsigned decimal.
type unsignedTranslator struct{}

func NewUnsignedTranslator() Translator { return unsignedTranslator{} }

func (unsignedTranslator) Name() string { return "Unsigned" }

func (u unsignedTranslator) Translate(meta VariableMeta, value waveform.VariableValue) (TranslationResult, error) {
	return basicTranslate(value, func(v waveform.VariableValue) string {
		if v.Kind == waveform.BigUintValue && v.Big != nil {
			return v.Big.String()
		}
		return v.Str
	})
}

func (u unsignedTranslator) TranslateNumeric(meta VariableMeta, value waveform.VariableValue) (float64, bool) {
	res, err := u.Translate(meta, value)
	if err != nil || res.Kind != waveform.Normal {
		return 0, false
	}
	return ParseNumericValue(res.Val.Text, u.Name())
}

func (unsignedTranslator) Translates(meta VariableMeta) (TranslationPreference, error) {
	return Yes, nil
}

// signedTranslator formats BigUint values as two's-complement signed
// decimal given the variable's bit width.
type signedTranslator struct{}

func NewSignedTranslator() Translator { return signedTranslator{} }

func (signedTranslator) Name() string { return "Signed" }

func (s signedTranslator) Translate(meta VariableMeta, value waveform.VariableValue) (TranslationResult, error) {
	return basicTranslate(value, func(v waveform.VariableValue) string {
		if v.Kind == waveform.BigUintValue && v.Big != nil {
			return signedDecimal(v.Big, meta.NumBits).String()
		}
		return v.Str
	})
}

func (s signedTranslator) TranslateNumeric(meta VariableMeta, value waveform.VariableValue) (float64, bool) {
	res, err := s.Translate(meta, value)
	if err != nil || res.Kind != waveform.Normal {
		return 0, false
	}
	return ParseNumericValue(res.Val.Text, s.Name())
}

func (signedTranslator) Translates(meta VariableMeta) (TranslationPreference, error) {
	return Yes, nil
}

// specialOnlyTranslator mirrors the source's single-bit guard translator:
// it only prefers to translate 1-bit variables, always rendering Warn for
// anything it doesn't recognize as a clean bit.
type specialOnlyTranslator struct{}

func NewSpecialOnlyTranslator() Translator { return specialOnlyTranslator{} }

func (specialOnlyTranslator) Name() string { return "SpecialOnly" }

func (specialOnlyTranslator) Translate(meta VariableMeta, value waveform.VariableValue) (TranslationResult, error) {
	if value.Kind == waveform.StringValue && len(value.Str) == 1 && (value.Str == "0" || value.Str == "1") {
		return TranslationResult{
			Val:  waveform.ValueRepr{Tag: waveform.ReprBit, Bit: value.Str[0]},
			Kind: waveform.Normal,
		}, nil
	}
	return TranslationResult{
		Val:  waveform.ValueRepr{Tag: waveform.ReprString, Text: value.String()},
		Kind: waveform.Warn,
	}, nil
}

func (specialOnlyTranslator) TranslateNumeric(meta VariableMeta, value waveform.VariableValue) (float64, bool) {
	return 0, false
}

// Translates returns Prefer for single-bit variables and No otherwise --
// mirrors check_single_wordlength(num_bits, required=1).
func (specialOnlyTranslator) Translates(meta VariableMeta) (TranslationPreference, error) {
	return checkSingleWordlength(meta.NumBits, 1), nil
}

func checkSingleWordlength(numBits, required int) TranslationPreference {
	if numBits == required {
		return Prefer
	}
	return No
}
