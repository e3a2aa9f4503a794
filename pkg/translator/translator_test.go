package translator

import (
	"math/big"
	"testing"

	"github.com/ripopov/surfer-sub001/pkg/waveform"
)

func TestParseNumericValueMultiTranslator(t *testing.T) {
	cases := []struct {
		s, name string
		want    float64
		ok      bool
	}{
		{"f9", "Hex", 249.0, true},
		{"ca", "Hexadecimal", 202.0, true},
		{"0x10", "Hex", 16.0, true},
		{"0b1010", "Binary", 10.0, true},
		{"1.5e3", "Float", 1500.0, true},
		{"-3.14e-2", "Float", -0.0314, true},
		{"f9", "Unsigned", 249.0, true},
		{"12", "Binary", 0, false},
		{"xyz", "Hex", 0, false},
		{"invalid", "Unsigned", 0, false},
		{"11111111", "Bin", 255.0, true},
	}
	for _, c := range cases {
		got, ok := ParseNumericValue(c.s, c.name)
		if ok != c.ok {
			t.Errorf("ParseNumericValue(%q,%q) ok=%v, want %v", c.s, c.name, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ParseNumericValue(%q,%q) = %v, want %v", c.s, c.name, got, c.want)
		}
	}
}

func TestRegistryDefaultAndLookup(t *testing.T) {
	reg := NewDefaultRegistry()
	if _, ok := reg.TryGetTranslator(DefaultTranslatorName); !ok {
		t.Fatal("expected default translator to be registered")
	}
	if DefaultTranslatorName != "Hexadecimal" {
		t.Fatal("default translator name must be Hexadecimal per spec")
	}
}

func TestRegistryGetTranslatorPanicsOnUnknown(t *testing.T) {
	reg := NewDefaultRegistry()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown translator name")
		}
	}()
	reg.GetTranslator("DoesNotExist")
}

func TestSpecialOnlyPrefersSingleBit(t *testing.T) {
	tr := NewSpecialOnlyTranslator()
	pref, err := tr.Translates(VariableMeta{NumBits: 1})
	if err != nil || pref != Prefer {
		t.Fatalf("expected Prefer for 1-bit variable, got %v %v", pref, err)
	}
	pref, err = tr.Translates(VariableMeta{NumBits: 8})
	if err != nil || pref != No {
		t.Fatalf("expected No for 8-bit variable, got %v %v", pref, err)
	}
}

func TestHexadecimalTranslateBigUint(t *testing.T) {
	tr := NewHexadecimalTranslator()
	res, err := tr.Translate(VariableMeta{}, waveform.NewBigUintValue(big.NewInt(249)))
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != waveform.Normal || res.Val.Text != "f9" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestBasicTranslateStringSpecialValue(t *testing.T) {
	tr := NewHexadecimalTranslator()
	res, err := tr.Translate(VariableMeta{}, waveform.NewStringValue("10x1"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != waveform.Undef {
		t.Fatalf("expected Undef kind for string with x, got %v", res.Kind)
	}
}
