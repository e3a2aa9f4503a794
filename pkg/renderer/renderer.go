// Package renderer implements the analog-signal drawing pipeline as a pure
// function: (DrawingCommands, AnalogMode, viewport) -> a sequence of
// drawing primitives (filled rectangles, polyline segments, amplitude
// labels). It has no dependency on any particular GUI toolkit; callers
// supply a Viewport that maps trace coordinates to screen points.
package renderer

import (
	"math"
	"strconv"

	"github.com/ripopov/surfer-sub001/pkg/waveform"
)

// AnalogMode selects how consecutive samples are connected.
type AnalogMode int

const (
	Off AnalogMode = iota
	Step
	Interpolated
)

// Config mirrors the original renderer's tunables. Defaults match the
// reference implementation exactly.
type Config struct {
	LineWidthMultiplier         float32
	TextSizeMultiplierThreshold float32
	TextSizeMultiplierLow       float32
	TextSizeMultiplierHigh      float32
	LabelAlpha                  float32
	BackgroundAlpha             uint8
}

// DefaultConfig returns the renderer's default tunables.
func DefaultConfig() Config {
	return Config{
		LineWidthMultiplier:         1.5,
		TextSizeMultiplierThreshold: 1.0,
		TextSizeMultiplierLow:       0.5,
		TextSizeMultiplierHigh:      1.0,
		LabelAlpha:                  0.7,
		BackgroundAlpha:             200,
	}
}

// Point is a screen-space coordinate.
type Point struct{ X, Y float32 }

// Viewport converts a (trace-x, trace-y) pair into a screen Point, and
// supplies the row geometry (line height) the renderer lays samples out
// against. Implementations own the pan/zoom transform; the renderer never
// inspects trace-x/trace-y units itself.
type Viewport struct {
	ToScreen   func(x, yTrace float32) Point
	LineHeight float32
	TextSize   float32
}

// Region is one drawing-command cell: the translated value observed over
// the half-open x range starting at X, or nil if the signal has no value
// there (gap).
type Region struct {
	X     float32
	Inner *Translated
}

// Translated is a translator's output attached to a drawing region.
type Translated struct {
	Value string
	Kind  waveform.ValueKind
}

// DrawingCommands is the sequence of (x, region) cells the renderer walks.
type DrawingCommands struct {
	Values []Region
}

// Primitive is one emitted drawing instruction.
type Primitive interface{ isPrimitive() }

// FilledRect is a special-value bar spanning [XMin,XMax] x [YMin,YMax].
type FilledRect struct {
	XMin, YMin, XMax, YMax float32
	Color                  waveform.ValueKind
}

func (FilledRect) isPrimitive() {}

// Line is a single line segment between two screen points.
type Line struct {
	From, To Point
}

func (Line) isPrimitive() {}

// Label is translucent-background text. TextPos is the text anchor (the
// reference implementation's LEFT_TOP/LEFT_BOTTOM egui::Align2 point);
// BgMin/BgMax describe the padded background rectangle behind it.
type Label struct {
	TextPos         Point
	Align           string // "top" (LEFT_TOP) or "bottom" (LEFT_BOTTOM)
	Text            string
	TextSize        float32
	TextAlpha       float32
	BackgroundAlpha uint8
	BgMin, BgMax    Point
}

func (Label) isPrimitive() {}

// GlyphMeasurer measures the pixel extent of a monospace label at the
// given text size, so the renderer can size translucent backgrounds
// without owning a font rasterizer itself.
type GlyphMeasurer func(text string, textSize float32) (width, height float32)

// Draw runs the full pipeline described in spec.md §4.5: value-range
// computation, mode-specific line/segment emission, special-region
// rectangles, and amplitude labels. Returns nil if mode is Off or no
// numeric samples were found.
func Draw(commands DrawingCommands, mode AnalogMode, offset, heightScalingFactor, frameWidth float32, vp Viewport, measure GlyphMeasurer) []Primitive {
	if mode == Off {
		return nil
	}

	minVal, maxVal, ok := CalculateValueRange(commands)
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	var out []Primitive

	switch mode {
	case Step:
		out = renderStepMode(commands, offset, heightScalingFactor, minVal, maxVal, vp)
	case Interpolated:
		out = renderInterpolatedMode(commands, offset, heightScalingFactor, minVal, maxVal, vp)
	}

	out = append(out, drawAmplitudeLabels(offset, heightScalingFactor, minVal, maxVal, frameWidth, vp, cfg, measure)...)
	return out
}

// ParseNumericValue parses a decimal string. Only decimal parsing is
// supported here -- translators should be switched to Unsigned/Signed/
// Floats when analog mode is enabled, per the reference implementation's
// comment on this exact function.
func ParseNumericValue(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isSpecialKind(k waveform.ValueKind) bool {
	switch k {
	case waveform.HighImp, waveform.Undef, waveform.DontCare, waveform.Weak, waveform.Warn:
		return true
	default:
		return false
	}
}

// CalculateValueRange scans all non-special, numeric-parseable regions and
// returns their (min, max), expanding a degenerate (min==max) range by
// +/-0.5 to avoid downstream division by zero. Returns ok=false if no
// numeric samples were found at all.
func CalculateValueRange(commands DrawingCommands) (min, max float64, ok bool) {
	haveAny := false
	minVal, maxVal := math.Inf(1), math.Inf(-1)

	for _, region := range commands.Values {
		if region.Inner == nil {
			continue
		}
		if isSpecialKind(region.Inner.Kind) {
			continue
		}
		v, numOk := ParseNumericValue(region.Inner.Value)
		if !numOk {
			continue
		}
		haveAny = true
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	if !haveAny {
		return 0, 0, false
	}
	if math.Abs(minVal-maxVal) < epsilon {
		return minVal - 0.5, maxVal + 0.5, true
	}
	return minVal, maxVal, true
}

const epsilon = 2.220446049250313e-16 // f64::EPSILON
