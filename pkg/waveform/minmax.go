package waveform

import "math"

// MinMax is the summary combined by SignalRMQ's block/sparse structures.
// Combine is associative and commutative; a NaN in either input always sets
// HasNaN in the result, even though the ordinary min/max skip NaN when the
// other operand is not NaN.
type MinMax struct {
	Min    float64
	Max    float64
	HasNaN bool
}

// NewMinMax wraps a single sample.
func NewMinMax(v float64) MinMax {
	return MinMax{Min: v, Max: v, HasNaN: math.IsNaN(v)}
}

// Combine merges two summaries. Ordinary float64 min/max already return the
// non-NaN operand when only one side is NaN (Go's math.Min/Max do not, so
// comparisons are done directly to match Rust's f64::min/max semantics).
func (m MinMax) Combine(o MinMax) MinMax {
	return MinMax{
		Min:    minSkipNaN(m.Min, o.Min),
		Max:    maxSkipNaN(m.Max, o.Max),
		HasNaN: m.HasNaN || o.HasNaN,
	}
}

func minSkipNaN(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	if a < b {
		return a
	}
	return b
}

func maxSkipNaN(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	if a > b {
		return a
	}
	return b
}

// MinMaxFromSlice folds MinMax over a non-empty slice of values.
func MinMaxFromSlice(values []float64) MinMax {
	acc := NewMinMax(values[0])
	for _, v := range values[1:] {
		acc = acc.Combine(NewMinMax(v))
	}
	return acc
}
