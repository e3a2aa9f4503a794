// Package stats implements the single-pass state-transition statistics
// engine: dwell time per state and transition-pair counts from a
// time-ordered value stream.
package stats

import (
	"math/big"

	"github.com/ripopov/surfer-sub001/pkg/waveform"
)

// Sample is one time-ordered (time, value) observation.
type Sample struct {
	Time  *big.Int
	Value waveform.VariableValue
}

// TransitionKey identifies a directed state transition (from, to).
type TransitionKey struct {
	From string
	To   string
}

// Result is the output of ComputeTransitionStats: per-state dwell time and
// per-transition counts. Dwell of the last observed value is not accounted
// past the last sample -- this is a deliberate open edge, not a bug (see
// spec.md §9 "Open questions").
type Result struct {
	Dwell       map[string]*big.Int
	Transitions map[TransitionKey]int
	// values records one representative VariableValue per dwell/transition
	// key, so callers can recover the original value from its string Key().
	Values map[string]waveform.VariableValue
}

// Compute runs the single pass described in spec.md §4.6: for each new
// (t, v), if a previous (pt, pv) exists, add (t - pt) to dwell[pv]; if
// pv != v, increment transitions[(pv, v)].
func Compute(samples []Sample) Result {
	result := Result{
		Dwell:       make(map[string]*big.Int),
		Transitions: make(map[TransitionKey]int),
		Values:      make(map[string]waveform.VariableValue),
	}

	var prevTime *big.Int
	var prevValue waveform.VariableValue
	havePrev := false

	for _, s := range samples {
		if havePrev {
			dt := new(big.Int).Sub(s.Time, prevTime)
			key := prevValue.Key()
			if existing, ok := result.Dwell[key]; ok {
				existing.Add(existing, dt)
			} else {
				result.Dwell[key] = new(big.Int).Set(dt)
			}
			result.Values[key] = prevValue

			if !prevValue.Equal(s.Value) {
				tk := TransitionKey{From: key, To: s.Value.Key()}
				result.Transitions[tk]++
				result.Values[s.Value.Key()] = s.Value
			}
		}
		prevTime = s.Time
		prevValue = s.Value
		havePrev = true
	}

	return result
}

// HistogramEntry is one bar in the derived dwell-time histogram.
type HistogramEntry struct {
	Value   waveform.VariableValue
	Percent float64
}

// Histogram converts dwell times into percentages of totalTime (clamped to
// at least 1, per spec.md §4.6: "percentages are 100 * dwell[v] / total_time
// with total_time = max(1, num_timestamps)").
func Histogram(result Result, numTimestamps uint64) []HistogramEntry {
	total := numTimestamps
	if total < 1 {
		total = 1
	}
	totalF := new(big.Float).SetUint64(total)

	out := make([]HistogramEntry, 0, len(result.Dwell))
	for key, dwell := range result.Dwell {
		dwellF := new(big.Float).SetInt(dwell)
		pct := new(big.Float).Quo(dwellF, totalF)
		pct.Mul(pct, big.NewFloat(100))
		pctF, _ := pct.Float64()
		out = append(out, HistogramEntry{Value: result.Values[key], Percent: pctF})
	}
	return out
}
