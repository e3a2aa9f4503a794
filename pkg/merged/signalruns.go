// Package merged implements the sparse union multi-signal timeline index:
// SignalRuns (per-signal compressed transition runs) and MergedIndex (the
// row-identity union across many signals).
package merged

import (
	"sort"

	"github.com/ripopov/surfer-sub001/pkg/waveform"
)

// SignalRuns is an ordered sequence of TransitionAtTime for one signal.
// Invariants: transitions[i].Time < transitions[i+1].Time; ExactRun(t) is
// the unique run with Time==t or none; PreviousRun(t) is the largest run
// with Time < t.
type SignalRuns struct {
	transitions []waveform.TransitionAtTime
}

// FromTransitionTimes builds a SignalRuns from a time-ordered (not
// necessarily unique) sequence of transition timestamps, collapsing
// consecutive equal timestamps into one run.
func FromTransitionTimes(times []uint64) SignalRuns {
	var out []waveform.TransitionAtTime
	for i, t := range times {
		if len(out) > 0 && out[len(out)-1].Time == t {
			out[len(out)-1].IncRunLen()
			continue
		}
		out = append(out, waveform.TransitionAtTime{
			Time:     t,
			RunStart: waveform.SaturatingRunStart(uint64(i)),
			RunLen:   1,
		})
	}
	return SignalRuns{transitions: out}
}

// Len returns the number of distinct runs.
func (s SignalRuns) Len() int { return len(s.transitions) }

// At returns the run at position i.
func (s SignalRuns) At(i int) waveform.TransitionAtTime { return s.transitions[i] }

// ExactRun returns the run whose Time equals t, if any.
func (s SignalRuns) ExactRun(t uint64) (waveform.TransitionAtTime, bool) {
	i := sort.Search(len(s.transitions), func(i int) bool { return s.transitions[i].Time >= t })
	if i < len(s.transitions) && s.transitions[i].Time == t {
		return s.transitions[i], true
	}
	return waveform.TransitionAtTime{}, false
}

// PreviousRun returns the largest run with Time < t, if any. A run exactly
// at t does not count as its own previous run.
func (s SignalRuns) PreviousRun(t uint64) (waveform.TransitionAtTime, bool) {
	i := sort.Search(len(s.transitions), func(i int) bool { return s.transitions[i].Time >= t })
	if i == 0 {
		return waveform.TransitionAtTime{}, false
	}
	return s.transitions[i-1], true
}
