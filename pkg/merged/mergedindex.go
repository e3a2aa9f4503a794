package merged

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ripopov/surfer-sub001/pkg/waveform"
)

// parallelBuildThreshold is the minimum signal count before per-signal run
// construction is farmed out across goroutines; below it the errgroup
// dispatch overhead isn't worth paying.
const parallelBuildThreshold = 8

// MergedIndex presents N signals as a single sparse table whose row
// identities are the union of their transition timestamps. row_times is
// sorted and unique; row_ids[i] is derived from row_times[i].
type MergedIndex struct {
	RowTimes  []uint64
	RowIDs    []waveform.RowID
	rowIndex  map[waveform.RowID]int
	PerSignal []SignalRuns
}

// FromTransitionTimeIters builds a MergedIndex from one transition-time
// sequence per signal (each already time-ordered, not necessarily unique
// within a signal).
func FromTransitionTimeIters(signals [][]uint64) *MergedIndex {
	perSignal := make([]SignalRuns, len(signals))
	if len(signals) >= parallelBuildThreshold {
		var g errgroup.Group
		for i, times := range signals {
			i, times := i, times
			g.Go(func() error {
				perSignal[i] = FromTransitionTimes(times)
				return nil
			})
		}
		_ = g.Wait() // FromTransitionTimes never errors
	} else {
		for i, times := range signals {
			perSignal[i] = FromTransitionTimes(times)
		}
	}

	seen := make(map[uint64]struct{})
	for _, times := range signals {
		for _, t := range times {
			seen[t] = struct{}{}
		}
	}

	rowTimes := make([]uint64, 0, len(seen))
	for t := range seen {
		rowTimes = append(rowTimes, t)
	}
	sort.Slice(rowTimes, func(i, j int) bool { return rowTimes[i] < rowTimes[j] })

	rowIDs := make([]waveform.RowID, len(rowTimes))
	rowIndex := make(map[waveform.RowID]int, len(rowTimes))
	for i, t := range rowTimes {
		id := waveform.RowID(t)
		rowIDs[i] = id
		rowIndex[id] = i
	}

	return &MergedIndex{
		RowTimes:  rowTimes,
		RowIDs:    rowIDs,
		rowIndex:  rowIndex,
		PerSignal: perSignal,
	}
}

// RowIndexOf returns the row position for a RowID, if present.
func (m *MergedIndex) RowIndexOf(id waveform.RowID) (int, bool) {
	i, ok := m.rowIndex[id]
	return i, ok
}

// splitmix64Mix is a fixed, deterministic 64-bit avalanche mixer used to
// derive row identities for duplicate timestamps within a single signal's
// zero-duration glitch sequence (spec.md §4.2's row-identity policy for
// duplicates). It is not seeded from process state: the same (time, seq)
// pair always mixes to the same identity.
func splitmix64Mix(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	x = x ^ (x >> 31)
	return x
}

// RowIdentitiesForSingleSignal derives row identities for a single-signal
// change-list table that may present multiple rows at the same timestamp
// (e.g. zero-duration glitches). The first occurrence of a timestamp gets
// RowID(time); subsequent occurrences at the same timestamp get
// RowID(mix(time, seq)) where seq is the 1-based occurrence ordinal.
// Identities are globally unique within the returned slice.
func RowIdentitiesForSingleSignal(times []uint64) []waveform.RowID {
	out := make([]waveform.RowID, len(times))
	seqAtTime := make(map[uint64]int)
	for i, t := range times {
		seq := seqAtTime[t]
		seqAtTime[t] = seq + 1
		if seq == 0 {
			out[i] = waveform.RowID(t)
		} else {
			out[i] = waveform.RowID(splitmix64Mix(t ^ (uint64(seq) << 56)))
		}
	}
	return out
}

// Selection identifies one displayed variable field, used by
// DedupSelections to key equality as (VariableRef, FieldPath).
type Selection struct {
	VariableRef string
	FieldPath   string
}

// DedupSelections removes later duplicates of (VariableRef, FieldPath),
// preserving first-seen order. Idempotent: applying it twice yields the
// same result as applying it once.
func DedupSelections(selections []Selection) []Selection {
	seen := make(map[Selection]struct{}, len(selections))
	out := make([]Selection, 0, len(selections))
	for _, s := range selections {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
