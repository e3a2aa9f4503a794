// Package rmq implements the blocked Range-Min/Max-Query index for a single
// analog signal: block summaries plus a sparse table over those summaries,
// answering min/max-over-time-range queries in O(log N) + O(1) after an
// O(N + (N/B)*log(N/B)) build.
package rmq

import (
	"errors"
	"math/bits"
	"sort"

	"github.com/ripopov/surfer-sub001/pkg/waveform"
)

// ErrEmptySignal is returned by New when the input iterator yields nothing.
var ErrEmptySignal = errors.New("rmq: signal cannot be empty")

// ErrNonMonotonicTimestamps is returned by New when timestamps are not
// strictly increasing.
var ErrNonMonotonicTimestamps = errors.New("rmq: timestamps must be strictly increasing")

// Sample is one (time, value) pair fed into New.
type Sample struct {
	Time  uint64
	Value float64
}

// SignalRMQ answers min/max queries over arbitrary time ranges of an
// irregularly sampled analog signal.
type SignalRMQ struct {
	timestamps     []uint64
	values         []float64
	blockSize      int
	blockSummaries []waveform.MinMax
	sparseTable    [][]waveform.MinMax
}

// DefaultBlockSize matches the spec's recommended B for ~1/40 memory
// overhead relative to a full sparse table.
const DefaultBlockSize = 64

// New builds a SignalRMQ over samples, which must be sorted by Time and
// strictly increasing. A blockSize below 1 is treated as 1.
func New(samples []Sample, blockSize int) (*SignalRMQ, error) {
	if len(samples) == 0 {
		return nil, ErrEmptySignal
	}
	if blockSize < 1 {
		blockSize = 1
	}
	timestamps := make([]uint64, len(samples))
	values := make([]float64, len(samples))
	for i, s := range samples {
		if i > 0 && samples[i].Time <= samples[i-1].Time {
			return nil, ErrNonMonotonicTimestamps
		}
		timestamps[i] = s.Time
		values[i] = s.Value
	}

	n := len(values)
	numBlocks := (n + blockSize - 1) / blockSize
	blockSummaries := make([]waveform.MinMax, numBlocks)
	for b := 0; b < numBlocks; b++ {
		start := b * blockSize
		end := start + blockSize
		if end > n {
			end = n
		}
		blockSummaries[b] = waveform.MinMaxFromSlice(values[start:end])
	}

	return &SignalRMQ{
		timestamps:     timestamps,
		values:         values,
		blockSize:      blockSize,
		blockSummaries: blockSummaries,
		sparseTable:    buildSparseTable(blockSummaries),
	}, nil
}

func buildSparseTable(blockSummaries []waveform.MinMax) [][]waveform.MinMax {
	numBlocks := len(blockSummaries)
	if numBlocks == 0 {
		return nil
	}
	maxLevel := 1
	if numBlocks > 1 {
		maxLevel = bits.Len(uint(numBlocks)) // floor(log2(numBlocks)) + 1
	}

	table := make([][]waveform.MinMax, maxLevel)
	table[0] = append([]waveform.MinMax(nil), blockSummaries...)

	for level := 1; level < maxLevel; level++ {
		prev := table[level-1]
		jump := 1 << level
		half := jump / 2
		cur := make([]waveform.MinMax, numBlocks)
		for i := 0; i < numBlocks; i++ {
			if i+half < numBlocks {
				cur[i] = prev[i].Combine(prev[i+half])
			} else {
				cur[i] = prev[i]
			}
		}
		table[level] = cur
	}
	return table
}

// TimeRange returns the first and last timestamp, or ok=false if empty
// (which cannot happen for a successfully constructed SignalRMQ).
func (r *SignalRMQ) TimeRange() (first, last uint64, ok bool) {
	if len(r.timestamps) == 0 {
		return 0, 0, false
	}
	return r.timestamps[0], r.timestamps[len(r.timestamps)-1], true
}

// QueryTimeRange answers the min/max over [tLo, tHi] inclusive, or returns
// ok=false if the range precedes all samples, follows all samples, or is
// inverted.
func (r *SignalRMQ) QueryTimeRange(tLo, tHi uint64) (waveform.MinMax, bool) {
	if tLo > tHi {
		return waveform.MinMax{}, false
	}
	l := sort.Search(len(r.timestamps), func(i int) bool { return r.timestamps[i] >= tLo })

	// Binary search t_hi: find insertion index, then the index of the last
	// sample <= t_hi is (insertion index - 1), except an exact match uses
	// that index directly.
	hiIdx := sort.Search(len(r.timestamps), func(i int) bool { return r.timestamps[i] >= tHi })
	var rIdx int
	if hiIdx < len(r.timestamps) && r.timestamps[hiIdx] == tHi {
		rIdx = hiIdx
	} else {
		if hiIdx == 0 {
			return waveform.MinMax{}, false
		}
		rIdx = hiIdx - 1
	}

	if l > rIdx || l >= len(r.values) {
		return waveform.MinMax{}, false
	}
	return r.QueryIndexRange(l, rIdx), true
}

// QueryIndexRange answers the min/max over index range [l, r] inclusive.
// Callers must ensure 0 <= l <= r < len(values).
func (r *SignalRMQ) QueryIndexRange(l, rr int) waveform.MinMax {
	lBlock := l / r.blockSize
	rBlock := rr / r.blockSize

	if lBlock == rBlock {
		return waveform.MinMaxFromSlice(r.values[l : rr+1])
	}

	result := waveform.NewMinMax(r.values[l])

	lBlockEnd := (lBlock+1)*r.blockSize - 1
	if l <= lBlockEnd {
		end := lBlockEnd
		if rr < end {
			end = rr
		}
		result = result.Combine(waveform.MinMaxFromSlice(r.values[l : end+1]))
	}

	rBlockStart := rBlock * r.blockSize
	if rBlock > lBlock && rBlockStart <= rr {
		result = result.Combine(waveform.MinMaxFromSlice(r.values[rBlockStart : rr+1]))
	}

	firstFullBlock := lBlock + 1
	lastFullBlock := rBlock
	if rBlockStart <= rr {
		lastFullBlock = rBlock - 1
	}

	if firstFullBlock <= lastFullBlock {
		result = result.Combine(r.queryBlocks(firstFullBlock, lastFullBlock))
	}

	return result
}

// queryBlocks combines the fully-enclosed block range [lBlock, rBlock]
// using the sparse table, choosing the largest power of two that fits.
func (r *SignalRMQ) queryBlocks(lBlock, rBlock int) waveform.MinMax {
	if lBlock == rBlock {
		return r.blockSummaries[lBlock]
	}
	rangeLen := rBlock - lBlock + 1
	k := bits.Len(uint(rangeLen)) - 1 // floor(log2(rangeLen))
	jump := 1 << k
	level := r.sparseTable[k]
	return level[lBlock].Combine(level[rBlock-jump+1])
}

// NumSamples returns the number of (time, value) samples backing the index.
func (r *SignalRMQ) NumSamples() int { return len(r.values) }

// BlockSize returns the configured block size.
func (r *SignalRMQ) BlockSize() int { return r.blockSize }
