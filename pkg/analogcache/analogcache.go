// Package analogcache builds and serves the per-(signal, translator)
// min/max cache used by analog signal rendering, atop pkg/rmq.
package analogcache

import (
	"math"

	"github.com/ripopov/surfer-sub001/pkg/rmq"
	"github.com/ripopov/surfer-sub001/pkg/translator"
	"github.com/ripopov/surfer-sub001/pkg/waveform"
)

// Cache holds a built SignalRMQ plus the global min/max seeded from it.
// Lifecycle: created when an analog view is first enabled for a (signal,
// translator) pair; invalidated by the caller when NumTimestamps or the
// translator name changes.
type Cache struct {
	RMQ           *rmq.SignalRMQ
	GlobalMin     float64
	GlobalMax     float64
	NumTimestamps uint64
}

// Accessor supplies the raw change stream for one signal plus the shared
// time table it indexes into.
type Accessor interface {
	Changes() []waveform.Change
	TimeTable() []uint64
}

// Build iterates a signal's changes in order, translates each raw value,
// derives a numeric sample (NaN when translation does not yield a number),
// and constructs a SignalRMQ over the resulting (time, value) sequence.
// Returns a nil cache and no error if the signal has no changes or token is
// cancelled; returns an error if any change's TimeIdx is out of range for
// the time table.
func Build(accessor Accessor, tr translator.Translator, meta translator.VariableMeta, numTimestamps uint64, blockSize int, token *waveform.CancelToken) (*Cache, error) {
	if blockSize <= 0 {
		blockSize = rmq.DefaultBlockSize
	}
	timeTable := accessor.TimeTable()
	changes := accessor.Changes()

	samples := make([]rmq.Sample, 0, len(changes))
	for i, ch := range changes {
		if i%waveform.ChunkSize == 0 && token.Cancelled() {
			return nil, nil
		}
		idx := int(ch.TimeIdx)
		if idx < 0 || idx >= len(timeTable) {
			return nil, errOutOfRangeTimeIndex
		}
		timeU64 := timeTable[idx]
		numeric := numericValueOf(tr, meta, ch.Raw)
		samples = append(samples, rmq.Sample{Time: timeU64, Value: numeric})
	}

	if len(samples) == 0 {
		return nil, nil
	}

	index, err := rmq.New(samples, blockSize)
	if err != nil {
		return nil, err
	}

	first, last, ok := index.TimeRange()
	if !ok {
		return nil, nil
	}
	global, ok := index.QueryTimeRange(first, last)
	if !ok {
		return nil, nil
	}

	return &Cache{
		RMQ:           index,
		GlobalMin:     global.Min,
		GlobalMax:     global.Max,
		NumTimestamps: numTimestamps,
	}, nil
}

// numericValueOf translates raw and derives its numeric projection per
// spec.md §4.3: Bit -> its digit as a string, Bits/String -> the string
// directly, anything else -> NaN.
func numericValueOf(tr translator.Translator, meta translator.VariableMeta, raw waveform.VariableValue) float64 {
	res, err := tr.Translate(meta, raw)
	if err != nil {
		return math.NaN()
	}
	var text string
	switch res.Val.Tag {
	case waveform.ReprBit:
		text = string(res.Val.Bit)
	case waveform.ReprBits, waveform.ReprString:
		text = res.Val.Text
	default:
		return math.NaN()
	}
	v, ok := translator.ParseNumericValue(text, tr.Name())
	if !ok {
		return math.NaN()
	}
	return v
}

// QueryTimeRange delegates to the underlying SignalRMQ.
func (c *Cache) QueryTimeRange(lo, hi uint64) (float64, float64, bool) {
	mm, ok := c.RMQ.QueryTimeRange(lo, hi)
	if !ok {
		return 0, 0, false
	}
	return mm.Min, mm.Max, true
}

// errOutOfRangeTimeIndex is returned by Build when a change's TimeIdx does
// not index into the signal's time table.
var errOutOfRangeTimeIndex = errBuild("analogcache: time index out of range")

type errBuild string

func (e errBuild) Error() string { return string(e) }
