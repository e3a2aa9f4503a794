package analogcache

import (
	"math/big"
	"testing"

	"github.com/ripopov/surfer-sub001/pkg/translator"
	"github.com/ripopov/surfer-sub001/pkg/waveform"
)

type fakeAccessor struct {
	changes   []waveform.Change
	timeTable []uint64
}

func (f fakeAccessor) Changes() []waveform.Change { return f.changes }
func (f fakeAccessor) TimeTable() []uint64        { return f.timeTable }

func TestBuildEmptyYieldsNoCache(t *testing.T) {
	acc := fakeAccessor{}
	cache, err := Build(acc, translator.NewHexadecimalTranslator(), translator.VariableMeta{}, 0, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cache != nil {
		t.Fatal("expected nil cache for empty signal")
	}
}

func TestBuildSeedsGlobalMinMax(t *testing.T) {
	timeTable := []uint64{0, 10, 20, 30, 40}
	changes := []waveform.Change{
		{TimeIdx: 0, Raw: waveform.NewBigUintValue(big.NewInt(5))},
		{TimeIdx: 1, Raw: waveform.NewBigUintValue(big.NewInt(200))},
		{TimeIdx: 2, Raw: waveform.NewBigUintValue(big.NewInt(1))},
		{TimeIdx: 3, Raw: waveform.NewBigUintValue(big.NewInt(99))},
		{TimeIdx: 4, Raw: waveform.NewBigUintValue(big.NewInt(50))},
	}
	acc := fakeAccessor{changes: changes, timeTable: timeTable}
	cache, err := Build(acc, translator.NewUnsignedTranslator(), translator.VariableMeta{}, 5, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cache == nil {
		t.Fatal("expected a cache")
	}
	if cache.GlobalMin != 1 || cache.GlobalMax != 200 {
		t.Fatalf("unexpected global range: min=%v max=%v", cache.GlobalMin, cache.GlobalMax)
	}
	min, max, ok := cache.QueryTimeRange(10, 30)
	if !ok || min != 1 || max != 200 {
		t.Fatalf("unexpected windowed query: min=%v max=%v ok=%v", min, max, ok)
	}
}

func TestBuildOutOfRangeTimeIndexFails(t *testing.T) {
	acc := fakeAccessor{
		changes:   []waveform.Change{{TimeIdx: 5, Raw: waveform.NewBigUintValue(big.NewInt(1))}},
		timeTable: []uint64{0, 1},
	}
	if _, err := Build(acc, translator.NewHexadecimalTranslator(), translator.VariableMeta{}, 0, 0, nil); err == nil {
		t.Fatal("expected error for out-of-range time index")
	}
}

func TestBuildNonNumericYieldsNaN(t *testing.T) {
	acc := fakeAccessor{
		changes: []waveform.Change{
			{TimeIdx: 0, Raw: waveform.NewStringValue("z")},
			{TimeIdx: 1, Raw: waveform.NewBigUintValue(big.NewInt(7))},
		},
		timeTable: []uint64{0, 1},
	}
	cache, err := Build(acc, translator.NewHexadecimalTranslator(), translator.VariableMeta{}, 2, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	mm, ok := cache.RMQ.QueryTimeRange(0, 1)
	if !ok || !mm.HasNaN {
		t.Fatalf("expected HasNaN window, got %+v ok=%v", mm, ok)
	}
}

func TestBuildRespectsCancelToken(t *testing.T) {
	token := waveform.NewCancelToken()
	token.Cancel()
	acc := fakeAccessor{
		changes:   []waveform.Change{{TimeIdx: 0, Raw: waveform.NewBigUintValue(big.NewInt(1))}},
		timeTable: []uint64{0},
	}
	cache, err := Build(acc, translator.NewHexadecimalTranslator(), translator.VariableMeta{}, 1, 0, token)
	if err != nil {
		t.Fatal(err)
	}
	if cache != nil {
		t.Fatal("expected Build to discard work for a pre-cancelled token")
	}
}
