package rmq

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func samplesFromFunc(n int, f func(i int) float64) []Sample {
	out := make([]Sample, n)
	for i := 0; i < n; i++ {
		out[i] = Sample{Time: uint64(i), Value: f(i)}
	}
	return out
}

func TestNewEmptySignal(t *testing.T) {
	if _, err := New(nil, 16); err != ErrEmptySignal {
		t.Fatalf("expected ErrEmptySignal, got %v", err)
	}
}

func TestNewNonMonotonic(t *testing.T) {
	samples := []Sample{{Time: 5, Value: 1}, {Time: 5, Value: 2}}
	if _, err := New(samples, 16); err != ErrNonMonotonicTimestamps {
		t.Fatalf("expected ErrNonMonotonicTimestamps, got %v", err)
	}
	samples = []Sample{{Time: 5, Value: 1}, {Time: 3, Value: 2}}
	if _, err := New(samples, 16); err != ErrNonMonotonicTimestamps {
		t.Fatalf("expected ErrNonMonotonicTimestamps, got %v", err)
	}
}

func TestSingleSample(t *testing.T) {
	r, err := New([]Sample{{Time: 100, Value: 5.0}}, 64)
	if err != nil {
		t.Fatal(err)
	}
	first, last, ok := r.TimeRange()
	if !ok || first != 100 || last != 100 {
		t.Fatalf("unexpected time range: %d %d %v", first, last, ok)
	}
	mm, ok := r.QueryTimeRange(100, 100)
	if !ok || mm.Min != 5.0 || mm.Max != 5.0 {
		t.Fatalf("unexpected result: %+v %v", mm, ok)
	}
	if _, ok := r.QueryTimeRange(0, 99); ok {
		t.Fatal("expected range before all samples to return not-ok")
	}
	if _, ok := r.QueryTimeRange(101, 200); ok {
		t.Fatal("expected range after all samples to return not-ok")
	}
}

func TestZigZagAcrossBlockSizes(t *testing.T) {
	samples := samplesFromFunc(100, func(i int) float64 {
		if i%2 == 0 {
			return 0.0
		}
		return 100.0
	})
	for _, bs := range []int{1, 2, 64, 1000} {
		r, err := New(samples, bs)
		if err != nil {
			t.Fatal(err)
		}
		mm, ok := r.QueryTimeRange(0, 99)
		if !ok || mm.Min != 0.0 || mm.Max != 100.0 || mm.HasNaN {
			t.Fatalf("block size %d: unexpected global range %+v", bs, mm)
		}
		mm, ok = r.QueryTimeRange(10, 20)
		if !ok || mm.Min != 0.0 || mm.Max != 100.0 {
			t.Fatalf("block size %d: unexpected sub range %+v", bs, mm)
		}
	}
}

func TestRMQWithNaN(t *testing.T) {
	samples := samplesFromFunc(100, func(i int) float64 {
		if i == 10 {
			return math.NaN()
		}
		return float64(i) * 0.5
	})
	r, err := New(samples, 16)
	if err != nil {
		t.Fatal(err)
	}
	mm, ok := r.QueryTimeRange(0, 30)
	if !ok || !mm.HasNaN {
		t.Fatalf("expected HasNaN in [0,30], got %+v", mm)
	}
	mm, ok = r.QueryTimeRange(30, 50)
	if !ok || mm.HasNaN || mm.Min != 15.0 || mm.Max != 25.0 {
		t.Fatalf("expected clean [15,25] in [30,50], got %+v", mm)
	}
}

func TestQueryGlobalMatchesTimeRange(t *testing.T) {
	samples := samplesFromFunc(257, func(i int) float64 { return float64(i%17) - 3 })
	r, err := New(samples, 32)
	if err != nil {
		t.Fatal(err)
	}
	first, last, _ := r.TimeRange()
	whole, ok := r.QueryTimeRange(first, last)
	if !ok {
		t.Fatal("expected whole-range query to succeed")
	}
	idxWhole := r.QueryIndexRange(0, r.NumSamples()-1)
	if diff := cmp.Diff(whole, idxWhole); diff != "" {
		t.Fatalf("time-range and index-range whole queries disagree (-time +index):\n%s", diff)
	}
}

func TestCombineAssociativity(t *testing.T) {
	samples := samplesFromFunc(64, func(i int) float64 { return float64((i*37)%53) - 10 })
	r, err := New(samples, 8)
	if err != nil {
		t.Fatal(err)
	}
	t1, t2, t3 := uint64(5), uint64(30), uint64(60)
	q12, ok1 := r.QueryTimeRange(t1, t2)
	q23, ok2 := r.QueryTimeRange(t2, t3)
	q13, ok3 := r.QueryTimeRange(t1, t3)
	if !ok1 || !ok2 || !ok3 {
		t.Fatal("expected all sub-queries to succeed")
	}
	combined := q12.Combine(q23)
	if diff := cmp.Diff(q13, combined); diff != "" {
		t.Fatalf("combine(query(t1,t2), query(t2,t3)) != query(t1,t3) (-want +got):\n%s", diff)
	}
}

func TestQueryIndexRangeMatchesSliceFold(t *testing.T) {
	samples := samplesFromFunc(130, func(i int) float64 { return float64(i) * 0.5 })
	r, err := New(samples, 16)
	if err != nil {
		t.Fatal(err)
	}
	values := make([]float64, 130)
	for i := range values {
		values[i] = float64(i) * 0.5
	}
	for _, rng := range [][2]int{{0, 0}, {5, 5}, {0, 129}, {3, 40}, {64, 64}, {15, 16}} {
		got := r.QueryIndexRange(rng[0], rng[1])
		wantMin, wantMax := minMaxOf(values[rng[0] : rng[1]+1])
		if got.Min != wantMin || got.Max != wantMax {
			t.Fatalf("range %v: got %+v want min=%v max=%v", rng, got, wantMin, wantMax)
		}
	}
}

func minMaxOf(values []float64) (min, max float64) {
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
