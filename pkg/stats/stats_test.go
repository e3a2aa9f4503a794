package stats

import (
	"math/big"
	"testing"

	"github.com/ripopov/surfer-sub001/pkg/waveform"
)

func bigT(v int64) *big.Int { return big.NewInt(v) }

func strVal(s string) waveform.VariableValue { return waveform.NewStringValue(s) }

func TestComputeTransitionStatsScenario(t *testing.T) {
	samples := []Sample{
		{Time: bigT(0), Value: strVal("A")},
		{Time: bigT(3), Value: strVal("B")},
		{Time: bigT(5), Value: strVal("A")},
		{Time: bigT(9), Value: strVal("A")},
		{Time: bigT(11), Value: strVal("C")},
	}
	result := Compute(samples)

	wantDwell := map[string]int64{"s:A": 3 + 6, "s:B": 2}
	for key, want := range wantDwell {
		got, ok := result.Dwell[key]
		if !ok {
			t.Fatalf("missing dwell entry for %q", key)
		}
		if got.Cmp(big.NewInt(want)) != 0 {
			t.Fatalf("dwell[%q] = %v, want %d", key, got, want)
		}
	}
	if _, ok := result.Dwell["s:C"]; ok {
		t.Fatal("last-observed value's dwell must not be accounted past the last sample")
	}

	wantTransitions := map[TransitionKey]int{
		{From: "s:A", To: "s:B"}: 1,
		{From: "s:B", To: "s:A"}: 1,
		{From: "s:A", To: "s:C"}: 1,
	}
	if len(result.Transitions) != len(wantTransitions) {
		t.Fatalf("expected %d transitions, got %d: %v", len(wantTransitions), len(result.Transitions), result.Transitions)
	}
	for k, want := range wantTransitions {
		if got := result.Transitions[k]; got != want {
			t.Fatalf("transitions[%v] = %d, want %d", k, got, want)
		}
	}
}

func TestHistogramPercentagesClampTotal(t *testing.T) {
	samples := []Sample{
		{Time: bigT(0), Value: strVal("A")},
		{Time: bigT(10), Value: strVal("B")},
	}
	result := Compute(samples)
	hist := Histogram(result, 0) // num_timestamps=0 clamps to 1
	if len(hist) != 1 {
		t.Fatalf("expected one histogram entry, got %d", len(hist))
	}
	if hist[0].Percent != 1000.0 {
		t.Fatalf("expected 100*10/1 = 1000, got %v", hist[0].Percent)
	}
}

func TestBuildGraphNodesAndEdges(t *testing.T) {
	samples := []Sample{
		{Time: bigT(0), Value: strVal("A")},
		{Time: bigT(3), Value: strVal("B")},
		{Time: bigT(5), Value: strVal("A")},
		{Time: bigT(9), Value: strVal("A")},
		{Time: bigT(11), Value: strVal("C")},
	}
	result := Compute(samples)
	g := BuildGraph(result)
	// A and B have dwell entries; C only appears as a transition target but
	// still gets a node so the edge (A,C) has somewhere to point.
	if len(g.Nodes) != 3 {
		t.Fatalf("expected 3 nodes (A, B, C), got %d: %v", len(g.Nodes), g.Nodes)
	}
	if len(g.Edges) != 3 {
		t.Fatalf("expected 3 edges, got %d: %+v", len(g.Edges), g.Edges)
	}
}
