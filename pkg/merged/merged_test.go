package merged

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ripopov/surfer-sub001/pkg/waveform"
)

func TestSignalRunsCollapsesDuplicateTimes(t *testing.T) {
	runs := FromTransitionTimes([]uint64{10, 20, 20, 30})
	if runs.Len() != 3 {
		t.Fatalf("expected 3 runs, got %d", runs.Len())
	}
	if runs.At(1).Time != 20 || runs.At(1).RunLen != 2 {
		t.Fatalf("expected collapsed run at 20 with len 2, got %+v", runs.At(1))
	}
}

func TestExactAndPreviousRunNeverOverlap(t *testing.T) {
	runs := FromTransitionTimes([]uint64{10, 20, 30})
	if exact, ok := runs.ExactRun(20); !ok || exact.Time != 20 {
		t.Fatalf("expected exact run at 20, got %+v %v", exact, ok)
	}
	prev, ok := runs.PreviousRun(20)
	if !ok || prev.Time != 10 {
		t.Fatalf("expected previous run at 10, got %+v %v", prev, ok)
	}
	if _, ok := runs.PreviousRun(10); ok {
		t.Fatal("expected no previous run before the first timestamp")
	}
	if _, ok := runs.ExactRun(15); ok {
		t.Fatal("expected no exact run at a timestamp with no transition")
	}
	prev, ok = runs.PreviousRun(15)
	if !ok || prev.Time != 10 {
		t.Fatalf("expected previous run at 10 for t=15, got %+v %v", prev, ok)
	}
}

func TestMergedIndexThreeSignals(t *testing.T) {
	idx := FromTransitionTimeIters([][]uint64{
		{10, 20, 20, 30},
		{5, 20, 25},
		{},
	})
	want := []uint64{5, 10, 20, 25, 30}
	if diff := cmp.Diff(want, idx.RowTimes); diff != "" {
		t.Fatalf("row_times mismatch (-want +got):\n%s", diff)
	}
	wantIDs := make([]waveform.RowID, len(want))
	for i, w := range want {
		wantIDs[i] = waveform.RowID(w)
	}
	if diff := cmp.Diff(wantIDs, idx.RowIDs); diff != "" {
		t.Fatalf("row_ids mismatch (-want +got):\n%s", diff)
	}
}

func TestMergedIndexRowTimesSortedAndUnique(t *testing.T) {
	idx := FromTransitionTimeIters([][]uint64{
		{100, 50, 50, 75},
		{1, 75, 1000},
	})
	for i := 1; i < len(idx.RowTimes); i++ {
		if idx.RowTimes[i] <= idx.RowTimes[i-1] {
			t.Fatalf("row_times not strictly sorted at %d: %v", i, idx.RowTimes)
		}
	}
}

func TestRowIdentitiesForSingleSignalUnique(t *testing.T) {
	ids := RowIdentitiesForSingleSignal([]uint64{10, 10, 10, 20})
	seen := make(map[waveform.RowID]bool)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate row identity %d in %v", id, ids)
		}
		seen[id] = true
	}
	if ids[0] != waveform.RowID(10) {
		t.Fatalf("first occurrence should use identity RowID(time), got %d", ids[0])
	}
}

func TestDedupSelectionsIdempotentAndOrderPreserving(t *testing.T) {
	in := []Selection{
		{VariableRef: "a", FieldPath: "x"},
		{VariableRef: "b", FieldPath: "y"},
		{VariableRef: "a", FieldPath: "x"},
		{VariableRef: "a", FieldPath: "z"},
	}
	once := DedupSelections(in)
	want := []Selection{
		{VariableRef: "a", FieldPath: "x"},
		{VariableRef: "b", FieldPath: "y"},
		{VariableRef: "a", FieldPath: "z"},
	}
	if diff := cmp.Diff(want, once); diff != "" {
		t.Fatalf("DedupSelections mismatch (-want +got):\n%s", diff)
	}
	twice := DedupSelections(once)
	if len(twice) != len(once) {
		t.Fatal("DedupSelections is not idempotent")
	}
}
