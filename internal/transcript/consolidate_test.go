package transcript

import (
	"reflect"
	"testing"
)

func TestConsolidateMergesWithinThreshold(t *testing.T) {
	segments := []Segment{
		{ID: 0, Speaker: "A", Start: 0, End: 2, Text: "Hello"},
		{ID: 1, Speaker: "A", Start: 2.5, End: 4, Text: "world"},
		{ID: 2, Speaker: "B", Start: 4.2, End: 6, Text: "Hi"},
	}

	groups := Consolidate(segments, 1.0)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Speaker != "A" || groups[0].Start != 0 || groups[0].End != 4 || groups[0].Text != "Hello world" {
		t.Errorf("group 0: %+v", groups[0])
	}
	if groups[0].WordCount != 2 {
		t.Errorf("group 0 word count: got %d, want 2", groups[0].WordCount)
	}
	if groups[1].Speaker != "B" || groups[1].Start != 4.2 || groups[1].End != 6 || groups[1].Text != "Hi" {
		t.Errorf("group 1: %+v", groups[1])
	}
}

func TestConsolidateTightThresholdKeepsSeparate(t *testing.T) {
	segments := []Segment{
		{ID: 0, Speaker: "A", Start: 0, End: 2, Text: "Hello"},
		{ID: 1, Speaker: "A", Start: 2.5, End: 4, Text: "world"},
		{ID: 2, Speaker: "B", Start: 4.2, End: 6, Text: "Hi"},
	}

	// The A-A gap is 0.5, which exceeds 0.1, so nothing merges.
	groups := Consolidate(segments, 0.1)

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
}

func TestConsolidateZeroThreshold(t *testing.T) {
	segments := []Segment{
		{ID: 0, Speaker: "A", Start: 0, End: 2, Text: "back"},
		{ID: 1, Speaker: "A", Start: 2, End: 3, Text: "to back"},
		{ID: 2, Speaker: "A", Start: 3.01, End: 4, Text: "gapped"},
	}

	groups := Consolidate(segments, 0)

	if len(groups) != 2 {
		t.Fatalf("threshold 0 should merge only touching segments: got %d groups", len(groups))
	}
	if groups[0].Text != "back to back" {
		t.Errorf("group 0 text: %q", groups[0].Text)
	}
}

func TestConsolidateOverlapMerges(t *testing.T) {
	// Overlapping same-speaker segments have a negative gap and must merge
	// for any threshold >= 0.
	segments := []Segment{
		{ID: 0, Speaker: "A", Start: 0, End: 3, Text: "one"},
		{ID: 1, Speaker: "A", Start: 2, End: 4, Text: "two"},
	}

	groups := Consolidate(segments, 0)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].End != 4 {
		t.Errorf("group end: got %v, want 4", groups[0].End)
	}
}

func TestConsolidatePartition(t *testing.T) {
	segments := []Segment{
		{ID: 0, Speaker: "A", Start: 0, End: 1, Text: "a"},
		{ID: 1, Speaker: "A", Start: 1.2, End: 2, Text: "b"},
		{ID: 2, Speaker: "B", Start: 2.1, End: 3, Text: "c"},
		{ID: 3, Speaker: "B", Start: 9, End: 10, Text: "d"},
		{ID: 4, Speaker: "A", Start: 10.1, End: 11, Text: "e"},
	}

	for _, threshold := range []float64{0, 0.5, 1, 3, 100} {
		groups := Consolidate(segments, threshold)

		var flattened []Segment
		for _, g := range groups {
			if len(g.Members) == 0 {
				t.Fatalf("threshold %v: empty group", threshold)
			}
			flattened = append(flattened, g.Members...)
		}

		if !reflect.DeepEqual(flattened, segments) {
			t.Errorf("threshold %v: members do not partition the input:\n%v", threshold, flattened)
		}
	}
}

func TestConsolidateBoundaries(t *testing.T) {
	segments := []Segment{
		{ID: 0, Speaker: "A", Start: 0, End: 1, Text: "a"},
		{ID: 1, Speaker: "B", Start: 1.1, End: 2, Text: "b"},
		{ID: 2, Speaker: "B", Start: 8, End: 9, Text: "c"},
		{ID: 3, Speaker: "B", Start: 9.5, End: 10, Text: "d"},
	}
	threshold := 2.0

	groups := Consolidate(segments, threshold)

	for _, g := range groups {
		for i := 1; i < len(g.Members); i++ {
			prev, next := g.Members[i-1], g.Members[i]
			if next.Speaker != prev.Speaker {
				t.Errorf("mixed speakers inside group: %+v", g)
			}
			if next.Start-prev.End > threshold {
				t.Errorf("intra-group gap exceeds threshold: %+v", g)
			}
		}
	}
	for i := 1; i < len(groups); i++ {
		prev, next := groups[i-1], groups[i]
		if next.Speaker == prev.Speaker && next.Start-prev.End <= threshold {
			t.Errorf("adjacent groups %d and %d should have merged", i-1, i)
		}
	}
}

func TestConsolidateDeterministic(t *testing.T) {
	segments := []Segment{
		{ID: 0, Speaker: "A", Start: 0, End: 1, Text: "a"},
		{ID: 1, Speaker: "A", Start: 1.5, End: 2, Text: "b"},
		{ID: 2, Speaker: "B", Start: 3, End: 4, Text: "c"},
	}

	first := Consolidate(segments, 1.0)
	second := Consolidate(segments, 1.0)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated consolidation with identical inputs differs")
	}
}

func TestConsolidateEmpty(t *testing.T) {
	groups := Consolidate(nil, 1.0)
	if len(groups) != 0 {
		t.Errorf("expected empty result, got %v", groups)
	}
}

func TestGroupMemberIDs(t *testing.T) {
	groups := Consolidate([]Segment{
		{ID: 0, Speaker: "A", Start: 0, End: 1, Text: "a"},
		{ID: 1, Speaker: "A", Start: 1, End: 2, Text: "b"},
	}, 0)

	if got := groups[0].MemberIDs(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("got %v, want [0 1]", got)
	}
}
