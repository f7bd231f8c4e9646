package transcript

// Group is a run of adjacent same-speaker segments merged under a gap
// threshold. Members always holds at least one segment and concatenating
// the Members of consecutive groups reproduces the input exactly.
type Group struct {
	Speaker   string    `json:"speaker"`
	Start     float64   `json:"start"`
	End       float64   `json:"end"`
	Text      string    `json:"text"`
	WordCount int       `json:"wordCount"`
	Members   []Segment `json:"segments"`
}

// Duration returns the group's span in seconds.
func (g Group) Duration() float64 {
	return g.End - g.Start
}

// MemberIDs returns the ids of the member segments in merge order.
func (g Group) MemberIDs() []int {
	ids := make([]int, len(g.Members))
	for i, seg := range g.Members {
		ids[i] = seg.ID
	}
	return ids
}

// Consolidate merges adjacent same-speaker segments whose gap does not
// exceed threshold seconds. Segments must already be time-sorted. The pass
// is greedy and forward-only: a segment extends the current group when its
// speaker matches and segment.Start - group.End <= threshold, otherwise it
// seeds a new group. Overlapping segments have a negative gap and always
// merge with a same-speaker group. Pure function; empty input yields an
// empty result.
func Consolidate(segments []Segment, threshold float64) []Group {
	if len(segments) == 0 {
		return []Group{}
	}

	groups := make([]Group, 0, len(segments))
	current := newGroup(segments[0])

	for _, seg := range segments[1:] {
		gap := seg.Start - current.End

		if seg.Speaker == current.Speaker && gap <= threshold {
			current.End = seg.End
			current.Text += " " + seg.Text
			current.WordCount += seg.WordCount()
			current.Members = append(current.Members, seg)
		} else {
			groups = append(groups, current)
			current = newGroup(seg)
		}
	}

	return append(groups, current)
}

func newGroup(seg Segment) Group {
	return Group{
		Speaker:   seg.Speaker,
		Start:     seg.Start,
		End:       seg.End,
		Text:      seg.Text,
		WordCount: seg.WordCount(),
		Members:   []Segment{seg},
	}
}
