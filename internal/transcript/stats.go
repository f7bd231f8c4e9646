package transcript

// Statistics are aggregate counts over a segment store. TotalDuration is
// the maximum segment end time, the span of the timeline, not the sum of
// speaking time.
type Statistics struct {
	SegmentCount  int     `json:"segmentCount"`
	SpeakerCount  int     `json:"speakerCount"`
	TotalDuration float64 `json:"totalDuration"`
	WordCount     int     `json:"wordCount"`
}

// ComputeStatistics derives Statistics from segments in a single pass.
func ComputeStatistics(segments []Segment) Statistics {
	speakers := make(map[string]bool)
	words := 0
	maxEnd := 0.0

	for _, seg := range segments {
		speakers[seg.Speaker] = true
		words += seg.WordCount()
		if seg.End > maxEnd {
			maxEnd = seg.End
		}
	}

	return Statistics{
		SegmentCount:  len(segments),
		SpeakerCount:  len(speakers),
		TotalDuration: maxEnd,
		WordCount:     words,
	}
}
