package transcript

import (
	"sort"
	"strings"
)

// Segment is one speaker-attributed, timestamped unit of transcribed text.
// ID is the segment's stable position in the time-sorted store.
type Segment struct {
	ID      int     `json:"id"`
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
}

// Duration returns the segment's length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// WordCount returns the number of whitespace-delimited tokens in Text.
func (s Segment) WordCount() int {
	return len(strings.Fields(s.Text))
}

// Active reports whether t falls inside the segment, inclusive at both ends.
func (s Segment) Active(t float64) bool {
	return t >= s.Start && t <= s.End
}

// UniqueSpeakers returns the sorted set of distinct speaker labels.
func UniqueSpeakers(segments []Segment) []string {
	seen := make(map[string]bool)
	for _, seg := range segments {
		seen[seg.Speaker] = true
	}

	speakers := make([]string, 0, len(seen))
	for speaker := range seen {
		speakers = append(speakers, speaker)
	}

	sort.Strings(speakers)
	return speakers
}

// SegmentsForSpeaker returns the subsequence of segments spoken by speaker,
// preserving store order.
func SegmentsForSpeaker(segments []Segment, speaker string) []Segment {
	var out []Segment
	for _, seg := range segments {
		if seg.Speaker == speaker {
			out = append(out, seg)
		}
	}
	return out
}

// SpeakingTime returns the summed duration of segments. Unlike
// Statistics.TotalDuration this measures talk time, not timeline span.
func SpeakingTime(segments []Segment) float64 {
	total := 0.0
	for _, seg := range segments {
		total += seg.Duration()
	}
	return total
}
