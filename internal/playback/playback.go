package playback

import "github.com/nullwiz/audiopipe/internal/transcript"

// ActiveSegment returns the id of the segment covering time t, if any.
// A segment is active when start <= t <= end, inclusive at both ends. When
// several segments overlap t the first one in store order wins; later
// overlapping segments are never surfaced. Read-only over the store.
func ActiveSegment(segments []transcript.Segment, t float64) (int, bool) {
	for _, seg := range segments {
		if seg.Active(t) {
			return seg.ID, true
		}
	}
	return -1, false
}

// ClampSeek clamps an explicit seek target into [0, duration]. A duration
// of zero means the audio length is unknown and only the lower bound
// applies.
func ClampSeek(target, duration float64) float64 {
	if target < 0 {
		return 0
	}
	if duration > 0 && target > duration {
		return duration
	}
	return target
}
