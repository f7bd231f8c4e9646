package transcript

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Store holds the validated, time-ordered segments of one loaded transcript
// together with derived statistics. A Store is immutable after Parse; a new
// load replaces the whole Store so partial installs are never visible.
type Store struct {
	segments []Segment
	stats    Statistics

	// Metadata is the optional top-level metadata object from the input,
	// passed through untouched.
	Metadata json.RawMessage
}

type rawTranscription struct {
	Segments *[]rawSegment   `json:"segments"`
	Metadata json.RawMessage `json:"metadata"`
}

// Required fields are pointers so absence can be told apart from zero values.
type rawSegment struct {
	Speaker *string  `json:"speaker"`
	Start   *float64 `json:"start"`
	End     *float64 `json:"end"`
	Text    *string  `json:"text"`
}

// Parse decodes and validates raw transcript JSON and builds a Store.
// Malformed JSON yields a *ParseError, a well-formed document missing
// required structure yields a *ValidationError, and a valid document with
// an empty segments array yields ErrNoSegments.
func Parse(raw []byte) (*Store, error) {
	var data rawTranscription
	if err := json.Unmarshal(raw, &data); err != nil {
		switch err.(type) {
		case *json.UnmarshalTypeError:
			return nil, &ValidationError{Reason: err.Error()}
		default:
			return nil, &ParseError{Err: err}
		}
	}

	if data.Segments == nil {
		return nil, &ValidationError{Reason: "missing required field \"segments\""}
	}
	if len(*data.Segments) == 0 {
		return nil, ErrNoSegments
	}

	segments := make([]Segment, 0, len(*data.Segments))
	for i, rs := range *data.Segments {
		if rs.Speaker == nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("segment %d: missing required field \"speaker\"", i)}
		}
		if rs.Start == nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("segment %d: missing required field \"start\"", i)}
		}
		if rs.End == nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("segment %d: missing required field \"end\"", i)}
		}
		if rs.Text == nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("segment %d: missing required field \"text\"", i)}
		}
		if *rs.Start < 0 {
			return nil, &ValidationError{Reason: fmt.Sprintf("segment %d: negative start time %v", i, *rs.Start)}
		}
		if *rs.End < *rs.Start {
			return nil, &ValidationError{Reason: fmt.Sprintf("segment %d: end %v before start %v", i, *rs.End, *rs.Start)}
		}

		segments = append(segments, Segment{
			Speaker: *rs.Speaker,
			Start:   *rs.Start,
			End:     *rs.End,
			Text:    *rs.Text,
		})
	}

	// Stable sort keeps the original relative order of equal start times.
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})
	for i := range segments {
		segments[i].ID = i
	}

	return &Store{
		segments: segments,
		stats:    ComputeStatistics(segments),
		Metadata: data.Metadata,
	}, nil
}

// Segments returns the time-ordered segments. Callers must not mutate the
// returned slice.
func (s *Store) Segments() []Segment {
	return s.segments
}

// Statistics returns the aggregate counts derived at install time.
func (s *Store) Statistics() Statistics {
	return s.stats
}

// Speakers returns the sorted unique speaker labels in the store.
func (s *Store) Speakers() []string {
	return UniqueSpeakers(s.segments)
}

// Len returns the number of segments.
func (s *Store) Len() int {
	return len(s.segments)
}
