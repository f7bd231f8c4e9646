package transcript

import (
	"errors"
	"fmt"
)

// ErrNoSegments is returned by Parse when the input is well-formed but
// carries zero segments. It signals "no data", not malformed input, so
// callers surface it as a warning rather than an error state.
var ErrNoSegments = errors.New("no segments found in transcription")

// ParseError means the input is not well-formed JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON format: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError means the input is well-formed JSON but does not satisfy
// the transcript contract (missing or mistyped required fields).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid transcription: " + e.Reason
}
