package export

import (
	"fmt"
	"io"

	"github.com/nullwiz/audiopipe/internal/transcript"
)

// TextFileName is the download name for plain-text exports.
const TextFileName = "transcription.txt"

// Text writes segments as plain text, one entry per segment in source
// order, with a blank line between entries:
//
//	[0:00 - 0:02] SPEAKER_00: Hello there
func Text(w io.Writer, segments []transcript.Segment) error {
	for _, seg := range segments {
		_, err := fmt.Fprintf(w, "[%s - %s] %s: %s\n\n",
			clockTS(seg.Start), clockTS(seg.End), seg.Speaker, seg.Text)
		if err != nil {
			return fmt.Errorf("failed to write: %w", err)
		}
	}
	return nil
}

// GroupText writes consolidated groups in the same plain-text layout.
func GroupText(w io.Writer, groups []transcript.Group) error {
	for _, g := range groups {
		_, err := fmt.Fprintf(w, "[%s - %s] %s: %s\n\n",
			clockTS(g.Start), clockTS(g.End), g.Speaker, g.Text)
		if err != nil {
			return fmt.Errorf("failed to write: %w", err)
		}
	}
	return nil
}
