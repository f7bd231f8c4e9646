package export

import (
	"fmt"
	"io"

	"github.com/nullwiz/audiopipe/internal/transcript"
)

// SRTFileName is the download name for subtitle exports.
const SRTFileName = "transcription.srt"

// SRT writes segments as SubRip subtitles: a 1-based sequential index, a
// "HH:MM:SS,mmm --> HH:MM:SS,mmm" timestamp line, one "SPEAKER: text" line,
// and a blank separator. Index, start and end reproduce source order and
// values exactly; nothing is reordered or clipped.
func SRT(w io.Writer, segments []transcript.Segment) error {
	for i, seg := range segments {
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s: %s\n\n",
			i+1, srtTS(seg.Start), srtTS(seg.End), seg.Speaker, seg.Text)
		if err != nil {
			return fmt.Errorf("failed to write: %w", err)
		}
	}
	return nil
}

// GroupSRT writes consolidated groups as SubRip subtitles, one block per
// group.
func GroupSRT(w io.Writer, groups []transcript.Group) error {
	for i, g := range groups {
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s: %s\n\n",
			i+1, srtTS(g.Start), srtTS(g.End), g.Speaker, g.Text)
		if err != nil {
			return fmt.Errorf("failed to write: %w", err)
		}
	}
	return nil
}
