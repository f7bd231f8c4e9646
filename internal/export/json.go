package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nullwiz/audiopipe/internal/transcript"
)

// GroupEntry is one consolidated group in the JSON export. The
// originalSegmentIds list the member segment ids in merge order, so every
// group can be traced back to the segment store losslessly.
type GroupEntry struct {
	Speaker            string  `json:"speaker"`
	Start              float64 `json:"start"`
	End                float64 `json:"end"`
	Duration           float64 `json:"duration"`
	Text               string  `json:"text"`
	WordCount          int     `json:"wordCount"`
	SegmentCount       int     `json:"segmentCount"`
	OriginalSegmentIDs []int   `json:"originalSegmentIds"`
}

// Metadata describes the consolidation run that produced a JSON export.
type Metadata struct {
	OriginalSegments       int     `json:"originalSegments"`
	ConsolidatedSegments   int     `json:"consolidatedSegments"`
	ConsolidationThreshold float64 `json:"consolidationThreshold"`
	TotalDuration          float64 `json:"totalDuration"`
	GeneratedAt            string  `json:"generatedAt"`
}

type consolidatedDocument struct {
	Metadata             Metadata     `json:"metadata"`
	ConsolidatedSegments []GroupEntry `json:"consolidatedSegments"`
}

// JSONOptions configures the consolidated JSON export.
type JSONOptions struct {
	Threshold        float64
	OriginalSegments int
	TotalDuration    float64

	// Simplified drops the metadata wrapper and emits a bare array of
	// group entries.
	Simplified bool

	// Now overrides the generation timestamp; zero means time.Now.
	Now time.Time
}

// ConsolidatedJSON writes the consolidation result as indented JSON, either
// as the full document with a metadata header or, with Simplified set, as a
// bare array of the same per-group objects.
func ConsolidatedJSON(w io.Writer, groups []transcript.Group, opts JSONOptions) error {
	entries := make([]GroupEntry, 0, len(groups))
	for _, g := range groups {
		entries = append(entries, GroupEntry{
			Speaker:            g.Speaker,
			Start:              g.Start,
			End:                g.End,
			Duration:           g.Duration(),
			Text:               g.Text,
			WordCount:          g.WordCount,
			SegmentCount:       len(g.Members),
			OriginalSegmentIDs: g.MemberIDs(),
		})
	}

	var doc any = entries
	if !opts.Simplified {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		doc = consolidatedDocument{
			Metadata: Metadata{
				OriginalSegments:       opts.OriginalSegments,
				ConsolidatedSegments:   len(groups),
				ConsolidationThreshold: opts.Threshold,
				TotalDuration:          opts.TotalDuration,
				GeneratedAt:            now.Format(time.RFC3339),
			},
			ConsolidatedSegments: entries,
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to generate JSON: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}
	return nil
}

// ConsolidatedFileName returns the download name for a consolidated JSON
// export, embedding the threshold so provenance survives in the filename
// alone, e.g. "consolidated_segments_1.5s.json".
func ConsolidatedFileName(threshold float64) string {
	return fmt.Sprintf("consolidated_segments_%ss.json",
		strconv.FormatFloat(threshold, 'f', -1, 64))
}
