package transcript

// Speaker badge palette, assigned in sorted-speaker order and recycled when
// a transcript has more speakers than colors.
var speakerPalette = []string{
	"#ef4444", "#f97316", "#eab308", "#22c55e",
	"#06b6d4", "#3b82f6", "#8b5cf6", "#ec4899",
	"#f59e0b", "#10b981", "#6366f1", "#d946ef",
}

// SpeakerColors assigns a stable display color to every distinct speaker.
// The assignment depends only on the set of speakers, so both client shells
// render the same speaker in the same color.
func SpeakerColors(segments []Segment) map[string]string {
	colors := make(map[string]string)
	for i, speaker := range UniqueSpeakers(segments) {
		colors[speaker] = speakerPalette[i%len(speakerPalette)]
	}
	return colors
}
