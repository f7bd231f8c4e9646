package tui

import (
	"github.com/nullwiz/audiopipe/internal/transcript"
	"github.com/nullwiz/audiopipe/internal/viewstate"
)

// StateChangedMsg mirrors an engine view state transition.
type StateChangedMsg struct {
	State viewstate.State
}

// StatisticsMsg carries fresh transcript statistics after a load.
type StatisticsMsg struct {
	Stats transcript.Statistics
}

// ActiveSegmentMsg updates the highlighted segment during playback.
type ActiveSegmentMsg struct {
	SegmentID int
	Active    bool
}

// ToastMsg surfaces an engine notification in the status area.
type ToastMsg struct {
	Level   string
	Message string
}

// ClearToastMsg hides a toast after its display timeout.
type ClearToastMsg struct{}

// LoadFinishedMsg reports the outcome of an async transcript read.
type LoadFinishedMsg struct {
	Name string
	Err  error
}

// ExportFinishedMsg reports the outcome of writing an export file.
type ExportFinishedMsg struct {
	Path string
	Err  error
}

// TickMsg drives the playback clock while audio is playing.
type TickMsg struct{}
