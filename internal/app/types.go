package app

import (
	"github.com/nullwiz/audiopipe/internal/transcript"
	"github.com/nullwiz/audiopipe/internal/viewstate"
)

// Toast levels surfaced to the shells.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastWarning = "warning"
	ToastInfo    = "info"
)

// EventBroadcaster pushes engine-side changes to whatever shells are
// attached. All methods must be non-blocking; a nil broadcaster is allowed
// and silently drops everything.
type EventBroadcaster interface {
	BroadcastStateChanged(state viewstate.State)
	BroadcastStatistics(stats transcript.Statistics)
	BroadcastActiveSegment(id int, active bool)
	BroadcastToast(level, message string)
}
