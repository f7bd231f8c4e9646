package server

import (
	"time"

	"github.com/nullwiz/audiopipe/internal/transcript"
	"github.com/nullwiz/audiopipe/internal/viewstate"
)

const EventVersion = 1

type Event struct {
	Type      string `json:"type"`
	Version   int    `json:"version"`
	Timestamp string `json:"timestamp"`
}

type StateChangedEvent struct {
	Event
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
	Subview string `json:"subview,omitempty"`
}

type StatisticsEvent struct {
	Event
	SegmentCount  int     `json:"segment_count"`
	SpeakerCount  int     `json:"speaker_count"`
	TotalDuration float64 `json:"total_duration"`
	WordCount     int     `json:"word_count"`
}

type ActiveSegmentEvent struct {
	Event
	SegmentID int  `json:"segment_id"`
	Active    bool `json:"active"`
}

type ToastEvent struct {
	Event
	Level   string `json:"level"`
	Message string `json:"message"`
}

type ConnectionEvent struct {
	Event
	Connected bool `json:"connected"`
}

func newEvent(eventType string, now time.Time) Event {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return Event{
		Type:      eventType,
		Version:   EventVersion,
		Timestamp: now.UTC().Format(time.RFC3339Nano),
	}
}

func stateChangedEvent(state viewstate.State, now time.Time) StateChangedEvent {
	event := StateChangedEvent{
		Event:   newEvent("state_changed", now),
		State:   state.Kind.String(),
		Message: state.Message,
	}
	if state.Kind == viewstate.Content {
		event.Subview = state.Subview.String()
	}
	return event
}

func statisticsEvent(stats transcript.Statistics, now time.Time) StatisticsEvent {
	return StatisticsEvent{
		Event:         newEvent("statistics", now),
		SegmentCount:  stats.SegmentCount,
		SpeakerCount:  stats.SpeakerCount,
		TotalDuration: stats.TotalDuration,
		WordCount:     stats.WordCount,
	}
}
