package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nullwiz/audiopipe/internal/viewstate"
)

func TestEventSerialization(t *testing.T) {
	events := []any{
		StateChangedEvent{Event: newEvent("state_changed", time.Unix(1, 0)), State: "content", Subview: "timeline"},
		StatisticsEvent{Event: newEvent("statistics", time.Unix(1, 0)), SegmentCount: 3, SpeakerCount: 2, TotalDuration: 6, WordCount: 7},
		ActiveSegmentEvent{Event: newEvent("active_segment", time.Unix(1, 0)), SegmentID: 1, Active: true},
		ToastEvent{Event: newEvent("toast", time.Unix(1, 0)), Level: "success", Message: "ok"},
		ConnectionEvent{Event: newEvent("connection", time.Unix(1, 0)), Connected: true},
	}

	for _, event := range events {
		b, err := json.Marshal(event)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		var payload map[string]any
		if err := json.Unmarshal(b, &payload); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}

		if payload["type"] == nil {
			t.Fatalf("missing type in payload: %s", string(b))
		}
		if payload["version"] == nil {
			t.Fatalf("missing version in payload: %s", string(b))
		}
		if payload["timestamp"] == nil {
			t.Fatalf("missing timestamp in payload: %s", string(b))
		}
	}
}

func TestStateChangedOmitsSubviewOutsideContent(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	hub.BroadcastStateChanged(viewstate.State{Kind: viewstate.Welcome})

	select {
	case msg := <-ch:
		var payload map[string]any
		if err := json.Unmarshal(msg, &payload); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if payload["state"] != "welcome" {
			t.Fatalf("expected welcome state, got %#v", payload["state"])
		}
		if _, ok := payload["subview"]; ok {
			t.Fatalf("expected no subview outside content: %s", string(msg))
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for broadcast")
	}
}
