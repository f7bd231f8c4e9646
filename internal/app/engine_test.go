package app

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/nullwiz/audiopipe/internal/transcript"
	"github.com/nullwiz/audiopipe/internal/viewstate"
)

type hubMock struct {
	mu     sync.Mutex
	states []viewstate.State
	stats  []transcript.Statistics
	active []int
	toasts []string
}

func (h *hubMock) BroadcastStateChanged(state viewstate.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.states = append(h.states, state)
}

func (h *hubMock) BroadcastStatistics(stats transcript.Statistics) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats = append(h.stats, stats)
}

func (h *hubMock) BroadcastActiveSegment(id int, active bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !active {
		id = -1
	}
	h.active = append(h.active, id)
}

func (h *hubMock) BroadcastToast(level, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.toasts = append(h.toasts, level+": "+message)
}

func (h *hubMock) lastToast() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.toasts) == 0 {
		return ""
	}
	return h.toasts[len(h.toasts)-1]
}

const validTranscript = `{"segments": [
	{"speaker": "A", "start": 0, "end": 2, "text": "Hello"},
	{"speaker": "A", "start": 2.5, "end": 4, "text": "world"},
	{"speaker": "B", "start": 4.2, "end": 6, "text": "Hi"}
]}`

func TestLoadTranscriptSuccess(t *testing.T) {
	hub := &hubMock{}
	engine := NewEngine(hub)

	if err := engine.LoadTranscript("call.json", []byte(validTranscript)); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	state := engine.State()
	if state.Kind != viewstate.Content || state.Subview != viewstate.Timeline {
		t.Errorf("state after load: %+v", state)
	}
	if engine.Statistics().SegmentCount != 3 {
		t.Errorf("statistics not installed: %+v", engine.Statistics())
	}
	if hub.lastToast() != "success: Loaded call.json with 3 segments" {
		t.Errorf("toast: %q", hub.lastToast())
	}
}

func TestLoadTranscriptParseError(t *testing.T) {
	engine := NewEngine(nil)

	err := engine.LoadTranscript("bad.json", []byte("{nope"))

	var parseErr *transcript.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if engine.State().Kind != viewstate.Error {
		t.Errorf("state: %v, want Error", engine.State().Kind)
	}

	// Only Welcome is reachable from Error.
	if err := engine.Retry(); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if engine.State().Kind != viewstate.Welcome {
		t.Errorf("state after retry: %v", engine.State().Kind)
	}
}

func TestLoadTranscriptEmptyIsWarningNotError(t *testing.T) {
	hub := &hubMock{}
	engine := NewEngine(hub)

	err := engine.LoadTranscript("empty.json", []byte(`{"segments": []}`))
	if !errors.Is(err, transcript.ErrNoSegments) {
		t.Fatalf("expected ErrNoSegments, got %v", err)
	}
	if engine.State().Kind != viewstate.Welcome {
		t.Errorf("empty data should return to Welcome, got %v", engine.State().Kind)
	}
	if hub.lastToast() != "warning: No segments found in transcription" {
		t.Errorf("toast: %q", hub.lastToast())
	}
}

func TestLoadAfterErrorInstallsAndShowsContent(t *testing.T) {
	engine := NewEngine(nil)

	_ = engine.LoadTranscript("bad.json", []byte("{nope"))
	if engine.State().Kind != viewstate.Error {
		t.Fatalf("state: %v, want Error", engine.State().Kind)
	}

	// A valid load taken from the Error state must both install the store
	// and land in Content; data must never become visible without the
	// matching state transition.
	if err := engine.LoadTranscript("call.json", []byte(validTranscript)); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if engine.State().Kind != viewstate.Content {
		t.Errorf("state after recovery load: %v, want Content", engine.State().Kind)
	}
	if engine.Store() == nil || engine.Store().Len() != 3 {
		t.Error("recovery load should install the store")
	}
}

func TestBeginLoadWhileLoadingUpdatesMessage(t *testing.T) {
	engine := NewEngine(nil)

	engine.BeginLoad("first.json")
	engine.BeginLoad("second.json")

	state := engine.State()
	if state.Kind != viewstate.Loading {
		t.Fatalf("state: %v, want Loading", state.Kind)
	}
	if state.Message != "Processing second.json..." {
		t.Errorf("message: %q, want the newer file's name", state.Message)
	}
}

func TestLoadFailureKeepsExistingStore(t *testing.T) {
	engine := NewEngine(nil)
	if err := engine.LoadTranscript("call.json", []byte(validTranscript)); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	_ = engine.LoadTranscript("bad.json", []byte("{nope"))

	if engine.Store() == nil || engine.Store().Len() != 3 {
		t.Error("a failed load must not disturb the installed store")
	}
}

func TestSupersededLoadIsDiscarded(t *testing.T) {
	engine := NewEngine(nil)

	older := engine.BeginLoad("older.json")
	newer := engine.BeginLoad("newer.json")

	newerData := `{"segments": [{"speaker": "N", "start": 0, "end": 1, "text": "newer"}]}`
	if err := engine.CompleteLoad(newer, "newer.json", []byte(newerData)); err != nil {
		t.Fatalf("newer load failed: %v", err)
	}

	// The older read finishes late; its result must not overwrite newer data.
	olderData := `{"segments": [{"speaker": "O", "start": 0, "end": 1, "text": "older"}]}`
	if err := engine.CompleteLoad(older, "older.json", []byte(olderData)); err != nil {
		t.Fatalf("stale completion should be a silent no-op, got %v", err)
	}

	segments := engine.Store().Segments()
	if len(segments) != 1 || segments[0].Speaker != "N" {
		t.Errorf("stale load overwrote newer data: %v", segments)
	}
}

func TestStaleLoadFailureDoesNotChangeState(t *testing.T) {
	engine := NewEngine(nil)

	older := engine.BeginLoad("older.json")
	newer := engine.BeginLoad("newer.json")
	if err := engine.CompleteLoad(newer, "newer.json", []byte(validTranscript)); err != nil {
		t.Fatalf("newer load failed: %v", err)
	}

	if err := engine.CompleteLoad(older, "older.json", []byte("{nope")); err != nil {
		t.Fatalf("stale failure should be discarded, got %v", err)
	}
	if engine.State().Kind != viewstate.Content {
		t.Errorf("stale failure changed state to %v", engine.State().Kind)
	}
}

func TestSearchAndNoResults(t *testing.T) {
	engine := NewEngine(nil)
	if err := engine.LoadTranscript("call.json", []byte(validTranscript)); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	engine.SetQuery("hello")
	got := engine.FilteredSegments()
	if len(got) != 1 || got[0].ID != 0 {
		t.Fatalf("search result: %v", got)
	}
	if engine.State().Kind != viewstate.Content {
		t.Errorf("state with matches: %v", engine.State().Kind)
	}

	engine.SetQuery("zebra")
	if engine.State().Kind != viewstate.NoResults {
		t.Errorf("state with no matches: %v", engine.State().Kind)
	}

	engine.ClearSearch()
	if engine.State().Kind != viewstate.Content {
		t.Errorf("state after clear: %v", engine.State().Kind)
	}
	if len(engine.FilteredSegments()) != 3 {
		t.Error("clearing the search should restore the full store")
	}
}

func TestNoResultsRoundTripKeepsSubview(t *testing.T) {
	engine := NewEngine(nil)
	if err := engine.LoadTranscript("call.json", []byte(validTranscript)); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := engine.SwitchView(viewstate.Speakers); err != nil {
		t.Fatalf("switch failed: %v", err)
	}

	engine.SetQuery("zebra")
	if engine.State().Kind != viewstate.NoResults {
		t.Fatalf("state: %v, want NoResults", engine.State().Kind)
	}

	engine.ClearSearch()
	state := engine.State()
	if state.Kind != viewstate.Content || state.Subview != viewstate.Speakers {
		t.Errorf("state after clearing the search: %+v, want Content on Speakers", state)
	}
}

func TestToggleSpeakerExclusion(t *testing.T) {
	engine := NewEngine(nil)
	if err := engine.LoadTranscript("call.json", []byte(validTranscript)); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if hidden := engine.ToggleSpeaker("A"); !hidden {
		t.Error("first toggle should hide the speaker")
	}
	got := engine.FilteredSegments()
	if len(got) != 1 || got[0].Speaker != "B" {
		t.Errorf("filtered: %v", got)
	}

	engine.ToggleSpeaker("B")
	if engine.State().Kind != viewstate.NoResults {
		t.Errorf("all speakers hidden: %v", engine.State().Kind)
	}

	if hidden := engine.ToggleSpeaker("A"); hidden {
		t.Error("second toggle should unhide the speaker")
	}
	if engine.State().Kind != viewstate.Content {
		t.Errorf("state after unhide: %v", engine.State().Kind)
	}
}

func TestApplyConsolidation(t *testing.T) {
	hub := &hubMock{}
	engine := NewEngine(hub)
	if err := engine.LoadTranscript("call.json", []byte(validTranscript)); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	engine.SetThreshold(1.0)
	groups := engine.ApplyConsolidation()

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if hub.lastToast() != "success: Consolidated 3 segments into 2 groups" {
		t.Errorf("toast: %q", hub.lastToast())
	}

	if got := engine.ConsolidatedGroups(); len(got) != 2 {
		t.Errorf("consolidated view: %v", got)
	}

	engine.ClearConsolidation()
	if engine.ConsolidatedGroups() != nil {
		t.Error("cleared consolidation should return nil")
	}
}

func TestSwitchView(t *testing.T) {
	engine := NewEngine(nil)

	if err := engine.SwitchView(viewstate.Visualization); err == nil {
		t.Error("switching views before any load should fail")
	}

	if err := engine.LoadTranscript("call.json", []byte(validTranscript)); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := engine.SwitchView(viewstate.Visualization); err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if engine.State().Subview != viewstate.Visualization {
		t.Errorf("subview: %v", engine.State().Subview)
	}
}

func TestTimeUpdateHighlightsAndBroadcastsChangesOnly(t *testing.T) {
	hub := &hubMock{}
	engine := NewEngine(hub)
	if err := engine.LoadTranscript("call.json", []byte(validTranscript)); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	id, ok := engine.TimeUpdate(1.0)
	if !ok || id != 0 {
		t.Errorf("t=1.0: id=%d ok=%v", id, ok)
	}

	// Same segment again: no new broadcast.
	engine.TimeUpdate(1.5)
	engine.TimeUpdate(3.0)
	engine.TimeUpdate(4.1) // gap, nothing active
	engine.TimeUpdate(5.0)

	hub.mu.Lock()
	defer hub.mu.Unlock()
	want := []int{0, 1, -1, 2}
	if fmt.Sprint(hub.active) != fmt.Sprint(want) {
		t.Errorf("active broadcasts: %v, want %v", hub.active, want)
	}
}

func TestSeekRequiresAudioAndClamps(t *testing.T) {
	engine := NewEngine(nil)

	if _, ok := engine.Seek(10); ok {
		t.Error("seek without audio should be refused")
	}

	engine.SetAudio("call.wav", 60)
	if got, ok := engine.Seek(200); !ok || got != 60 {
		t.Errorf("seek past end: got %v ok=%v, want 60", got, ok)
	}
	if got, ok := engine.Seek(-1); !ok || got != 0 {
		t.Errorf("seek before start: got %v ok=%v, want 0", got, ok)
	}
}

func TestThresholdFloorsAtZero(t *testing.T) {
	engine := NewEngine(nil)
	engine.SetThreshold(-2)
	if engine.Threshold() != 0 {
		t.Errorf("threshold: %v, want 0", engine.Threshold())
	}
}
