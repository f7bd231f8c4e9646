package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nullwiz/audiopipe/internal/playback"
	"github.com/nullwiz/audiopipe/internal/transcript"
	"github.com/nullwiz/audiopipe/internal/viewstate"
)

// DefaultThreshold is the initial consolidation gap threshold in seconds.
const DefaultThreshold = 1.0

// Engine owns all transcript presentation state for one running instance:
// the segment store, the search and speaker filters, the consolidation
// cache and the view state machine. Every mutation goes through one of its
// methods under a single lock, so derived views never observe a partially
// updated store. Shells read snapshots and render; they hold no state of
// their own beyond the playback clock.
type Engine struct {
	hub EventBroadcaster

	mu        sync.Mutex
	machine   *viewstate.Machine
	store     *transcript.Store
	query     string
	excluded  map[string]bool
	threshold float64

	consolidated []transcript.Group
	applied      bool

	audioName     string
	audioDuration float64

	activeID  int
	hasActive bool

	loadGen int
}

// NewEngine creates an engine in the Welcome state. hub may be nil.
func NewEngine(hub EventBroadcaster) *Engine {
	return &Engine{
		hub:       hub,
		machine:   viewstate.NewMachine(),
		excluded:  make(map[string]bool),
		threshold: DefaultThreshold,
		activeID:  -1,
	}
}

// State returns the current view state.
func (e *Engine) State() viewstate.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.State()
}

// BeginLoad transitions to Loading for the named file and returns a
// generation token. A later BeginLoad supersedes all earlier ones: only the
// CompleteLoad carrying the newest token may install a store. Shells call
// BeginLoad before reading the file and CompleteLoad with the bytes once
// the read finishes; a superseded completion is discarded silently.
func (e *Engine) BeginLoad(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.loadGen++
	gen := e.loadGen

	// Error is only left through Welcome. A load started from the Error
	// state walks both edges so the machine arrives in Loading and the
	// completion can install normally.
	if e.machine.State().Kind == viewstate.Error {
		e.transitionLocked(viewstate.State{Kind: viewstate.Welcome})
	}

	e.transitionLocked(viewstate.State{
		Kind:    viewstate.Loading,
		Message: "Processing " + name + "...",
	})
	return gen
}

// CompleteLoad parses raw and, if gen is still the newest load, installs
// the resulting store atomically. Parse or validation failures move to the
// Error state; an empty segments array returns to Welcome with a warning.
func (e *Engine) CompleteLoad(gen int, name string, raw []byte) error {
	store, parseErr := transcript.Parse(raw)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.loadGen {
		// A newer load is in flight or already installed. Discard.
		return nil
	}

	if parseErr != nil {
		return e.failLoadLocked(parseErr)
	}

	e.store = store
	e.query = ""
	e.excluded = make(map[string]bool)
	e.consolidated = nil
	e.applied = false
	e.activeID = -1
	e.hasActive = false

	e.transitionLocked(viewstate.State{Kind: viewstate.Content, Subview: viewstate.Timeline})
	if e.hub != nil {
		e.hub.BroadcastStatistics(store.Statistics())
		e.hub.BroadcastToast(ToastSuccess,
			fmt.Sprintf("Loaded %s with %d segments", name, store.Len()))
	}
	return nil
}

// LoadTranscript is BeginLoad plus CompleteLoad for callers that already
// hold the bytes.
func (e *Engine) LoadTranscript(name string, raw []byte) error {
	gen := e.BeginLoad(name)
	return e.CompleteLoad(gen, name, raw)
}

func (e *Engine) failLoadLocked(err error) error {
	if errors.Is(err, transcript.ErrNoSegments) {
		// Soft signal, not an error state: surface a warning and return
		// to Welcome.
		e.transitionLocked(viewstate.State{Kind: viewstate.Welcome})
		if e.hub != nil {
			e.hub.BroadcastToast(ToastWarning, "No segments found in transcription")
		}
		return err
	}

	e.transitionLocked(viewstate.State{Kind: viewstate.Error, Message: err.Error()})
	if e.hub != nil {
		e.hub.BroadcastToast(ToastError, err.Error())
	}
	return err
}

// Retry leaves the Error state back to Welcome.
func (e *Engine) Retry() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.machine.Transition(viewstate.State{Kind: viewstate.Welcome}); err != nil {
		return err
	}
	e.broadcastStateLocked()
	return nil
}

// SetQuery updates the free-text search query and refreshes the view.
func (e *Engine) SetQuery(query string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.query = query
	e.refreshResultsLocked()
}

// ClearSearch resets the query, keeping speaker exclusions.
func (e *Engine) ClearSearch() {
	e.SetQuery("")
}

// ToggleSpeaker flips a speaker in or out of the exclusion set and reports
// whether the speaker is now hidden.
func (e *Engine) ToggleSpeaker(speaker string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.excluded[speaker] {
		delete(e.excluded, speaker)
	} else {
		e.excluded[speaker] = true
	}
	hidden := e.excluded[speaker]

	e.refreshResultsLocked()
	return hidden
}

// The Content<->NoResults edge: an active filter with zero matches shows
// NoResults, anything else shows Content.
func (e *Engine) refreshResultsLocked() {
	if e.store == nil {
		return
	}

	state := e.machine.State()
	if state.Kind != viewstate.Content && state.Kind != viewstate.NoResults {
		return
	}

	filterActive := e.query != "" || len(e.excluded) > 0
	empty := len(e.filteredLocked()) == 0

	if filterActive && empty {
		// Keep the subview so relaxing the filter returns to the same
		// Content rendering.
		e.transitionLocked(viewstate.State{Kind: viewstate.NoResults, Subview: state.Subview})
		return
	}
	e.transitionLocked(viewstate.State{Kind: viewstate.Content, Subview: state.Subview})
}

func (e *Engine) filteredLocked() []transcript.Segment {
	return transcript.Filter(e.store.Segments(), e.query, e.excluded)
}

// FilteredSegments returns the current filtered view of the store.
func (e *Engine) FilteredSegments() []transcript.Segment {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store == nil {
		return nil
	}
	return e.filteredLocked()
}

// SetThreshold updates the consolidation gap threshold without rerunning
// consolidation; ApplyConsolidation picks it up.
func (e *Engine) SetThreshold(threshold float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if threshold < 0 {
		threshold = 0
	}
	e.threshold = threshold
}

// ApplyConsolidation consolidates the store under the current threshold
// and switches the timeline to the consolidated view.
func (e *Engine) ApplyConsolidation() []transcript.Group {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store == nil {
		if e.hub != nil {
			e.hub.BroadcastToast(ToastWarning, "No transcription data loaded")
		}
		return nil
	}

	e.consolidated = transcript.Consolidate(e.store.Segments(), e.threshold)
	e.applied = true

	if e.hub != nil {
		e.hub.BroadcastToast(ToastSuccess, fmt.Sprintf(
			"Consolidated %d segments into %d groups", e.store.Len(), len(e.consolidated)))
	}
	return e.consolidated
}

// ClearConsolidation switches the timeline back to raw segments.
func (e *Engine) ClearConsolidation() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.consolidated = nil
	e.applied = false
}

// ConsolidatedGroups returns the applied consolidation, or nil when the
// raw view is active.
func (e *Engine) ConsolidatedGroups() []transcript.Group {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.applied {
		return nil
	}
	return transcript.FilterGroups(e.consolidated, e.query, e.excluded)
}

// SwitchView changes the Content subview.
func (e *Engine) SwitchView(sub viewstate.Subview) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.machine.SwitchSubview(sub); err != nil {
		return err
	}
	e.broadcastStateLocked()
	return nil
}

// SetAudio records the companion audio resource used for seek clamping.
func (e *Engine) SetAudio(name string, duration float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.audioName = name
	e.audioDuration = duration

	if e.hub != nil {
		e.hub.BroadcastToast(ToastSuccess,
			fmt.Sprintf("Loaded audio: %s (%.1fs)", name, duration))
	}
}

// Audio returns the companion audio name and duration; ok is false when no
// audio is attached.
func (e *Engine) Audio() (name string, duration float64, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.audioName, e.audioDuration, e.audioName != ""
}

// Seek clamps target into [0, audioDuration] and returns the time actually
// used. With no audio attached the seek is refused.
func (e *Engine) Seek(target float64) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.audioName == "" {
		if e.hub != nil {
			e.hub.BroadcastToast(ToastWarning, "No audio file loaded")
		}
		return 0, false
	}
	return playback.ClampSeek(target, e.audioDuration), true
}

// TimeUpdate maps the externally driven playback time to the active
// segment and broadcasts highlight changes. Invoked on every
// playback-position event; reads the store, never writes it.
func (e *Engine) TimeUpdate(t float64) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store == nil {
		return -1, false
	}

	id, ok := playback.ActiveSegment(e.store.Segments(), t)
	if id != e.activeID || ok != e.hasActive {
		e.activeID = id
		e.hasActive = ok
		if e.hub != nil {
			e.hub.BroadcastActiveSegment(id, ok)
		}
	}
	return id, ok
}

// Store returns the installed segment store, or nil before the first
// successful load.
func (e *Engine) Store() *transcript.Store {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store
}

// Statistics returns the store's aggregate counts.
func (e *Engine) Statistics() transcript.Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store == nil {
		return transcript.Statistics{}
	}
	return e.store.Statistics()
}

// Query returns the current search query.
func (e *Engine) Query() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query
}

// ExcludedSpeakers returns a copy of the exclusion set.
func (e *Engine) ExcludedSpeakers() map[string]bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]bool, len(e.excluded))
	for speaker := range e.excluded {
		out[speaker] = true
	}
	return out
}

// Threshold returns the current consolidation threshold.
func (e *Engine) Threshold() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.threshold
}

func (e *Engine) transitionLocked(next viewstate.State) {
	if err := e.machine.Transition(next); err != nil {
		return
	}
	e.broadcastStateLocked()
}

func (e *Engine) broadcastStateLocked() {
	if e.hub != nil {
		e.hub.BroadcastStateChanged(e.machine.State())
	}
}
