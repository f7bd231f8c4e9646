package viewstate

import (
	"errors"
	"testing"
)

func TestLifecycle(t *testing.T) {
	m := NewMachine()

	if m.State().Kind != Welcome {
		t.Fatalf("machine should start in Welcome, got %v", m.State().Kind)
	}

	steps := []State{
		{Kind: Loading, Message: "Processing call.json..."},
		{Kind: Content, Subview: Timeline},
		{Kind: NoResults},
		{Kind: Content, Subview: Timeline},
		{Kind: Loading, Message: "Processing other.json..."},
		{Kind: Loading, Message: "Processing newest.json..."},
		{Kind: Error, Message: "invalid JSON format"},
		{Kind: Welcome},
	}

	for _, next := range steps {
		if err := m.Transition(next); err != nil {
			t.Fatalf("transition to %v failed: %v", next.Kind, err)
		}
		if m.State().Kind != next.Kind {
			t.Fatalf("state is %v, want %v", m.State().Kind, next.Kind)
		}
	}
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   Kind
	}{
		{"welcome to content", State{Kind: Welcome}, Content},
		{"welcome to error", State{Kind: Welcome}, Error},
		{"error to content", State{Kind: Error}, Content},
		{"error to loading", State{Kind: Error}, Loading},
		{"content to welcome", State{Kind: Content}, Welcome},
		{"loading to no results", State{Kind: Loading}, NoResults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Machine{state: tt.from}

			err := m.Transition(State{Kind: tt.to})
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			if m.State() != tt.from {
				t.Error("failed transition must not change the state")
			}
		})
	}
}

func TestSwitchSubview(t *testing.T) {
	m := &Machine{state: State{Kind: Content, Subview: Timeline}}

	if err := m.SwitchSubview(Visualization); err != nil {
		t.Fatalf("subview switch failed: %v", err)
	}
	if m.State().Kind != Content || m.State().Subview != Visualization {
		t.Errorf("state after switch: %+v", m.State())
	}

	m = NewMachine()
	if err := m.SwitchSubview(Speakers); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("subview switch outside Content should fail, got %v", err)
	}
}

func TestKindStrings(t *testing.T) {
	if Welcome.String() != "welcome" || NoResults.String() != "no_results" {
		t.Error("unexpected kind names")
	}
	if Timeline.String() != "timeline" || Visualization.String() != "visualization" {
		t.Error("unexpected subview names")
	}
}
