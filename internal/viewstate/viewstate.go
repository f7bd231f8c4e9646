package viewstate

import "errors"

// ErrInvalidTransition is returned when a requested state change is not in
// the transition table. The machine's state is left unchanged.
var ErrInvalidTransition = errors.New("invalid view state transition")

// Kind is the top-level presentation state.
type Kind int

const (
	Welcome Kind = iota
	Loading
	Error
	Content
	NoResults
)

func (k Kind) String() string {
	switch k {
	case Welcome:
		return "welcome"
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Content:
		return "content"
	case NoResults:
		return "no_results"
	default:
		return "unknown"
	}
}

// Subview selects what the Content state presents.
type Subview int

const (
	Timeline Subview = iota
	Speakers
	Visualization
)

func (s Subview) String() string {
	switch s {
	case Timeline:
		return "timeline"
	case Speakers:
		return "speakers"
	case Visualization:
		return "visualization"
	default:
		return "unknown"
	}
}

// State is one presentation state. Message carries the loading or error
// text; Subview is meaningful only for Content.
type State struct {
	Kind    Kind
	Message string
	Subview Subview
}

// Machine owns the current view state and enforces the transition table.
// All rendering decisions key off the state it holds; nothing else decides
// what is visible.
type Machine struct {
	state State
}

// Allowed transitions between kinds. Content->Content covers subview
// switches; Loading->Loading lets a newer load take over the message;
// NoResults<->Content covers search refinement; Error is only left
// through Welcome via an explicit retry.
var transitions = map[Kind][]Kind{
	Welcome:   {Loading},
	Loading:   {Loading, Content, Welcome, Error},
	Content:   {Content, NoResults, Loading},
	NoResults: {Content, NoResults, Loading},
	Error:     {Welcome},
}

// NewMachine creates a machine in the Welcome state.
func NewMachine() *Machine {
	return &Machine{state: State{Kind: Welcome}}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Transition moves to next if the transition table allows it.
func (m *Machine) Transition(next State) error {
	if !canTransition(m.state.Kind, next.Kind) {
		return ErrInvalidTransition
	}
	m.state = next
	return nil
}

// SwitchSubview changes the Content subview without leaving Content.
func (m *Machine) SwitchSubview(sub Subview) error {
	if m.state.Kind != Content {
		return ErrInvalidTransition
	}
	m.state.Subview = sub
	return nil
}

func canTransition(from, to Kind) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
