package offline

import "fmt"

type State int

const (
	StateNew State = iota
	StateInstalling
	StateWaiting
	StateActivating
	StateActive
	StateRedundant
)

var stateNames = map[State]string{
	StateNew:        "new",
	StateInstalling: "installing",
	StateWaiting:    "waiting",
	StateActivating: "activating",
	StateActive:     "active",
	StateRedundant:  "redundant",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var allowedTransitions = map[State][]State{
	StateNew:        {StateInstalling},
	StateInstalling: {StateWaiting, StateRedundant},
	StateWaiting:    {StateActivating, StateRedundant},
	StateActivating: {StateActive, StateRedundant},
	StateActive:     {StateRedundant},
}

func (s State) CanTransition(to State) bool {
	for _, next := range allowedTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates from -> to and returns the new state.
func Transition(from State, to State) (State, error) {
	if !from.CanTransition(to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return to, nil
}
