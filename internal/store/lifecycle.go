package store

import (
	"fmt"
	"sync"
)

// State is a step in the persistence lifecycle of one report.
type State string

const (
	StateBuilt     State = "BUILT"
	StateValidated State = "VALIDATED"
	StateStaged    State = "STAGED"
	StateCommitted State = "COMMITTED"
	StateRejected  State = "REJECTED"
)

var transitions = map[State][]State{
	StateBuilt:     {StateValidated, StateRejected},
	StateValidated: {StateStaged, StateRejected},
	StateStaged:    {StateCommitted, StateRejected},
}

// TransitionError is returned by Advance for a move the lifecycle forbids.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal lifecycle transition %s -> %s", e.From, e.To)
}

// Lifecycle tracks one report from assembly to its terminal state
// (COMMITTED or REJECTED). It is safe for concurrent use.
type Lifecycle struct {
	mu      sync.Mutex
	state   State
	history []State
}

// NewLifecycle starts a lifecycle in BUILT.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: StateBuilt, history: []State{StateBuilt}}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// History returns every state visited, in order.
func (l *Lifecycle) History() []State {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]State, len(l.history))
	copy(out, l.history)
	return out
}

// Terminal reports whether no further transition is possible.
func (l *Lifecycle) Terminal() bool {
	s := l.State()
	return s == StateCommitted || s == StateRejected
}

// Advance moves to next or returns *TransitionError.
func (l *Lifecycle) Advance(next State) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, allowed := range transitions[l.state] {
		if allowed == next {
			l.state = next
			l.history = append(l.history, next)
			return nil
		}
	}
	return &TransitionError{From: l.state, To: next}
}

// reject moves to REJECTED unless the lifecycle is already terminal.
func (l *Lifecycle) reject() {
	if l.Terminal() {
		return
	}
	_ = l.Advance(StateRejected)
}
