package fsm

import (
	"fmt"
)

// StateGroup is a closed, ordered set of states. Group identity is the pointer:
// two groups with the same name are different groups.
type StateGroup struct {
	name   string
	states []*State
}

// State is one member of a StateGroup.
type State struct {
	name  string
	index int
	group *StateGroup
}

// NewGroup creates a group with the given states in declaration order.
// Returns an error if no states are given or a state name repeats.
func NewGroup(name string, states ...string) (*StateGroup, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("state group %s needs at least one state", name)
	}
	g := &StateGroup{name: name, states: make([]*State, len(states))}
	seen := make(map[string]bool, len(states))
	for i, s := range states {
		if s == "" {
			return nil, fmt.Errorf("state group %s: state name cannot be empty", name)
		}
		if seen[s] {
			return nil, fmt.Errorf("state group %s: duplicate state %s", name, s)
		}
		seen[s] = true
		g.states[i] = &State{name: s, index: i, group: g}
	}
	return g, nil
}

// MustGroup is like NewGroup but panics on error.
func MustGroup(name string, states ...string) *StateGroup {
	g, err := NewGroup(name, states...)
	if err != nil {
		panic(err)
	}
	return g
}

// Name returns the group name.
func (g *StateGroup) Name() string { return g.name }

// First returns the first state in declaration order.
func (g *StateGroup) First() *State { return g.states[0] }

// Last returns the last state in declaration order.
func (g *StateGroup) Last() *State { return g.states[len(g.states)-1] }

// Len returns the number of states.
func (g *StateGroup) Len() int { return len(g.states) }

// States returns the states in declaration order.
func (g *StateGroup) States() []*State {
	out := make([]*State, len(g.states))
	copy(out, g.states)
	return out
}

// State returns the state with the given name, or nil.
func (g *StateGroup) State(name string) *State {
	for _, s := range g.states {
		if s.name == name {
			return s
		}
	}
	return nil
}

// At returns the state at index i, or nil when i is out of range.
func (g *StateGroup) At(i int) *State {
	if i < 0 || i >= len(g.states) {
		return nil
	}
	return g.states[i]
}

// Name returns the state name.
func (s *State) Name() string { return s.name }

// Index returns the position of the state in its group.
func (s *State) Index() int { return s.index }

// Group returns the group the state belongs to.
func (s *State) Group() *StateGroup { return s.group }

// String returns "group.state".
func (s *State) String() string {
	if s == nil {
		return "<none>"
	}
	return s.group.name + "." + s.name
}
