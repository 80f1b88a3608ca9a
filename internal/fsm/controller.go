// Package fsm provides the ordered-state controller used by eggshell for guided,
// multi-step interactions such as forms and games.
//
// A Controller owns one instance per attached StateGroup and has at most one active
// instance. Handlers run one at a time: a transition requested while a handler runs
// changes the state immediately, and the handler of the new state is invoked after
// the current handler returns. Looping flows therefore never grow the call stack.
package fsm

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"eggshell/internal/logger"
)

var (
	// ErrNotAttached is returned when a group is used before Attach.
	ErrNotAttached = errors.New("state group is not attached")
	// ErrNoHandler is returned when entering a state without a handler.
	ErrNoHandler = errors.New("state has no handler")
	// ErrHandlerExists is returned when a second handler is registered for a state.
	ErrHandlerExists = errors.New("state already has a handler")
	// ErrNotActive is returned by operations that need an active instance.
	ErrNotActive = errors.New("no active state group")
	// ErrOutOfRange is returned when Next or Prev would leave the group.
	ErrOutOfRange = errors.New("state out of range")
	// ErrForeignState is returned when Set names a state of another group.
	ErrForeignState = errors.New("state belongs to another group")
	// ErrKeyNotFound is returned by Get for a key missing from the context.
	ErrKeyNotFound = errors.New("key not found in state context")
)

// Handler is invoked whenever its state is entered or re-entered.
type Handler func(c *Controller) error

type instance struct {
	group   *StateGroup
	current *State
	ctx     map[string]any
	runID   string
}

// Controller drives the attached state groups.
// It is not safe for concurrent use.
type Controller struct {
	instances map[*StateGroup]*instance
	handlers  map[*State]Handler
	active    *instance

	running bool
	pending bool

	logger *log.Logger
}

// NewController creates a controller with no attached groups.
func NewController() *Controller {
	return &Controller{
		instances: make(map[*StateGroup]*instance),
		handlers:  make(map[*State]Handler),
		logger:    logger.NewStyledLogger("FSM"),
	}
}

// Attach makes groups available to the controller. Attaching a group again is a no-op.
func (c *Controller) Attach(groups ...*StateGroup) {
	for _, g := range groups {
		if g == nil {
			continue
		}
		if _, ok := c.instances[g]; ok {
			continue
		}
		c.instances[g] = &instance{group: g, ctx: make(map[string]any)}
		c.logger.Debug("Attached group", "group", g.name, "states", g.Len())
	}
}

// Attached reports whether g is attached.
func (c *Controller) Attached(g *StateGroup) bool {
	_, ok := c.instances[g]
	return ok
}

// OnState registers the handler of state.
func (c *Controller) OnState(state *State, h Handler) error {
	if state == nil || h == nil {
		return fmt.Errorf("state and handler are required")
	}
	if !c.Attached(state.group) {
		return fmt.Errorf("%w: %s", ErrNotAttached, state.group.name)
	}
	if _, exists := c.handlers[state]; exists {
		return fmt.Errorf("%w: %s", ErrHandlerExists, state)
	}
	c.handlers[state] = h
	return nil
}

// Run activates g at its first state and invokes the state's handler.
func (c *Controller) Run(g *StateGroup) error {
	if g == nil {
		return fmt.Errorf("%w: nil group", ErrNotAttached)
	}
	return c.RunFrom(g.First())
}

// RunFrom activates the group of state at state and invokes the state's handler.
// Any previously active instance is deactivated and a fresh context is started.
func (c *Controller) RunFrom(state *State) error {
	if state == nil {
		return fmt.Errorf("%w: nil state", ErrNotAttached)
	}
	inst, ok := c.instances[state.group]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotAttached, state.group.name)
	}
	if _, ok := c.handlers[state]; !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, state)
	}

	if c.active != nil && c.active != inst {
		c.reset(c.active)
	}
	c.reset(inst)
	inst.runID = uuid.NewString()
	c.active = inst
	c.logger.Debug("Run group", "group", state.group.name, "state", state.name, "run", inst.runID)
	return c.enter(state)
}

// Current re-invokes the handler of the active state.
func (c *Controller) Current() error {
	if c.active == nil {
		return ErrNotActive
	}
	return c.enter(c.active.current)
}

// Next moves to the following state in declaration order.
// At the last state it returns ErrOutOfRange and the state is unchanged.
func (c *Controller) Next() error {
	return c.step(1)
}

// Prev moves to the preceding state in declaration order.
// At the first state it returns ErrOutOfRange and the state is unchanged.
func (c *Controller) Prev() error {
	return c.step(-1)
}

func (c *Controller) step(delta int) error {
	if c.active == nil {
		return ErrNotActive
	}
	target := c.active.group.At(c.active.current.index + delta)
	if target == nil {
		return fmt.Errorf("%w: %s", ErrOutOfRange, c.active.current)
	}
	return c.transition(target)
}

// Set jumps to state, which must belong to the active group.
func (c *Controller) Set(state *State) error {
	if c.active == nil {
		return ErrNotActive
	}
	if state == nil || state.group != c.active.group {
		return fmt.Errorf("%w: %s", ErrForeignState, state)
	}
	return c.transition(state)
}

func (c *Controller) transition(target *State) error {
	if _, ok := c.handlers[target]; !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, target)
	}
	logger.StateTransition(c.active.group.name, c.active.current.name, target.name, c.active.runID)
	return c.enter(target)
}

// Finish clears the context of the active instance and deactivates it.
func (c *Controller) Finish() error {
	if c.active == nil {
		return ErrNotActive
	}
	c.logger.Debug("Finish group", "group", c.active.group.name, "run", c.active.runID)
	c.reset(c.active)
	c.active = nil
	c.pending = false
	return nil
}

// enter makes state current. Outside a handler the state's handler runs now;
// inside a handler it runs once the current handler returns.
func (c *Controller) enter(state *State) error {
	c.active.current = state
	if c.running {
		c.pending = true
		return nil
	}
	return c.drive()
}

func (c *Controller) drive() error {
	c.running = true
	defer func() { c.running = false }()

	for {
		c.pending = false
		if c.active == nil {
			return nil
		}
		state := c.active.current
		h, ok := c.handlers[state]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNoHandler, state)
		}
		if err := h(c); err != nil {
			return err
		}
		if !c.pending {
			return nil
		}
	}
}

func (c *Controller) reset(inst *instance) {
	inst.current = nil
	inst.runID = ""
	clear(inst.ctx)
}

// IsActive reports whether a group is running.
func (c *Controller) IsActive() bool {
	return c.active != nil
}

// State returns the active state, or nil.
func (c *Controller) State() *State {
	if c.active == nil {
		return nil
	}
	return c.active.current
}

// Group returns the active group, or nil.
func (c *Controller) Group() *StateGroup {
	if c.active == nil {
		return nil
	}
	return c.active.group
}

// RunID returns the identifier of the active run, or an empty string.
func (c *Controller) RunID() string {
	if c.active == nil {
		return ""
	}
	return c.active.runID
}

// Get returns the context value stored under key.
func (c *Controller) Get(key string) (any, error) {
	if c.active == nil {
		return nil, ErrNotActive
	}
	v, ok := c.active.ctx[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return v, nil
}

// Value returns the context value stored under key and whether it was present.
func (c *Controller) Value(key string) (any, bool) {
	if c.active == nil {
		return nil, false
	}
	v, ok := c.active.ctx[key]
	return v, ok
}

// Put stores value under key in the context of the active instance.
func (c *Controller) Put(key string, value any) error {
	if c.active == nil {
		return ErrNotActive
	}
	c.active.ctx[key] = value
	return nil
}

// Ctx returns the context map of the active instance. The map is live: changes are
// visible to later handlers until Finish.
func (c *Controller) Ctx() (map[string]any, error) {
	if c.active == nil {
		return nil, ErrNotActive
	}
	return c.active.ctx, nil
}

// Merge attaches the groups of src and adopts its handlers. A state with a handler
// in both controllers rejects the merge with ErrHandlerExists and nothing is adopted.
func (c *Controller) Merge(src *Controller) error {
	if src == nil || src == c {
		return nil
	}
	for state := range src.handlers {
		if _, ok := c.handlers[state]; ok {
			return fmt.Errorf("%w: %s", ErrHandlerExists, state)
		}
	}
	for g := range src.instances {
		c.Attach(g)
	}
	for state, h := range src.handlers {
		c.handlers[state] = h
	}
	return nil
}
