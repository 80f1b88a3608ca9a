package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroup(t *testing.T) {
	g, err := NewGroup("Login", "username", "password", "submit")
	require.NoError(t, err)
	assert.Equal(t, "Login", g.Name())
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, "username", g.First().Name())
	assert.Equal(t, "submit", g.Last().Name())
	assert.Equal(t, 1, g.State("password").Index())
	assert.Same(t, g, g.State("password").Group())
	assert.Nil(t, g.State("missing"))
	assert.Nil(t, g.At(3))
	assert.Equal(t, "Login.password", g.State("password").String())
	assert.Len(t, g.States(), 3)

	_, err = NewGroup("Empty")
	assert.Error(t, err)
	_, err = NewGroup("Dup", "a", "a")
	assert.Error(t, err)
	_, err = NewGroup("Blank", "")
	assert.Error(t, err)
	assert.Panics(t, func() { MustGroup("Empty") })

	other := MustGroup("Login", "username")
	assert.NotSame(t, g, other)
	assert.NotSame(t, g.First(), other.First())
}

func TestController_Registration(t *testing.T) {
	g := MustGroup("Form", "a", "b")
	c := NewController()

	noop := func(*Controller) error { return nil }

	assert.ErrorIs(t, c.OnState(g.First(), noop), ErrNotAttached)
	assert.ErrorIs(t, c.Run(g), ErrNotAttached)

	c.Attach(g)
	c.Attach(g)
	assert.True(t, c.Attached(g))
	assert.Len(t, c.instances, 1)

	require.NoError(t, c.OnState(g.First(), noop))
	assert.ErrorIs(t, c.OnState(g.First(), noop), ErrHandlerExists)
	assert.Error(t, c.OnState(g.Last(), nil))

	assert.ErrorIs(t, c.RunFrom(g.Last()), ErrNoHandler)
	assert.False(t, c.IsActive())
}

func TestController_TwoStateRoundTrip(t *testing.T) {
	g := MustGroup("Pair", "first", "second")
	c := NewController()
	c.Attach(g)

	var visited []string
	var seen []any
	require.NoError(t, c.OnState(g.First(), func(c *Controller) error {
		visited = append(visited, "first")
		require.NoError(t, c.Put("name", "Bob"))
		return nil
	}))
	require.NoError(t, c.OnState(g.Last(), func(c *Controller) error {
		visited = append(visited, "second")
		name, _ := c.Value("name")
		seen = append(seen, name)
		return nil
	}))

	require.NoError(t, c.Run(g))
	assert.True(t, c.IsActive())
	assert.Same(t, g.First(), c.State())
	assert.Same(t, g, c.Group())
	assert.NotEmpty(t, c.RunID())

	require.NoError(t, c.Next())
	assert.Same(t, g.Last(), c.State())

	v, ok := c.Value("name")
	assert.True(t, ok)
	assert.Equal(t, "Bob", v)

	require.NoError(t, c.Finish())
	assert.False(t, c.IsActive())
	assert.Nil(t, c.State())
	assert.Nil(t, c.Group())
	assert.Equal(t, []string{"first", "second"}, visited)

	_, err := c.Get("name")
	assert.ErrorIs(t, err, ErrNotActive)
	assert.ErrorIs(t, c.Put("name", "x"), ErrNotActive)
	_, err = c.Ctx()
	assert.ErrorIs(t, err, ErrNotActive)
	_, ok = c.Value("name")
	assert.False(t, ok)

	// a new run starts with an empty context
	require.NoError(t, c.RunFrom(g.Last()))
	v, ok = c.Value("name")
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, []any{"Bob", nil}, seen)
}

func TestController_InactiveOperations(t *testing.T) {
	c := NewController()
	assert.ErrorIs(t, c.Current(), ErrNotActive)
	assert.ErrorIs(t, c.Next(), ErrNotActive)
	assert.ErrorIs(t, c.Prev(), ErrNotActive)
	assert.ErrorIs(t, c.Set(MustGroup("g", "s").First()), ErrNotActive)
	assert.ErrorIs(t, c.Finish(), ErrNotActive)
	assert.Empty(t, c.RunID())
}

func TestController_Edges(t *testing.T) {
	g := MustGroup("Steps", "one", "two")
	c := NewController()
	c.Attach(g)
	for _, s := range g.States() {
		require.NoError(t, c.OnState(s, func(*Controller) error { return nil }))
	}

	require.NoError(t, c.Run(g))
	assert.ErrorIs(t, c.Prev(), ErrOutOfRange)
	assert.Same(t, g.First(), c.State())

	require.NoError(t, c.Next())
	assert.ErrorIs(t, c.Next(), ErrOutOfRange)
	assert.Same(t, g.Last(), c.State())
	assert.True(t, c.IsActive())

	require.NoError(t, c.Prev())
	assert.Same(t, g.First(), c.State())
}

func TestController_SetAndForeignState(t *testing.T) {
	game := MustGroup("Game", "start", "guess", "won")
	other := MustGroup("Other", "x")
	c := NewController()
	c.Attach(game, other)

	entered := map[string]int{}
	for _, s := range game.States() {
		name := s.Name()
		require.NoError(t, c.OnState(s, func(*Controller) error {
			entered[name]++
			return nil
		}))
	}
	require.NoError(t, c.OnState(other.First(), func(*Controller) error { return nil }))

	require.NoError(t, c.Run(game))
	require.NoError(t, c.Set(game.Last()))
	assert.Same(t, game.Last(), c.State())
	require.NoError(t, c.Set(game.State("guess")))
	require.NoError(t, c.Current())
	assert.Equal(t, map[string]int{"start": 1, "won": 1, "guess": 2}, entered)

	assert.ErrorIs(t, c.Set(other.First()), ErrForeignState)
	assert.ErrorIs(t, c.Set(nil), ErrForeignState)
	assert.Same(t, game.State("guess"), c.State())
}

func TestController_TransitionsInsideHandlersAreTrampolined(t *testing.T) {
	g := MustGroup("Loop", "ask", "check")
	c := NewController()
	c.Attach(g)

	const rounds = 100000
	depth, maxDepth := 0, 0
	count := 0

	require.NoError(t, c.OnState(g.First(), func(c *Controller) error {
		depth++
		defer func() { depth-- }()
		if depth > maxDepth {
			maxDepth = depth
		}
		count++
		err := c.Next()
		// the state changes immediately even though the handler has not returned
		assert.Same(t, g.Last(), c.State())
		return err
	}))
	require.NoError(t, c.OnState(g.Last(), func(c *Controller) error {
		depth++
		defer func() { depth-- }()
		if count >= rounds {
			return c.Finish()
		}
		return c.Prev()
	}))

	require.NoError(t, c.Run(g))
	assert.Equal(t, rounds, count)
	assert.Equal(t, 1, maxDepth)
	assert.False(t, c.IsActive())
}

func TestController_HandlerErrorStopsChain(t *testing.T) {
	g := MustGroup("Fail", "a", "b")
	c := NewController()
	c.Attach(g)

	bCalled := false
	boom := assert.AnError
	require.NoError(t, c.OnState(g.First(), func(c *Controller) error {
		require.NoError(t, c.Next())
		return boom
	}))
	require.NoError(t, c.OnState(g.Last(), func(*Controller) error {
		bCalled = true
		return nil
	}))

	err := c.Run(g)
	assert.ErrorIs(t, err, boom)
	assert.False(t, bCalled)
	assert.Same(t, g.Last(), c.State())
	assert.True(t, c.IsActive())

	require.NoError(t, c.Current())
	assert.True(t, bCalled)
}

func TestController_NextWithoutHandlerFailsFast(t *testing.T) {
	g := MustGroup("Partial", "a", "b")
	c := NewController()
	c.Attach(g)
	require.NoError(t, c.OnState(g.First(), func(*Controller) error { return nil }))

	require.NoError(t, c.Run(g))
	assert.ErrorIs(t, c.Next(), ErrNoHandler)
	assert.Same(t, g.First(), c.State())
}

func TestController_RunAnotherGroupDeactivatesPrevious(t *testing.T) {
	first := MustGroup("First", "s")
	second := MustGroup("Second", "s")
	c := NewController()
	c.Attach(first, second)
	require.NoError(t, c.OnState(first.First(), func(c *Controller) error { return c.Put("k", 1) }))
	require.NoError(t, c.OnState(second.First(), func(*Controller) error { return nil }))

	require.NoError(t, c.Run(first))
	require.NoError(t, c.Run(second))
	assert.Same(t, second, c.Group())
	_, ok := c.Value("k")
	assert.False(t, ok)
	assert.Empty(t, c.instances[first].ctx)
}

func TestController_Merge(t *testing.T) {
	g := MustGroup("Blueprint", "only")
	bp := NewController()
	bp.Attach(g)
	require.NoError(t, bp.OnState(g.First(), func(c *Controller) error { return c.Put("from", "bp") }))

	app := NewController()
	require.NoError(t, app.Merge(bp))
	assert.True(t, app.Attached(g))
	require.NoError(t, app.Run(g))
	v, _ := app.Value("from")
	assert.Equal(t, "bp", v)

	assert.ErrorIs(t, app.Merge(bp), ErrHandlerExists)
	assert.NoError(t, app.Merge(nil))
	assert.NoError(t, app.Merge(app))
}

func TestController_CtxIsLive(t *testing.T) {
	g := MustGroup("Ctx", "s")
	c := NewController()
	c.Attach(g)
	require.NoError(t, c.OnState(g.First(), func(*Controller) error { return nil }))
	require.NoError(t, c.Run(g))

	ctx, err := c.Ctx()
	require.NoError(t, err)
	ctx["direct"] = true
	v, err := c.Get("direct")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = c.Get("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
