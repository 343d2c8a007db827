package abacus

import (
	"context"
	_ "embed"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/abacus/internal/runtime"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/keymap"
)

// Version is the release of this module, taken from the VERSION file.
//
//go:embed VERSION
var Version string

// Calculator is the high-level entry point for the abacus library.
// It wraps the internal runtime and the key layout behind a small API.
// A Calculator holds no session state: every call takes a state and returns a new one.
type Calculator struct {
	runtime   *runtime.Engine
	keys      *keymap.Keymap
	angleMode domain.AngleMode
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Calculator.
type Option func(*Calculator)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Calculator) {
		c.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) {
		c.logger = logger
	}
}

// WithAngleMode sets the angle mode of newly started sessions.
func WithAngleMode(mode domain.AngleMode) Option {
	return func(c *Calculator) {
		if mode.Valid() {
			c.angleMode = mode
		}
	}
}

// WithKeymap selects the key layout used by Press and PressKey.
func WithKeymap(profile keymap.Profile) Option {
	return func(c *Calculator) {
		c.keys = keymap.New(profile)
	}
}

// New initializes a Calculator. Without options it starts in degrees
// with the scientific layout and logs nothing.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		angleMode: domain.AngleDegrees,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.keys == nil {
		c.keys = keymap.New(keymap.ProfileScientific)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c.runtime = runtime.NewEngine(
		runtime.WithHooks(c.hooks),
		runtime.WithLogger(c.logger),
	)
	return c
}

// Start creates the session-start state.
func (c *Calculator) Start() *domain.State {
	return c.StartSession("")
}

// StartSession creates the session-start state tagged with a session ID.
func (c *Calculator) StartSession(sessionID string) *domain.State {
	s := domain.NewState()
	s.SessionID = sessionID
	s.AngleMode = c.angleMode
	return s
}

// Keymap returns the active key layout.
func (c *Calculator) Keymap() *keymap.Keymap {
	return c.keys
}

// Reduce applies one event and returns the next state.
// It never fails: calculation errors are reported through State.Error.
func (c *Calculator) Reduce(ctx context.Context, state *domain.State, ev domain.Event) *domain.State {
	return c.runtime.Step(ctx, state, ev)
}

// Press maps a token to its events and reduces them.
// The error is only for tokens the layout cannot map; state is then returned unchanged.
func (c *Calculator) Press(ctx context.Context, state *domain.State, token string) (*domain.State, error) {
	return c.PressAll(ctx, state, []string{token})
}

// PressAll maps every token before reducing any of them, so an unknown token
// leaves the state untouched.
func (c *Calculator) PressAll(ctx context.Context, state *domain.State, tokens []string) (*domain.State, error) {
	events, err := c.keys.ExpandAll(tokens)
	if err != nil {
		c.runtime.RejectKey(ctx, sessionOf(state), strings.Join(tokens, " "), err)
		return state, err
	}
	for _, ev := range events {
		state = c.runtime.Step(ctx, state, ev)
	}
	return state, nil
}

// PressKey maps a keyboard press to its event and reduces it.
func (c *Calculator) PressKey(ctx context.Context, state *domain.State, key keymap.Key) (*domain.State, error) {
	ev, err := c.keys.FromKey(key)
	if err != nil {
		c.runtime.RejectKey(ctx, sessionOf(state), key.String(), err)
		return state, err
	}
	return c.runtime.Step(ctx, state, ev), nil
}

// SetAngleMode writes the angle mode of a state and notifies the hooks.
func (c *Calculator) SetAngleMode(ctx context.Context, state *domain.State, mode domain.AngleMode) (*domain.State, error) {
	return c.runtime.SetAngleMode(ctx, state, mode)
}

// SetAngleMode returns a copy of state using mode. It is a direct field write,
// not a reduced event. An invalid mode leaves the copy unchanged.
func SetAngleMode(state *domain.State, mode domain.AngleMode) *domain.State {
	next := cloneOrNew(state)
	if mode.Valid() {
		next.AngleMode = mode
	}
	return next
}

// ClearMemory returns a copy of state with the memory slot emptied.
func ClearMemory(state *domain.State) *domain.State {
	next := cloneOrNew(state)
	next.Memory = domain.Memory{}
	return next
}

// ClearError returns a copy of state with any error dismissed and the display reset.
// A state without error is returned as a plain copy.
func ClearError(state *domain.State) *domain.State {
	next := cloneOrNew(state)
	if next.Error == nil {
		return next
	}
	next.Error = nil
	next.Display = "0"
	next.Equation = ""
	next.IsNewNumber = true
	return next
}

// Format renders a numeric value the way the display shows results.
func Format(x float64) (string, error) {
	return runtime.Format(x)
}

func cloneOrNew(state *domain.State) *domain.State {
	if state == nil {
		return domain.NewState()
	}
	return state.Clone()
}

func sessionOf(state *domain.State) string {
	if state == nil {
		return ""
	}
	return state.SessionID
}
