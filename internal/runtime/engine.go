package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
)

// Engine runs the reducer and reports each step to the lifecycle hooks.
// The engine holds no calculation state of its own.
type Engine struct {
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the timestamp source for emitted events.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Step reduces one event against the current state and returns the next state.
// The input state is left untouched.
func (e *Engine) Step(ctx context.Context, current *domain.State, ev domain.Event) *domain.State {
	if current == nil {
		current = domain.NewState()
	}

	next := Reduce(*current.Clone(), ev)
	changed := !sameState(current, &next)

	e.logger.Debug("reduce",
		"session_id", current.SessionID,
		"event", ev.String(),
		"display", next.Display,
		"changed", changed,
	)

	if e.hooks.OnReduce != nil {
		e.hooks.OnReduce(ctx, &domain.ReduceEvent{
			EventBase: e.base(domain.EventReduce, current.SessionID),
			Input:     ev,
			Display:   next.Display,
			Changed:   changed,
		})
	}

	if next.Error != nil && (current.Error == nil || *current.Error != *next.Error) {
		e.logger.Info("calculation error",
			"session_id", current.SessionID,
			"event", ev.String(),
			"kind", next.Error.Kind,
			"err", next.Error.Message,
		)
		if e.hooks.OnError != nil {
			e.hooks.OnError(ctx, &domain.ErrorEvent{
				EventBase: e.base(domain.EventMathError, current.SessionID),
				Input:     ev,
				Kind:      next.Error.Kind,
				Message:   next.Error.Message,
			})
		}
	}

	return &next
}

// SetAngleMode writes the angle mode directly, outside of event reduction.
func (e *Engine) SetAngleMode(ctx context.Context, current *domain.State, mode domain.AngleMode) (*domain.State, error) {
	if !mode.Valid() {
		return nil, domain.ErrInvalidAngleMode
	}
	next := current.Clone()
	if next == nil {
		next = domain.NewState()
	}
	next.AngleMode = mode

	e.logger.Debug("angle mode", "session_id", next.SessionID, "mode", mode)
	if e.hooks.OnAngleMode != nil {
		e.hooks.OnAngleMode(ctx, mode)
	}
	return next, nil
}

// RejectKey reports a token that could not be mapped to an event.
func (e *Engine) RejectKey(ctx context.Context, sessionID, token string, err error) {
	e.logger.Debug("unknown key", "session_id", sessionID, "token", token, "err", err)
	if e.hooks.OnUnknownKey != nil {
		e.hooks.OnUnknownKey(ctx, token)
	}
}

func (e *Engine) base(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		SessionID: sessionID,
	}
}

func sameState(a, b *domain.State) bool {
	if (a.Error == nil) != (b.Error == nil) {
		return false
	}
	if a.Error != nil && *a.Error != *b.Error {
		return false
	}
	x, y := *a, *b
	x.Error, y.Error = nil, nil
	return x == y
}
