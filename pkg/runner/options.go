package runner

import (
	"log/slog"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/session"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithCalculator sets the engine driven by the loop.
func WithCalculator(calc *abacus.Calculator) Option {
	return func(r *Runner) {
		r.Calculator = calc
	}
}

// WithSessions enables persistence through a session manager.
// It takes effect together with WithSessionID.
func WithSessions(sessions *session.Manager) Option {
	return func(r *Runner) {
		r.Sessions = sessions
	}
}

// WithSessionID sets the session ID used for persistence.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures the IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithInitialState starts the loop from state instead of a fresh session.
// It is ignored when the state is loaded from a session store.
func WithInitialState(state *domain.State) Option {
	return func(r *Runner) {
		r.initialState = state
	}
}
