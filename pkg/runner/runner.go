package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/session"
)

// Runner handles the REPL loop of an abacus Calculator using a pluggable IOHandler.
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on stdin/stdout is used.
	Handler IOHandler

	// Calculator is the engine. If nil, abacus.New() is used.
	Calculator *abacus.Calculator

	// Sessions persists the state after every input when SessionID is set.
	// If nil, the session is ephemeral.
	Sessions  *session.Manager
	SessionID string

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	initialState *domain.State

	mu    sync.Mutex
	state *domain.State
}

// NewRunner creates a Runner. Without options it runs an ephemeral text REPL on stdio.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the latest state seen by the loop.
func (r *Runner) State() *domain.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runner) setState(s *domain.State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Run executes the loop until the input ends, the user quits or ctx is done.
// A rejected key is reported through the handler and does not stop the loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.Calculator == nil {
		r.Calculator = abacus.New()
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}

	state, err := r.resolveInitialState(ctx)
	if err != nil {
		return err
	}
	r.setState(state)

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	for {
		loopCtx := signals.Context()

		if err := r.Handler.Output(loopCtx, state); err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		in, err := r.Handler.Input(loopCtx)
		if err != nil {
			signals.CheckRace()
			if loopCtx.Err() != nil {
				r.Logger.Debug("runner interrupted", "err", loopCtx.Err())
				return nil
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		if in.Command == CommandQuit {
			return nil
		}
		if in.Command == CommandHelp {
			if err := r.Handler.SystemOutput(loopCtx, Help(r.Calculator.Keymap())); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}

		next, err := r.commit(ctx, state, func(s *domain.State) (*domain.State, error) {
			return r.apply(ctx, s, in)
		})
		if err != nil {
			if isUserError(err) {
				r.Logger.Debug("input rejected", "session_id", r.SessionID, "err", err)
				if err := r.Handler.SystemOutput(loopCtx, err.Error()); err != nil {
					return fmt.Errorf("output error: %w", err)
				}
				continue
			}
			return fmt.Errorf("critical persistence error: %w", err)
		}
		state = next
		r.setState(state)
	}
}

// apply performs one input against s.
func (r *Runner) apply(ctx context.Context, s *domain.State, in Input) (*domain.State, error) {
	switch in.Command {
	case "":
	case CommandAngle:
		mode, err := domain.ParseAngleMode(in.Arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, in.Arg)
		}
		return r.Calculator.SetAngleMode(ctx, s, mode)
	case CommandClearMemory:
		return abacus.ClearMemory(s), nil
	case CommandClearError:
		return abacus.ClearError(s), nil
	default:
		return nil, fmt.Errorf("%w: command %q", errUnknownCommand, in.Command)
	}

	var err error
	for _, k := range in.Keys {
		if s, err = r.Calculator.PressKey(ctx, s, k); err != nil {
			return nil, err
		}
	}
	if len(in.Tokens) > 0 {
		if s, err = r.Calculator.PressAll(ctx, s, in.Tokens); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// commit runs fn against the current state, persisting the result when a
// session store is configured. Under a store the stored state wins over the
// local copy, so two REPLs on one session stay consistent.
func (r *Runner) commit(ctx context.Context, state *domain.State, fn func(*domain.State) (*domain.State, error)) (*domain.State, error) {
	if r.Sessions == nil || r.SessionID == "" {
		return fn(state)
	}
	_, next, err := r.Sessions.Apply(ctx, r.SessionID, fn)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("state saved", "session_id", r.SessionID, "display", next.Display)
	return next, nil
}

func (r *Runner) resolveInitialState(ctx context.Context) (*domain.State, error) {
	if r.Sessions != nil && r.SessionID != "" {
		state, err := r.Sessions.LoadOrStart(ctx, r.SessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load session %s: %w", r.SessionID, err)
		}
		return state, nil
	}
	if r.initialState != nil {
		return r.initialState, nil
	}
	return r.Calculator.StartSession(r.SessionID), nil
}

var errUnknownCommand = errors.New("unknown command")

func isUserError(err error) bool {
	return errors.Is(err, domain.ErrUnknownKey) ||
		errors.Is(err, domain.ErrKeyNotInLayout) ||
		errors.Is(err, domain.ErrInvalidAngleMode) ||
		errors.Is(err, errUnknownCommand)
}
