package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/presentation/tui"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/aretw0/abacus/pkg/settings"
)

// REPL input modes.
const (
	ModeText = "text"
	ModeKeys = "keys"
	ModeJSON = "json"
)

// REPLOptions configure an interactive session.
type REPLOptions struct {
	Mode      string
	SessionID string
	Settings  settings.Settings
	NoBanner  bool

	In  io.Reader
	Out io.Writer
}

// RunREPL drives the runner loop until quit, EOF or a signal.
func RunREPL(ctx context.Context, env *Env, opts REPLOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	handler, cleanup, err := createHandler(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	runnerOpts := []runner.Option{
		runner.WithCalculator(env.Calculator),
		runner.WithLogger(env.Logger),
		runner.WithInputHandler(handler),
	}
	if opts.SessionID != "" {
		runnerOpts = append(runnerOpts,
			runner.WithSessions(env.Sessions),
			runner.WithSessionID(opts.SessionID),
		)
		env.Logger.Info("Session active", "session_id", opts.SessionID, "store", env.Config.Store.Backend)
	}

	if opts.Mode != ModeJSON && !opts.NoBanner && isTerminal(opts.Out) {
		tui.PrintBanner(opts.Out, termenv.NewOutput(opts.Out).EnvColorProfile(), strings.TrimSpace(abacus.Version))
	}

	return handleExecutionError(runner.NewRunner(runnerOpts...).Run(ctx))
}

func createHandler(opts REPLOptions) (runner.IOHandler, func(), error) {
	nop := func() {}
	switch opts.Mode {
	case ModeJSON:
		return runner.NewJSONHandler(opts.In, opts.Out), nop, nil
	case ModeText, "", ModeKeys:
	default:
		return nil, nop, fmt.Errorf("unknown mode %q (valid: text, keys, json)", opts.Mode)
	}

	profile := termenv.NewOutput(opts.Out).EnvColorProfile()
	panel := tui.NewPanel(profile, tui.ThemeFor(opts.Settings.DarkMode))
	renderer, err := tui.NewRenderer(opts.Settings.DarkMode)
	if err != nil {
		return nil, nop, err
	}

	if opts.Mode == ModeKeys {
		h := runner.NewKeyHandler(opts.In, opts.Out)
		h.Panel = panel
		if err := h.Start(); err != nil {
			return nil, nop, err
		}
		return h, func() { _ = h.Close() }, nil
	}

	return runner.NewTextHandler(opts.In, opts.Out,
		runner.WithTextHandlerPanel(panel),
		runner.WithTextHandlerRenderer(renderer),
	), nop, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
