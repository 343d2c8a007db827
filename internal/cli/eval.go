package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/abacus/pkg/runner"
)

// ErrResultIsError reports that a strict evaluation ended on the error display.
var ErrResultIsError = errors.New("calculation ended in error")

// EvalOptions select what Eval prints.
type EvalOptions struct {
	Equation bool
	JSON     bool
	Strict   bool
}

// Eval presses the tokens on a fresh state and prints the outcome.
// Arguments are split on whitespace so "12 + 30 =" and 12 + 30 = are the same.
func Eval(ctx context.Context, env *Env, args []string, w io.Writer, opts EvalOptions) error {
	clean, err := runner.SanitizeInput(strings.Join(args, " "))
	if err != nil {
		return err
	}
	tokens := strings.Fields(clean)
	if len(tokens) == 0 {
		return errors.New("no tokens to evaluate")
	}

	state, err := env.Calculator.PressAll(ctx, env.Calculator.Start(), tokens)
	if err != nil {
		return err
	}

	switch {
	case opts.JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			return err
		}
	case opts.Equation && state.Equation != "":
		fmt.Fprintln(w, state.Equation)
	default:
		fmt.Fprintln(w, state.Display)
	}

	if opts.Strict && state.Error != nil {
		return fmt.Errorf("%w: %s", ErrResultIsError, state.Error.Message)
	}
	return nil
}
