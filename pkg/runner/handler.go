package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/keymap"
)

// Commands understood by the runner besides calculator keys.
const (
	CommandQuit        = "quit"
	CommandHelp        = "help"
	CommandAngle       = "angle"
	CommandClearMemory = "clear-memory"
	CommandClearError  = "clear-error"
)

// Input is one unit read from an IOHandler.
// Exactly one of Command, Keys or Tokens is normally set; an empty Input is skipped.
type Input struct {
	Command string       `json:"command,omitempty"`
	Arg     string       `json:"arg,omitempty"`
	Tokens  []string     `json:"tokens,omitempty"`
	Keys    []keymap.Key `json:"keys,omitempty"`
}

// Empty reports whether the input carries nothing to do.
func (in Input) Empty() bool {
	return in.Command == "" && len(in.Tokens) == 0 && len(in.Keys) == 0
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between text, raw-key and JSON modes.
type IOHandler interface {
	// Output presents the current state.
	Output(ctx context.Context, state *domain.State) error

	// Input blocks until the next input is available.
	// It returns io.EOF when the source is exhausted.
	Input(ctx context.Context) (Input, error)

	// SystemOutput presents a meta-message such as help or a rejected key.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms markdown before output (e.g. to ANSI).
// This allows TUI rendering without coupling the runner to a renderer.
type ContentRenderer func(string) (string, error)

// PanelRenderer draws the calculator display for a state.
type PanelRenderer func(*domain.State) string

// PlainPanel renders the display without styling:
//
//	12 + 30 = 42
//	42                      DEG M
func PlainPanel(s *domain.State) string {
	var b strings.Builder
	if s.Equation != "" {
		b.WriteString(s.Equation)
		b.WriteByte('\n')
	}
	b.WriteString(s.Display)
	if ind := Indicators(s); ind != "" {
		b.WriteString("  [")
		b.WriteString(ind)
		b.WriteString("]")
	}
	if s.Error != nil {
		fmt.Fprintf(&b, "\n! %s", s.Error.Message)
	}
	return b.String()
}

// Indicators lists the mode flags shown next to the display.
func Indicators(s *domain.State) string {
	parts := []string{strings.ToUpper(string(s.AngleMode))}
	if s.IsSecondMode {
		parts = append(parts, "2nd")
	}
	if s.Memory.HasValue {
		parts = append(parts, "M")
	}
	return strings.Join(parts, " ")
}

// ParseLine turns a text line into an Input.
// Lines starting with ':' are commands (":deg", ":help", ":mc"); the bare words
// quit, exit and help are accepted too. Anything else is a list of key tokens.
func ParseLine(line string) (Input, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Input{}, nil
	}

	switch strings.ToLower(line) {
	case "quit", "exit":
		return Input{Command: CommandQuit}, nil
	case "help", "?":
		return Input{Command: CommandHelp}, nil
	}

	if rest, ok := strings.CutPrefix(line, ":"); ok {
		fields := strings.Fields(strings.ToLower(rest))
		if len(fields) == 0 {
			return Input{}, fmt.Errorf("empty command")
		}
		switch fields[0] {
		case "q", "quit", "exit":
			return Input{Command: CommandQuit}, nil
		case "h", "help":
			return Input{Command: CommandHelp}, nil
		case "deg", "rad":
			return Input{Command: CommandAngle, Arg: fields[0]}, nil
		case "angle", "mode":
			if len(fields) != 2 {
				return Input{}, fmt.Errorf("usage: :angle deg|rad")
			}
			return Input{Command: CommandAngle, Arg: fields[1]}, nil
		case "clear-memory", "mclear":
			return Input{Command: CommandClearMemory}, nil
		case "clear-error", "ok":
			return Input{Command: CommandClearError}, nil
		}
		return Input{}, fmt.Errorf("unknown command %q", fields[0])
	}

	return Input{Tokens: strings.Fields(line)}, nil
}
