package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/keymap"
)

// KeyHandler reads single keystrokes, switching the terminal to raw mode
// when the input is a TTY. Ctrl+C, Ctrl+D and 'Q' quit; '?' shows help.
//
// A raw terminal sends the same byte for Ctrl+M and Enter, so Ctrl+M always
// presses '='. Memory keys are reachable through their letters instead.
type KeyHandler struct {
	Writer   io.Writer
	Renderer ContentRenderer
	Panel    PanelRenderer

	reader  *bufio.Reader
	fd      int
	isTTY   bool
	restore *term.State
}

// NewKeyHandler creates a raw-key handler. Call Start before the first Input
// and Close when done so the terminal is restored.
func NewKeyHandler(r io.Reader, w io.Writer) *KeyHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &KeyHandler{
		Writer: w,
		Panel:  PlainPanel,
		reader: bufio.NewReader(r),
	}
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		h.fd = int(f.Fd())
		h.isTTY = true
	}
	return h
}

// Start enters raw mode. It is a no-op when the input is not a terminal.
func (h *KeyHandler) Start() error {
	if !h.isTTY || h.restore != nil {
		return nil
	}
	old, err := term.MakeRaw(h.fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	h.restore = old
	return nil
}

// Close restores the terminal.
func (h *KeyHandler) Close() error {
	if h.restore == nil {
		return nil
	}
	err := term.Restore(h.fd, h.restore)
	h.restore = nil
	return err
}

func (h *KeyHandler) Output(ctx context.Context, state *domain.State) error {
	return h.write(h.Panel(state))
}

func (h *KeyHandler) SystemOutput(ctx context.Context, msg string) error {
	output := msg
	if h.Renderer != nil {
		if rendered, err := h.Renderer(msg); err == nil {
			output = rendered
		}
	}
	return h.write(strings.TrimRight(output, "\n"))
}

// write translates newlines because raw mode disables output post-processing.
func (h *KeyHandler) write(s string) error {
	if h.restore != nil {
		s = strings.ReplaceAll(s, "\n", "\r\n")
		_, err := io.WriteString(h.Writer, s+"\r\n")
		return err
	}
	_, err := fmt.Fprintln(h.Writer, s)
	return err
}

func (h *KeyHandler) Input(ctx context.Context) (Input, error) {
	type result struct {
		in  Input
		err error
	}
	ch := make(chan result, 1)
	go func() {
		in, err := ReadKey(h.reader)
		ch <- result{in, err}
	}()

	select {
	case <-ctx.Done():
		return Input{}, ctx.Err()
	case res := <-ch:
		return res.in, res.err
	}
}

// ReadKey decodes one keystroke from a raw terminal stream.
// Unrecognized escape sequences (arrows, function keys) yield an empty Input.
func ReadKey(r *bufio.Reader) (Input, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Input{}, err
	}

	switch b {
	case 0x03, 0x04: // Ctrl+C, Ctrl+D
		return Input{Command: CommandQuit}, nil
	case '\r', '\n':
		return keyInput(keymap.Key{Name: "Enter"}), nil
	case 0x7f, 0x08:
		return keyInput(keymap.Key{Name: "Backspace"}), nil
	case '\t':
		return Input{}, nil
	case 0x1b:
		if r.Buffered() == 0 {
			return keyInput(keymap.Key{Name: "Escape"}), nil
		}
		next, _ := r.ReadByte()
		if next == '[' || next == 'O' {
			// CSI/SS3: parameters then a final byte in 0x40..0x7e.
			for r.Buffered() > 0 {
				c, _ := r.ReadByte()
				if c >= 0x40 && c <= 0x7e {
					break
				}
			}
			return Input{}, nil
		}
		k, err := keymap.ParseKey(string(rune(next)))
		if err != nil {
			return Input{}, nil
		}
		k.Meta = true
		return keyInput(k), nil
	case '?':
		return Input{Command: CommandHelp}, nil
	case 'Q':
		return Input{Command: CommandQuit}, nil
	}

	if b >= 0x01 && b <= 0x1a {
		return keyInput(keymap.Key{Name: string(rune('a' + b - 1)), Ctrl: true}), nil
	}

	if b < utf8.RuneSelf {
		k, err := keymap.ParseKey(string(rune(b)))
		if err != nil {
			return Input{}, nil
		}
		return keyInput(k), nil
	}

	// Multi-byte rune such as ² or ÷: read the rest and resolve it as a token.
	if err := r.UnreadByte(); err != nil {
		return Input{}, err
	}
	ru, _, err := r.ReadRune()
	if err != nil {
		return Input{}, err
	}
	if ru == utf8.RuneError {
		return Input{}, nil
	}
	return Input{Tokens: []string{string(ru)}}, nil
}

func keyInput(k keymap.Key) Input {
	return Input{Keys: []keymap.Key{k}}
}
