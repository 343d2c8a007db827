package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
)

// Message is one line written by the JSONHandler.
type Message struct {
	Type    string        `json:"type"`
	State   *domain.State `json:"state,omitempty"`
	Message string        `json:"message,omitempty"`
}

// JSONHandler implements the IOHandler interface for JSON-Lines communication.
// Each input line is either an Input object ({"tokens": ["1", "+"]}),
// a JSON array of tokens, or a plain text line parsed like TextHandler does.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, state *domain.State) error {
	return h.Encoder.Encode(Message{Type: "state", State: state})
}

func (h *JSONHandler) Input(ctx context.Context) (Input, error) {
	for {
		text, err := h.Reader.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(text) == "") {
			return Input{}, err
		}

		text, serr := SanitizeInput(strings.TrimSpace(text))
		if serr != nil {
			if err := h.SystemOutput(ctx, serr.Error()); err != nil {
				return Input{}, err
			}
			continue
		}
		if text == "" {
			continue
		}

		in, perr := decodeInput(text)
		if perr != nil {
			if err := h.SystemOutput(ctx, perr.Error()); err != nil {
				return Input{}, err
			}
			continue
		}
		if !in.Empty() {
			return in, nil
		}
	}
}

func decodeInput(text string) (Input, error) {
	switch text[0] {
	case '{':
		var in Input
		if err := json.Unmarshal([]byte(text), &in); err != nil {
			return Input{}, fmt.Errorf("invalid input object: %w", err)
		}
		return in, nil
	case '[':
		var tokens []string
		if err := json.Unmarshal([]byte(text), &tokens); err != nil {
			return Input{}, fmt.Errorf("invalid token list: %w", err)
		}
		return Input{Tokens: tokens}, nil
	}
	return ParseLine(text)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Message{Type: "system", Message: msg})
}
