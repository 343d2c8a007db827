package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/pkg/adapters/memory"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/keymap"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/aretw0/abacus/pkg/session"
)

func TestRunner_TextSession(t *testing.T) {
	in := strings.NewReader("12 + 30 =\nlog\n:rad\n")
	var out bytes.Buffer

	r := runner.NewRunner(
		runner.WithCalculator(abacus.New()),
		runner.WithInputHandler(runner.NewTextHandler(in, &out)),
	)
	require.NoError(t, r.Run(context.Background()))

	final := r.State()
	assert.Equal(t, "42", final.Display)
	assert.Equal(t, "12 + 30 = 42", final.Equation)
	assert.Equal(t, domain.AngleRadians, final.AngleMode)

	text := out.String()
	assert.Contains(t, text, "12 + 30 = 42\n42  [DEG]")
	assert.Contains(t, text, "unknown key")
	assert.Contains(t, text, "42  [RAD]")
}

func TestRunner_Quit(t *testing.T) {
	in := strings.NewReader("5\nquit\n7\n")
	var out bytes.Buffer

	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(in, &out)))
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, "5", r.State().Display)
}

func TestRunner_Help(t *testing.T) {
	in := strings.NewReader("help\n")
	var out bytes.Buffer

	h := runner.NewTextHandler(in, &out, runner.WithTextHandlerRenderer(func(s string) (string, error) {
		return "RENDERED " + s, nil
	}))
	r := runner.NewRunner(
		runner.WithCalculator(abacus.New(abacus.WithKeymap(keymap.ProfileBasic))),
		runner.WithInputHandler(h),
	)
	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, out.String(), "RENDERED # Keys (basic)")
	assert.NotContains(t, out.String(), "`sin`")
}

func TestRunner_CommandsAndMemory(t *testing.T) {
	in := strings.NewReader("9 ms\n:clear-memory\n1 / 0 =\n:clear-error\n:angle grad\n")
	var out bytes.Buffer

	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(in, &out, runner.WithPrompt(""))))
	require.NoError(t, r.Run(context.Background()))

	final := r.State()
	assert.False(t, final.Memory.HasValue)
	assert.Nil(t, final.Error)
	assert.Equal(t, "0", final.Display)
	assert.Contains(t, out.String(), "! division by zero")
	assert.Contains(t, out.String(), "invalid angle mode")
}

func TestRunner_PersistsSession(t *testing.T) {
	ctx := context.Background()
	calc := abacus.New()
	store := memory.NewStore()
	sessions := session.NewManager(store, session.WithStarter(calc.StartSession))

	run := func(input string) *runner.Runner {
		r := runner.NewRunner(
			runner.WithCalculator(calc),
			runner.WithSessions(sessions),
			runner.WithSessionID("desk"),
			runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(input), &bytes.Buffer{})),
		)
		require.NoError(t, r.Run(ctx))
		return r
	}

	run("6 * 7 = ms\n")
	r := run("C mr +\n1 =\n")
	assert.Equal(t, "43", r.State().Display)

	stored, err := store.Load(ctx, "desk")
	require.NoError(t, err)
	assert.Equal(t, "43", stored.Display)
	assert.Equal(t, "desk", stored.SessionID)
	assert.Equal(t, 42.0, stored.Memory.Value)
}

func TestRunner_RejectedKeyIsNotSaved(t *testing.T) {
	ctx := context.Background()
	calc := abacus.New()
	store := memory.NewStore()
	sessions := session.NewManager(store, session.WithStarter(calc.StartSession))

	r := runner.NewRunner(
		runner.WithCalculator(calc),
		runner.WithSessions(sessions),
		runner.WithSessionID("s"),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("3\n4 log\n"), &bytes.Buffer{})),
	)
	require.NoError(t, r.Run(ctx))

	stored, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "3", stored.Display)
}

func TestRunner_InitialState(t *testing.T) {
	start := domain.NewState()
	start.Display = "2"
	start.IsNewNumber = false

	r := runner.NewRunner(
		runner.WithInitialState(start),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("square\n"), &bytes.Buffer{})),
	)
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, "4", r.State().Display)
	assert.Equal(t, "2", start.Display)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := ioPipe()
	defer pw.Close()

	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(pr, &bytes.Buffer{})))
	assert.NoError(t, r.Run(ctx))
}

func TestRunner_JSONHandler(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		`{"tokens": ["2", "^", "8", "="]}`,
		`["sqrt"]`,
		`{"tokens": ["log"]}`,
		`{"command": "angle", "arg": "rad"}`,
		`not json at all`,
		`{"tokens": [`,
	}, "\n"))
	var out bytes.Buffer

	r := runner.NewRunner(runner.WithInputHandler(runner.NewJSONHandler(in, &out)))
	require.NoError(t, r.Run(context.Background()))

	var msgs []runner.Message
	dec := json.NewDecoder(&out)
	for dec.More() {
		var m runner.Message
		require.NoError(t, dec.Decode(&m))
		msgs = append(msgs, m)
	}

	var states, system []runner.Message
	for _, m := range msgs {
		if m.Type == "state" {
			states = append(states, m)
		} else {
			system = append(system, m)
		}
	}

	// The state is rendered before every read, including after rejected input.
	require.Len(t, states, 6)
	assert.Equal(t, "0", states[0].State.Display)
	assert.Equal(t, "256", states[1].State.Display)
	assert.Equal(t, "16", states[2].State.Display)
	assert.Equal(t, "16", states[5].State.Display)
	assert.Equal(t, domain.AngleDegrees, states[3].State.AngleMode)
	assert.Equal(t, domain.AngleRadians, states[4].State.AngleMode)

	require.Len(t, system, 3)
	assert.Contains(t, system[0].Message, "unknown key")
	assert.Contains(t, system[1].Message, "unknown key", "plain text is parsed as tokens")
	assert.Contains(t, system[2].Message, "invalid input object")
}
