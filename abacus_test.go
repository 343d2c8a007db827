package abacus_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/keymap"
)

func TestCalculator_Start(t *testing.T) {
	calc := abacus.New(abacus.WithAngleMode(domain.AngleRadians))

	state := calc.Start()
	assert.Equal(t, "0", state.Display)
	assert.True(t, state.IsNewNumber)
	assert.Equal(t, domain.AngleRadians, state.AngleMode)

	tagged := calc.StartSession("abc")
	assert.Equal(t, "abc", tagged.SessionID)
}

func TestCalculator_PressAll(t *testing.T) {
	calc := abacus.New()
	ctx := context.Background()

	state, err := calc.PressAll(ctx, calc.Start(), []string{"12", "+", "30", "="})
	require.NoError(t, err)
	assert.Equal(t, "42", state.Display)
	assert.Equal(t, "12 + 30 = 42", state.Equation)

	state, err = calc.Press(ctx, state, "x²")
	require.NoError(t, err)
	assert.Equal(t, "1764", state.Display)
}

func TestCalculator_UnknownTokenLeavesState(t *testing.T) {
	var rejected []string
	calc := abacus.New(abacus.WithLifecycleHooks(domain.LifecycleHooks{
		OnUnknownKey: func(_ context.Context, token string) { rejected = append(rejected, token) },
	}))
	ctx := context.Background()

	state, err := calc.PressAll(ctx, calc.Start(), []string{"7"})
	require.NoError(t, err)

	next, err := calc.PressAll(ctx, state, []string{"1", "log", "2"})
	assert.ErrorIs(t, err, domain.ErrUnknownKey)
	assert.Same(t, state, next)
	assert.Equal(t, "7", next.Display)
	assert.Equal(t, []string{"1 log 2"}, rejected)
}

func TestCalculator_BasicKeymap(t *testing.T) {
	calc := abacus.New(abacus.WithKeymap(keymap.ProfileBasic))
	ctx := context.Background()

	_, err := calc.Press(ctx, calc.Start(), "sqrt")
	assert.ErrorIs(t, err, domain.ErrKeyNotInLayout)

	// Reduce bypasses the layout.
	state := calc.Reduce(ctx, calc.Start(), domain.Digit("9"))
	state = calc.Reduce(ctx, state, domain.Unary(domain.OpSqrt))
	assert.Equal(t, "3", state.Display)
}

func TestCalculator_PressKey(t *testing.T) {
	calc := abacus.New()
	ctx := context.Background()

	state := calc.Start()
	for _, desc := range []string{"9", "0", "s"} {
		k, err := keymap.ParseKey(desc)
		require.NoError(t, err)
		state, err = calc.PressKey(ctx, state, k)
		require.NoError(t, err)
	}
	assert.Equal(t, "1", state.Display)
}

func TestCalculator_LogsErrors(t *testing.T) {
	var buf bytes.Buffer
	calc := abacus.New(abacus.WithLogger(logging.NewWithWriter(&buf, 0)))

	_, err := calc.PressAll(context.Background(), calc.StartSession("s1"), []string{"5", "/", "0", "="})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "calculation error")
	assert.Contains(t, buf.String(), "session_id=s1")
	assert.Contains(t, buf.String(), `err="division by zero"`)
}

func TestCalculator_SetAngleMode(t *testing.T) {
	var modes []domain.AngleMode
	calc := abacus.New(abacus.WithLifecycleHooks(domain.LifecycleHooks{
		OnAngleMode: func(_ context.Context, m domain.AngleMode) { modes = append(modes, m) },
	}))

	state, err := calc.SetAngleMode(context.Background(), calc.Start(), domain.AngleRadians)
	require.NoError(t, err)
	assert.Equal(t, domain.AngleRadians, state.AngleMode)
	assert.Equal(t, []domain.AngleMode{domain.AngleRadians}, modes)
}

func TestDirectWrites(t *testing.T) {
	calc := abacus.New()
	ctx := context.Background()

	state, err := calc.PressAll(ctx, calc.Start(), []string{"5", "ms", "/", "0", "="})
	require.NoError(t, err)
	require.NotNil(t, state.Error)
	require.True(t, state.Memory.HasValue)

	rad := abacus.SetAngleMode(state, domain.AngleRadians)
	assert.Equal(t, domain.AngleRadians, rad.AngleMode)
	assert.Equal(t, domain.AngleDegrees, state.AngleMode)
	assert.Equal(t, domain.AngleRadians, abacus.SetAngleMode(rad, "grad").AngleMode)

	cleared := abacus.ClearMemory(state)
	assert.Equal(t, domain.Memory{}, cleared.Memory)
	assert.True(t, state.Memory.HasValue)

	recovered := abacus.ClearError(state)
	assert.Nil(t, recovered.Error)
	assert.Equal(t, "0", recovered.Display)
	assert.Empty(t, recovered.Equation)
	assert.NotNil(t, state.Error)
	assert.True(t, recovered.Memory.HasValue)
}

func TestFormat(t *testing.T) {
	s, err := abacus.Format(0.1 + 0.2)
	require.NoError(t, err)
	assert.Equal(t, "0.3", s)
}
