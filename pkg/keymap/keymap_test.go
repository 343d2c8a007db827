package keymap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/keymap"
)

func TestResolve_EveryBinding(t *testing.T) {
	km := keymap.New(keymap.ProfileScientific)

	for _, b := range km.Bindings() {
		require.NoError(t, b.Event.Validate(), b.Token)

		ev, err := km.Resolve(b.Token)
		require.NoError(t, err, b.Token)
		assert.Equal(t, b.Event, ev, b.Token)

		for _, alias := range b.Aliases {
			ev, err := km.Resolve(alias)
			require.NoError(t, err, alias)
			assert.Equal(t, b.Event, ev, alias)
		}
	}
}

func TestResolve_Tokens(t *testing.T) {
	km := keymap.New(keymap.ProfileScientific)

	cases := map[string]domain.Event{
		"7":      domain.Digit("7"),
		"x²":     domain.Unary(domain.OpSquare),
		"1/x":    domain.Unary(domain.OpReciprocal),
		"|x|":    domain.Unary(domain.OpAbsolute),
		"2nd":    domain.ToggleSecond(),
		"AC":     domain.Clear(),
		"DEL":    domain.Backspace(),
		"del":    domain.Backspace(),
		"M+":     domain.MemoryEvent(domain.MemAdd),
		"PI":     domain.ConstantEvent(domain.ConstPi),
		" sqrt ": domain.Unary(domain.OpSqrt),
		"÷":      domain.Binary(domain.OpDivide),
	}
	for token, want := range cases {
		got, err := km.Resolve(token)
		require.NoError(t, err, token)
		assert.Equal(t, want, got, token)
	}

	_, err := km.Resolve("log")
	assert.ErrorIs(t, err, domain.ErrUnknownKey)
}

func TestBasicProfile(t *testing.T) {
	km := keymap.New(keymap.ProfileBasic)

	for _, token := range []string{"0", "9", ".", "+", "-", "*", "/", "=", "C", "DEL"} {
		_, err := km.Resolve(token)
		assert.NoError(t, err, token)
	}
	for _, token := range []string{"sin", "^", "pi", "mc", "2nd", "sqrt"} {
		_, err := km.Resolve(token)
		assert.ErrorIs(t, err, domain.ErrKeyNotInLayout, token)
	}

	for _, b := range km.Bindings() {
		assert.False(t, b.Scientific, b.Token)
	}
	assert.Less(t, len(km.Bindings()), len(keymap.New(keymap.ProfileScientific).Bindings()))
}

func TestExpand(t *testing.T) {
	km := keymap.New(keymap.ProfileBasic)

	events, err := km.Expand("12.5")
	require.NoError(t, err)
	assert.Equal(t, []domain.Event{
		domain.Digit("1"), domain.Digit("2"), domain.DecimalPoint(), domain.Digit("5"),
	}, events)

	events, err = km.Expand("+")
	require.NoError(t, err)
	assert.Equal(t, []domain.Event{domain.Binary(domain.OpAdd)}, events)

	events, err = km.ExpandAll([]string{"3", "*", "14", "="})
	require.NoError(t, err)
	assert.Len(t, events, 5)

	_, err = km.ExpandAll([]string{"3", "sin"})
	assert.ErrorIs(t, err, domain.ErrKeyNotInLayout)
}

func TestFromKey(t *testing.T) {
	km := keymap.New(keymap.ProfileScientific)

	cases := map[string]domain.Event{
		"5":            domain.Digit("5"),
		".":            domain.DecimalPoint(),
		"Enter":        domain.Equals(),
		"=":            domain.Equals(),
		"Escape":       domain.Clear(),
		"Backspace":    domain.Backspace(),
		"s":            domain.Unary(domain.OpSin),
		"S":            domain.Unary(domain.OpSin),
		"c":            domain.Unary(domain.OpCos),
		"t":            domain.Unary(domain.OpTan),
		"r":            domain.Unary(domain.OpSqrt),
		"q":            domain.Unary(domain.OpSqrt),
		"p":            domain.ConstantEvent(domain.ConstPi),
		"e":            domain.ConstantEvent(domain.ConstEuler),
		"Shift+^":      domain.Binary(domain.OpPower),
		"^":            domain.Binary(domain.OpPower),
		"Shift+6":      domain.Unary(domain.OpSquare),
		"Shift+|":      domain.Unary(domain.OpAbsolute),
		"Shift+*":      domain.Binary(domain.OpMultiply),
		"Ctrl+M":       domain.MemoryEvent(domain.MemClear),
		"Ctrl+Shift+M": domain.MemoryEvent(domain.MemAdd),
	}
	for desc, want := range cases {
		k, err := keymap.ParseKey(desc)
		require.NoError(t, err, desc)

		got, err := km.FromKey(k)
		require.NoError(t, err, desc)
		assert.Equal(t, want, got, desc)
	}

	_, err := km.FromKey(keymap.Key{Name: "z"})
	assert.ErrorIs(t, err, domain.ErrUnknownKey)
}

func TestParseKey(t *testing.T) {
	k, err := keymap.ParseKey("Ctrl+Shift+M")
	require.NoError(t, err)
	assert.Equal(t, keymap.Key{Name: "m", Ctrl: true, Shift: true}, k)
	assert.Equal(t, "Ctrl+Shift+M", k.String())

	k, err = keymap.ParseKey("+")
	require.NoError(t, err)
	assert.Equal(t, keymap.Key{Name: "+"}, k)

	k, err = keymap.ParseKey("Shift++")
	require.NoError(t, err)
	assert.Equal(t, keymap.Key{Name: "+", Shift: true}, k)

	k, err = keymap.ParseKey("esc")
	require.NoError(t, err)
	assert.Equal(t, "Escape", k.Name)

	_, err = keymap.ParseKey("Hyper+x")
	assert.Error(t, err)
}

func TestParseProfile(t *testing.T) {
	p, err := keymap.ParseProfile("")
	require.NoError(t, err)
	assert.Equal(t, keymap.ProfileScientific, p)

	p, err = keymap.ParseProfile("BASIC")
	require.NoError(t, err)
	assert.Equal(t, keymap.ProfileBasic, p)

	_, err = keymap.ParseProfile("programmer")
	assert.Error(t, err)
}
