/*
Package abacus is a calculator engine built as a deterministic state machine.

It interprets a stream of discrete key presses (digits, binary operators, unary
functions, memory operations and mode toggles) and produces a display value, an
equation trail and an error state. The engine is a pure reducer: a state and an
event go in, a new state comes out. Hosts (terminal REPL, HTTP API, MCP server)
only dispatch events and render snapshots; none of them hold calculation logic.

# Concept

A session is a single domain.State value. Every input is reduced to completion
before the next one is accepted, and the returned state is an immutable
snapshot. Calculation failures such as division by zero never escape as Go
errors: they are folded into State.Error and the display shows "Error" until
the next digit, constant or clear.

# Usage

	calc := abacus.New(abacus.WithAngleMode(domain.AngleDegrees))
	ctx := context.Background()

	state := calc.Start()
	state, err := calc.PressAll(ctx, state, []string{"9", "0", "sin"})
	if err != nil {
		log.Fatal(err) // unknown token
	}
	fmt.Println(state.Display) // 1

Tokens are resolved by the keymap package. A multi-digit literal such as "12.5"
presses each of its keys in turn. Events can also be reduced directly:

	state = calc.Reduce(ctx, state, domain.Binary(domain.OpAdd))

# Hosting

The pkg/session package serializes access to stored sessions, pkg/runner drives
an interactive terminal loop, and pkg/adapters holds the storage backends and
the HTTP and MCP servers. cmd/abacus wires them into a single binary.
*/
package abacus
