package ports

import (
	"context"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/keymap"
)

// Calculator is the stateless engine surface used by adapters that keep
// session state outside the engine (HTTP, MCP).
type Calculator interface {
	// StartSession creates the session-start state tagged with sessionID.
	StartSession(sessionID string) *domain.State

	// PressAll maps tokens to events and reduces them in order.
	// An unknown token returns an error and the input state unchanged.
	PressAll(ctx context.Context, state *domain.State, tokens []string) (*domain.State, error)

	// SetAngleMode writes the angle mode outside of event reduction.
	SetAngleMode(ctx context.Context, state *domain.State, mode domain.AngleMode) (*domain.State, error)

	// Keymap exposes the active key layout for introspection.
	Keymap() *keymap.Keymap
}
