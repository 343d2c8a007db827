package middleware

import (
	"context"
	"fmt"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
)

type integrityMiddleware struct {
	next ports.StateStore
}

// NewIntegrityMiddleware keeps stored snapshots consistent with their key.
// Save stamps the session ID into the state and rejects an unknown angle mode;
// Load repairs snapshots written before the ID was stamped.
func NewIntegrityMiddleware() Middleware {
	return func(next ports.StateStore) ports.StateStore {
		return &integrityMiddleware{next: next}
	}
}

func (m *integrityMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	if state == nil {
		return fmt.Errorf("%w: nil state for session %q", domain.ErrInvalidEvent, sessionID)
	}
	if !state.AngleMode.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidAngleMode, state.AngleMode)
	}
	if state.SessionID != sessionID {
		// Avoid side effects on the caller's snapshot.
		state = state.Clone()
		state.SessionID = sessionID
	}
	return m.next.Save(ctx, sessionID, state)
}

func (m *integrityMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	state, err := m.next.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.SessionID == "" {
		state.SessionID = sessionID
	}
	return state, nil
}

func (m *integrityMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *integrityMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
