package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/abacus/pkg/domain"
)

// LogHooks returns hooks that write engine activity as structured log records.
// Reductions are logged at debug level, failures at warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnReduce: func(ctx context.Context, e *domain.ReduceEvent) {
			logger.DebugContext(ctx, "reduce",
				"session_id", e.SessionID,
				"input", e.Input.String(),
				"display", e.Display,
				"changed", e.Changed,
			)
		},
		OnError: func(ctx context.Context, e *domain.ErrorEvent) {
			logger.WarnContext(ctx, "math_error",
				"session_id", e.SessionID,
				"input", e.Input.String(),
				"kind", e.Kind,
				"err", e.Message,
			)
		},
		OnAngleMode: func(ctx context.Context, mode domain.AngleMode) {
			logger.InfoContext(ctx, "angle_mode", "mode", mode)
		},
		OnUnknownKey: func(ctx context.Context, token string) {
			logger.WarnContext(ctx, "unknown_key", "token", token)
		},
	}
}

// Chain merges hook sets; each event is delivered to every non-nil hook in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		h := h
		if f := h.OnReduce; f != nil {
			prev := out.OnReduce
			out.OnReduce = func(ctx context.Context, e *domain.ReduceEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				f(ctx, e)
			}
		}
		if f := h.OnError; f != nil {
			prev := out.OnError
			out.OnError = func(ctx context.Context, e *domain.ErrorEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				f(ctx, e)
			}
		}
		if f := h.OnAngleMode; f != nil {
			prev := out.OnAngleMode
			out.OnAngleMode = func(ctx context.Context, m domain.AngleMode) {
				if prev != nil {
					prev(ctx, m)
				}
				f(ctx, m)
			}
		}
		if f := h.OnUnknownKey; f != nil {
			prev := out.OnUnknownKey
			out.OnUnknownKey = func(ctx context.Context, token string) {
				if prev != nil {
					prev(ctx, token)
				}
				f(ctx, token)
			}
		}
	}
	return out
}
