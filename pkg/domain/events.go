package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventReduce     EventType = "reduce"
	EventMathError  EventType = "math_error"
	EventAngleMode  EventType = "angle_mode"
	EventUnknownKey EventType = "unknown_key"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// ReduceEvent is emitted after every reduction.
type ReduceEvent struct {
	EventBase
	Input   Event  `json:"input"`
	Display string `json:"display"`
	Changed bool   `json:"changed"`
}

// ErrorEvent is emitted when a reduction leaves the state in error,
// or when a host rejects a key.
type ErrorEvent struct {
	EventBase
	Input   Event     `json:"input,omitempty"`
	Kind    ErrorKind `json:"kind,omitempty"`
	Message string    `json:"message"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any nil hook is skipped.
type LifecycleHooks struct {
	OnReduce     func(context.Context, *ReduceEvent)
	OnError      func(context.Context, *ErrorEvent)
	OnAngleMode  func(context.Context, AngleMode)
	OnUnknownKey func(context.Context, string)
}
