package domain

import "errors"

// Math errors raised by the operator table. Their text is what the user sees.
var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNonFinite      = errors.New("result is not a finite number")
	ErrMemoryOverflow = errors.New("memory overflow")
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionExists is returned when creating a session whose ID is taken.
var ErrSessionExists = errors.New("session already exists")

// ErrUnknownKey is returned when a token or key press has no binding.
var ErrUnknownKey = errors.New("unknown key")

// ErrKeyNotInLayout is returned when a key exists but the active layout hides it.
var ErrKeyNotInLayout = errors.New("key not available in this layout")

// ErrInvalidAngleMode is returned for angle modes other than deg/rad.
var ErrInvalidAngleMode = errors.New("invalid angle mode")

// ErrInvalidEvent is returned when an Event payload does not match its kind.
var ErrInvalidEvent = errors.New("invalid event")
