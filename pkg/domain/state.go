package domain

// ErrorMarker is the fixed display text shown while an error is active.
const ErrorMarker = "Error"

// AngleMode governs the domain conversion of trigonometric functions.
type AngleMode string

const (
	AngleDegrees AngleMode = "deg"
	AngleRadians AngleMode = "rad"
)

// Valid reports whether m is a known angle mode.
func (m AngleMode) Valid() bool {
	return m == AngleDegrees || m == AngleRadians
}

// ParseAngleMode accepts the short and long spellings of an angle mode.
func ParseAngleMode(s string) (AngleMode, error) {
	switch s {
	case "deg", "degrees", "DEG":
		return AngleDegrees, nil
	case "rad", "radians", "RAD":
		return AngleRadians, nil
	}
	return "", ErrInvalidAngleMode
}

// ErrorKind classifies a CalcError.
type ErrorKind string

const (
	ErrorKindMath   ErrorKind = "math"   // Domain errors and non-finite results
	ErrorKindSystem ErrorKind = "system" // Unexpected failures inside the engine
)

// CalcError is a recoverable error surfaced through the State.
// The next digit, decimal point, constant or clear recovers the session.
type CalcError struct {
	Message string    `json:"message"`
	Kind    ErrorKind `json:"kind"`
}

func (e *CalcError) Error() string {
	return e.Message
}

// Memory is the single-slot accumulator.
// HasValue distinguishes "memory holds 0" from "memory never set".
type Memory struct {
	Value    float64 `json:"value"`
	HasValue bool    `json:"has_value"`
}

// State represents the current snapshot of a calculation session.
// Hosts must treat a State as immutable and obtain new ones from the engine.
type State struct {
	// SessionID identifies the session for hosts that persist snapshots.
	// The reducer never reads it.
	SessionID string `json:"session_id,omitempty"`

	// Display is the numeric text under construction, a formatted result or ErrorMarker.
	Display string `json:"display"`

	// Equation is the human-readable trail of the pending or last computation.
	Equation string `json:"equation"`

	// IsNewNumber is true when the next digit starts a fresh operand.
	IsNewNumber bool `json:"is_new_number"`

	// LastOperator is the pending binary operator (zero value when none).
	LastOperator BinaryOperator `json:"last_operator,omitempty"`

	// LastNumber is the first operand captured with LastOperator.
	LastNumber string `json:"last_number,omitempty"`

	Memory Memory `json:"memory"`

	AngleMode AngleMode `json:"angle_mode"`

	// IsSecondMode selects the inverse binding for the next unary operator.
	IsSecondMode bool `json:"is_second_mode"`

	// Error is set while the display shows ErrorMarker.
	Error *CalcError `json:"error,omitempty"`
}

// NewState creates the session-start state.
func NewState() *State {
	return &State{
		Display:     "0",
		IsNewNumber: true,
		AngleMode:   AngleDegrees,
	}
}

// HasPending reports whether a binary operator is waiting for its second operand.
func (s *State) HasPending() bool {
	return s.LastOperator != "" && s.LastNumber != ""
}

// Clone returns a copy that shares no mutable data with s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := *s
	if s.Error != nil {
		e := *s.Error
		next.Error = &e
	}
	return &next
}
