package domain

// StateDiff represents the visible changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Display      *string    `json:"display,omitempty"`
	Equation     *string    `json:"equation,omitempty"`
	Memory       *Memory    `json:"memory,omitempty"`
	AngleMode    *AngleMode `json:"angle_mode,omitempty"`
	IsSecondMode *bool      `json:"is_second_mode,omitempty"`

	// Error is set when a new error appears.
	Error *CalcError `json:"error,omitempty"`

	// ErrorCleared is true when a previous error went away.
	ErrorCleared bool `json:"error_cleared,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing visible changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	if oldState == nil || oldState.Display != newState.Display {
		diff.Display = &newState.Display
	}
	if oldState == nil || oldState.Equation != newState.Equation {
		diff.Equation = &newState.Equation
	}
	if oldState == nil || oldState.Memory != newState.Memory {
		m := newState.Memory
		diff.Memory = &m
	}
	if oldState == nil || oldState.AngleMode != newState.AngleMode {
		diff.AngleMode = &newState.AngleMode
	}
	if oldState == nil || oldState.IsSecondMode != newState.IsSecondMode {
		diff.IsSecondMode = &newState.IsSecondMode
	}

	diff.Error, diff.ErrorCleared = diffError(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffError(old *State, new *State) (*CalcError, bool) {
	var before *CalcError
	if old != nil {
		before = old.Error
	}
	switch {
	case new.Error == nil && before != nil:
		return nil, true
	case new.Error != nil && (before == nil || *before != *new.Error):
		e := *new.Error
		return &e, false
	}
	return nil, false
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Display == nil &&
		d.Equation == nil &&
		d.Memory == nil &&
		d.AngleMode == nil &&
		d.IsSecondMode == nil &&
		d.Error == nil &&
		!d.ErrorCleared
}
