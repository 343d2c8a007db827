package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	display5 := "5"
	eq := "2 + "
	rad := AngleRadians
	on := true

	tests := []struct {
		name     string
		old      *State
		new      *State
		wantDiff *StateDiff // nil means we expect no diff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  &State{SessionID: "sess-1", Display: "5", AngleMode: AngleRadians},
			wantDiff: &StateDiff{
				SessionID:    "sess-1",
				Display:      &display5,
				Equation:     new(string),
				Memory:       &Memory{},
				AngleMode:    &rad,
				IsSecondMode: new(bool),
			},
		},
		{
			name:     "No Changes",
			old:      &State{SessionID: "sess-1", Display: "5"},
			new:      &State{SessionID: "sess-1", Display: "5"},
			wantDiff: nil,
		},
		{
			name: "Display and Equation",
			old:  &State{SessionID: "sess-1", Display: "2"},
			new:  &State{SessionID: "sess-1", Display: "5", Equation: "2 + "},
			wantDiff: &StateDiff{
				SessionID: "sess-1",
				Display:   &display5,
				Equation:  &eq,
			},
		},
		{
			name: "Second Mode Toggled",
			old:  &State{Display: "0"},
			new:  &State{Display: "0", IsSecondMode: true},
			wantDiff: &StateDiff{
				IsSecondMode: &on,
			},
		},
		{
			name: "Error Appears",
			old:  &State{Display: "5"},
			new:  &State{Display: ErrorMarker, Error: &CalcError{Message: "division by zero", Kind: ErrorKindMath}},
			wantDiff: &StateDiff{
				Display: &[]string{ErrorMarker}[0],
				Error:   &CalcError{Message: "division by zero", Kind: ErrorKindMath},
			},
		},
		{
			name: "Error Cleared",
			old:  &State{Display: ErrorMarker, Error: &CalcError{Message: "invalid input", Kind: ErrorKindMath}},
			new:  &State{Display: "7"},
			wantDiff: &StateDiff{
				Display:      &[]string{"7"}[0],
				ErrorCleared: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantDiff == nil {
				if got != nil {
					t.Errorf("Diff() = %+v, want nil", got)
				}
				return
			}

			if got == nil {
				t.Fatalf("Diff() = nil, want %+v", tt.wantDiff)
			}

			if got.SessionID != tt.wantDiff.SessionID {
				t.Errorf("Diff().SessionID = %v, want %v", got.SessionID, tt.wantDiff.SessionID)
			}
			if !equalPtr(got.Display, tt.wantDiff.Display) {
				t.Errorf("Diff().Display = %v, want %v", got.Display, tt.wantDiff.Display)
			}
			if !equalPtr(got.Equation, tt.wantDiff.Equation) {
				t.Errorf("Diff().Equation = %v, want %v", got.Equation, tt.wantDiff.Equation)
			}
			if !equalPtr(got.Memory, tt.wantDiff.Memory) {
				t.Errorf("Diff().Memory = %v, want %v", got.Memory, tt.wantDiff.Memory)
			}
			if !equalPtr(got.AngleMode, tt.wantDiff.AngleMode) {
				t.Errorf("Diff().AngleMode = %v, want %v", got.AngleMode, tt.wantDiff.AngleMode)
			}
			if !equalPtr(got.IsSecondMode, tt.wantDiff.IsSecondMode) {
				t.Errorf("Diff().IsSecondMode = %v, want %v", got.IsSecondMode, tt.wantDiff.IsSecondMode)
			}
			if !reflect.DeepEqual(got.Error, tt.wantDiff.Error) {
				t.Errorf("Diff().Error = %v, want %v", got.Error, tt.wantDiff.Error)
			}
			if got.ErrorCleared != tt.wantDiff.ErrorCleared {
				t.Errorf("Diff().ErrorCleared = %v, want %v", got.ErrorCleared, tt.wantDiff.ErrorCleared)
			}
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	t.Run("Unchanged Fields Omitted", func(t *testing.T) {
		s1 := &State{Display: "1", Equation: "1 + "}
		s2 := &State{Display: "2", Equation: "1 + "}
		diff := Diff(s1, s2)

		if diff == nil {
			t.Fatal("Expected diff, got nil")
		}

		bytes, _ := json.Marshal(diff)
		if strings.Contains(string(bytes), `"equation"`) {
			t.Errorf("JSON should not contain 'equation' when unchanged, got: %s", string(bytes))
		}
		if !strings.Contains(string(bytes), `"display":"2"`) {
			t.Errorf("JSON should contain the new display, got: %s", string(bytes))
		}
	})
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
