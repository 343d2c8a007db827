package domain

import "fmt"

// EventKind tags the variant of an input Event.
type EventKind string

const (
	KindDigit     EventKind = "digit"
	KindDecimal   EventKind = "decimal"
	KindClear     EventKind = "clear"
	KindBackspace EventKind = "backspace"
	KindBinary    EventKind = "binary"
	KindUnary     EventKind = "unary"
	KindConstant  EventKind = "constant"
	KindMemory    EventKind = "memory"
	KindSecond    EventKind = "second"
	KindEquals    EventKind = "equals"
)

// Event is one discrete user action fed to the engine.
// Only the payload field matching Kind is meaningful.
type Event struct {
	Kind     EventKind      `json:"kind"`
	Digit    string         `json:"digit,omitempty"`
	Binary   BinaryOperator `json:"binary,omitempty"`
	Unary    UnaryOperator  `json:"unary,omitempty"`
	Constant Constant       `json:"constant,omitempty"`
	Memory   MemoryOperator `json:"memory,omitempty"`
}

// Digit creates a digit event. d must be a single character "0" to "9".
func Digit(d string) Event { return Event{Kind: KindDigit, Digit: d} }

func DecimalPoint() Event { return Event{Kind: KindDecimal} }

func Clear() Event { return Event{Kind: KindClear} }

func Backspace() Event { return Event{Kind: KindBackspace} }

func Binary(op BinaryOperator) Event { return Event{Kind: KindBinary, Binary: op} }

func Unary(op UnaryOperator) Event { return Event{Kind: KindUnary, Unary: op} }

func ConstantEvent(c Constant) Event { return Event{Kind: KindConstant, Constant: c} }

func MemoryEvent(op MemoryOperator) Event { return Event{Kind: KindMemory, Memory: op} }

func ToggleSecond() Event { return Event{Kind: KindSecond} }

func Equals() Event { return Event{Kind: KindEquals} }

// Validate checks that the payload matches the kind.
func (e Event) Validate() error {
	switch e.Kind {
	case KindDigit:
		if len(e.Digit) != 1 || e.Digit[0] < '0' || e.Digit[0] > '9' {
			return fmt.Errorf("%w: digit %q", ErrInvalidEvent, e.Digit)
		}
	case KindBinary:
		if !e.Binary.Valid() {
			return fmt.Errorf("%w: binary operator %q", ErrInvalidEvent, e.Binary)
		}
	case KindUnary:
		if !e.Unary.Valid() {
			return fmt.Errorf("%w: unary operator %q", ErrInvalidEvent, e.Unary)
		}
	case KindConstant:
		if !e.Constant.Valid() {
			return fmt.Errorf("%w: constant %q", ErrInvalidEvent, e.Constant)
		}
	case KindMemory:
		if !e.Memory.Valid() {
			return fmt.Errorf("%w: memory operator %q", ErrInvalidEvent, e.Memory)
		}
	case KindDecimal, KindClear, KindBackspace, KindSecond, KindEquals:
	default:
		return fmt.Errorf("%w: kind %q", ErrInvalidEvent, e.Kind)
	}
	return nil
}

// String renders the event the way a key label would read.
func (e Event) String() string {
	switch e.Kind {
	case KindDigit:
		return e.Digit
	case KindDecimal:
		return "."
	case KindClear:
		return "C"
	case KindBackspace:
		return "DEL"
	case KindBinary:
		return string(e.Binary)
	case KindUnary:
		return string(e.Unary)
	case KindConstant:
		return string(e.Constant)
	case KindMemory:
		return string(e.Memory)
	case KindSecond:
		return "2nd"
	case KindEquals:
		return "="
	}
	return string(e.Kind)
}
