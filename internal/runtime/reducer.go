package runtime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
)

// Reduce computes the state that follows s after ev.
// It is pure: s is never modified and the same inputs always give the same output.
// Failures are folded into the returned state's Error; Reduce never panics.
func Reduce(s domain.State, ev domain.Event) (next domain.State) {
	defer func() {
		if r := recover(); r != nil {
			next = fail(s, &domain.CalcError{
				Message: fmt.Sprintf("internal error: %v", r),
				Kind:    domain.ErrorKindSystem,
			})
		}
	}()

	if err := ev.Validate(); err != nil {
		return fail(s, systemError(err))
	}

	switch ev.Kind {
	case domain.KindDigit:
		return reduceDigit(s, ev.Digit)
	case domain.KindDecimal:
		return reduceDecimal(s)
	case domain.KindClear:
		return reduceClear(s)
	case domain.KindBackspace:
		return reduceBackspace(s)
	case domain.KindBinary:
		return reduceBinary(s, ev.Binary)
	case domain.KindUnary:
		return reduceUnary(s, ev.Unary)
	case domain.KindConstant:
		return reduceConstant(s, ev.Constant)
	case domain.KindMemory:
		return reduceMemory(s, ev.Memory)
	case domain.KindSecond:
		s.IsSecondMode = !s.IsSecondMode
		return s
	case domain.KindEquals:
		return reduceEquals(s)
	}
	return s
}

// startOperand begins a new operand, recovering from a previous error.
func startOperand(s domain.State, text string) domain.State {
	if s.Error != nil {
		s.Error = nil
		s.Equation = ""
	}
	s.Display = text
	s.IsNewNumber = false
	return s
}

func reduceDigit(s domain.State, d string) domain.State {
	if s.Error != nil || s.IsNewNumber {
		return startOperand(s, d)
	}
	if s.Display == "0" {
		s.Display = d
		return s
	}
	s.Display += d
	return s
}

func reduceDecimal(s domain.State) domain.State {
	if s.Error != nil || s.IsNewNumber {
		return startOperand(s, "0.")
	}
	if !strings.Contains(s.Display, ".") {
		s.Display += "."
	}
	return s
}

func reduceClear(s domain.State) domain.State {
	s.Display = "0"
	s.Equation = ""
	s.IsNewNumber = true
	s.LastOperator = ""
	s.LastNumber = ""
	s.Error = nil
	s.IsSecondMode = false
	return s
}

func reduceBackspace(s domain.State) domain.State {
	if s.Error != nil {
		s.Error = nil
		s.Equation = ""
		s.Display = "0"
		s.IsNewNumber = true
		return s
	}
	if s.IsNewNumber || len(s.Display) <= 1 {
		s.Display = "0"
		s.IsNewNumber = true
		return s
	}
	s.Display = s.Display[:len(s.Display)-1]
	if s.Display == "-" {
		s.Display = "0"
		s.IsNewNumber = true
	}
	return s
}

func reduceBinary(s domain.State, op domain.BinaryOperator) domain.State {
	s.IsSecondMode = false
	if s.Error != nil {
		return s
	}

	number := normalize(s.Display)
	s.LastOperator = op
	s.LastNumber = number
	s.Equation = number + " " + string(op) + " "
	s.IsNewNumber = true
	return s
}

func reduceUnary(s domain.State, op domain.UnaryOperator) domain.State {
	if s.IsSecondMode {
		op = op.Second()
	}
	s.IsSecondMode = false
	if s.Error != nil {
		return s
	}

	s.LastOperator = ""
	s.LastNumber = ""
	s.IsNewNumber = true

	a, err := ParseOperand(s.Display)
	if err != nil {
		return fail(s, mathError(err))
	}
	operand := normalize(s.Display)

	result, err := EvaluateUnary(op, a, s.AngleMode)
	if err == nil {
		var text string
		if text, err = Format(result); err == nil {
			s.Display = text
			s.Equation = fmt.Sprintf("%s(%s) = %s", op, operand, text)
			return s
		}
	}

	s.Equation = fmt.Sprintf("%s(%s) = %s", op, operand, domain.ErrorMarker)
	return fail(s, classify(err))
}

func reduceConstant(s domain.State, c domain.Constant) domain.State {
	s.IsSecondMode = false
	v, err := ConstantValue(c)
	if err != nil {
		return fail(s, systemError(err))
	}
	text, err := Format(v)
	if err != nil {
		return fail(s, mathError(err))
	}
	s.Error = nil
	s.Display = text
	s.IsNewNumber = true
	return s
}

func reduceMemory(s domain.State, op domain.MemoryOperator) domain.State {
	if s.Error != nil {
		// The marker has no numeric value; only clearing memory is meaningful.
		if op == domain.MemClear {
			s.Memory = domain.Memory{}
			s.IsNewNumber = true
		}
		return s
	}

	a, err := ParseOperand(s.Display)
	if err != nil {
		return fail(s, mathError(err))
	}

	shown, mem, err := ApplyMemory(op, a, s.Memory)
	if err != nil {
		return fail(s, classify(err))
	}
	text, err := Format(shown)
	if err != nil {
		return fail(s, mathError(err))
	}

	s.Memory = mem
	s.Display = text
	s.IsNewNumber = true
	return s
}

func reduceEquals(s domain.State) domain.State {
	if !s.HasPending() {
		return s
	}
	s.IsSecondMode = false

	op := s.LastOperator
	first := s.LastNumber
	s.LastOperator = ""
	s.LastNumber = ""
	s.IsNewNumber = true

	a, err := ParseOperand(first)
	if err != nil {
		return fail(s, mathError(err))
	}
	b, err := ParseOperand(s.Display)
	if err != nil {
		return fail(s, mathError(err))
	}
	second := normalize(s.Display)

	result, err := EvaluateBinary(op, a, b)
	if err == nil {
		var text string
		if text, err = Format(result); err == nil {
			s.Display = text
			s.Equation += second + " = " + text
			return s
		}
	}

	s.Equation += second + " = " + domain.ErrorMarker
	return fail(s, classify(err))
}

// fail puts s into the error state and drops any pending operation.
func fail(s domain.State, e *domain.CalcError) domain.State {
	s.Error = e
	s.Display = domain.ErrorMarker
	s.IsNewNumber = true
	s.LastOperator = ""
	s.LastNumber = ""
	s.IsSecondMode = false
	return s
}

func classify(err error) *domain.CalcError {
	if errors.Is(err, domain.ErrInvalidEvent) {
		return systemError(err)
	}
	return mathError(err)
}

func mathError(err error) *domain.CalcError {
	return &domain.CalcError{Message: err.Error(), Kind: domain.ErrorKindMath}
}

func systemError(err error) *domain.CalcError {
	return &domain.CalcError{Message: err.Error(), Kind: domain.ErrorKindSystem}
}
