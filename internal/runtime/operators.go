package runtime

import (
	"fmt"
	"math"

	"github.com/aretw0/abacus/pkg/domain"
)

// EvaluateBinary applies a binary operator to a and b.
func EvaluateBinary(op domain.BinaryOperator, a, b float64) (float64, error) {
	switch op {
	case domain.OpAdd:
		return a + b, nil
	case domain.OpSubtract:
		return a - b, nil
	case domain.OpMultiply:
		return a * b, nil
	case domain.OpDivide:
		if b == 0 {
			return 0, domain.ErrDivisionByZero
		}
		return a / b, nil
	case domain.OpPower:
		// NaN (e.g. negative base, fractional exponent) is caught by Format.
		return math.Pow(a, b), nil
	}
	return 0, fmt.Errorf("%w: binary operator %q", domain.ErrInvalidEvent, op)
}

// EvaluateUnary applies a unary operator to a.
// Trigonometric operators honor mode: degrees are converted on the way in
// (forward functions) or on the way out (inverse functions).
func EvaluateUnary(op domain.UnaryOperator, a float64, mode domain.AngleMode) (float64, error) {
	switch op {
	case domain.OpSin:
		return math.Sin(toRadians(a, mode)), nil
	case domain.OpCos:
		return math.Cos(toRadians(a, mode)), nil
	case domain.OpTan:
		return math.Tan(toRadians(a, mode)), nil
	case domain.OpArcsin:
		if a < -1 || a > 1 {
			return 0, domain.ErrInvalidInput
		}
		return fromRadians(math.Asin(a), mode), nil
	case domain.OpArccos:
		if a < -1 || a > 1 {
			return 0, domain.ErrInvalidInput
		}
		return fromRadians(math.Acos(a), mode), nil
	case domain.OpArctan:
		return fromRadians(math.Atan(a), mode), nil
	case domain.OpSqrt:
		if a < 0 {
			return 0, domain.ErrInvalidInput
		}
		return math.Sqrt(a), nil
	case domain.OpCbrt:
		return math.Cbrt(a), nil
	case domain.OpSquare:
		return a * a, nil
	case domain.OpCube:
		return a * a * a, nil
	case domain.OpReciprocal:
		if a == 0 {
			return 0, domain.ErrDivisionByZero
		}
		return 1 / a, nil
	case domain.OpAbsolute:
		return math.Abs(a), nil
	case domain.OpExp:
		return math.Exp(a), nil
	}
	return 0, fmt.Errorf("%w: unary operator %q", domain.ErrInvalidEvent, op)
}

// ConstantValue returns the value of a named constant.
func ConstantValue(c domain.Constant) (float64, error) {
	switch c {
	case domain.ConstPi:
		return math.Pi, nil
	case domain.ConstEuler:
		return math.E, nil
	}
	return 0, fmt.Errorf("%w: constant %q", domain.ErrInvalidEvent, c)
}

// ApplyMemory evaluates a memory operator against the operand a and the current memory.
// It returns the value to display and the next memory. The memory value stays finite:
// an update that would overflow returns domain.ErrMemoryOverflow and leaves mem untouched.
func ApplyMemory(op domain.MemoryOperator, a float64, mem domain.Memory) (float64, domain.Memory, error) {
	switch op {
	case domain.MemClear:
		return a, domain.Memory{}, nil
	case domain.MemRecall:
		if mem.HasValue {
			return mem.Value, mem, nil
		}
		return a, mem, nil
	case domain.MemAdd:
		return a, domain.Memory{Value: mem.Value + a, HasValue: true}, checkMemory(mem.Value + a)
	case domain.MemSubtract:
		return a, domain.Memory{Value: mem.Value - a, HasValue: true}, checkMemory(mem.Value - a)
	case domain.MemStore:
		return a, domain.Memory{Value: a, HasValue: true}, checkMemory(a)
	}
	return a, mem, fmt.Errorf("%w: memory operator %q", domain.ErrInvalidEvent, op)
}

func checkMemory(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.ErrMemoryOverflow
	}
	return nil
}

func toRadians(a float64, mode domain.AngleMode) float64 {
	if mode == domain.AngleRadians {
		return a
	}
	return a * math.Pi / 180
}

func fromRadians(a float64, mode domain.AngleMode) float64 {
	if mode == domain.AngleRadians {
		return a
	}
	return a * 180 / math.Pi
}
