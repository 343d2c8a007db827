package domain

// BinaryOperator is a two-operand arithmetic operator.
type BinaryOperator string

const (
	OpAdd      BinaryOperator = "+"
	OpSubtract BinaryOperator = "-"
	OpMultiply BinaryOperator = "*"
	OpDivide   BinaryOperator = "/"
	OpPower    BinaryOperator = "^"
)

// Valid reports whether op is a known binary operator.
func (op BinaryOperator) Valid() bool {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpPower:
		return true
	}
	return false
}

// UnaryOperator is a function applied immediately to the display value.
type UnaryOperator string

const (
	OpSin        UnaryOperator = "sin"
	OpCos        UnaryOperator = "cos"
	OpTan        UnaryOperator = "tan"
	OpArcsin     UnaryOperator = "arcsin"
	OpArccos     UnaryOperator = "arccos"
	OpArctan     UnaryOperator = "arctan"
	OpSqrt       UnaryOperator = "sqrt"
	OpCbrt       UnaryOperator = "cbrt"
	OpSquare     UnaryOperator = "square"
	OpCube       UnaryOperator = "cube"
	OpReciprocal UnaryOperator = "reciprocal"
	OpAbsolute   UnaryOperator = "absolute"
	OpExp        UnaryOperator = "exp"
)

// Valid reports whether op is a known unary operator.
func (op UnaryOperator) Valid() bool {
	switch op {
	case OpSin, OpCos, OpTan, OpArcsin, OpArccos, OpArctan,
		OpSqrt, OpCbrt, OpSquare, OpCube, OpReciprocal, OpAbsolute, OpExp:
		return true
	}
	return false
}

// Second returns the alternate binding selected by second mode.
// Operators without an alternate return themselves.
func (op UnaryOperator) Second() UnaryOperator {
	switch op {
	case OpSin:
		return OpArcsin
	case OpCos:
		return OpArccos
	case OpTan:
		return OpArctan
	case OpSqrt:
		return OpCbrt
	case OpSquare:
		return OpCube
	}
	return op
}

// Constant is a named mathematical constant.
type Constant string

const (
	ConstPi    Constant = "pi"
	ConstEuler Constant = "e"
)

// Valid reports whether c is a known constant.
func (c Constant) Valid() bool {
	return c == ConstPi || c == ConstEuler
}

// MemoryOperator acts on the memory slot.
type MemoryOperator string

const (
	MemClear    MemoryOperator = "mc"
	MemRecall   MemoryOperator = "mr"
	MemAdd      MemoryOperator = "m+"
	MemSubtract MemoryOperator = "m-"
	MemStore    MemoryOperator = "ms"
)

// Valid reports whether op is a known memory operator.
func (op MemoryOperator) Valid() bool {
	switch op {
	case MemClear, MemRecall, MemAdd, MemSubtract, MemStore:
		return true
	}
	return false
}
