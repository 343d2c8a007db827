package keymap

import "github.com/aretw0/abacus/pkg/domain"

func keys(descriptors ...string) []Key {
	out := make([]Key, 0, len(descriptors))
	for _, d := range descriptors {
		k, err := ParseKey(d)
		if err != nil {
			panic(err)
		}
		out = append(out, k)
	}
	return out
}

// defaultTable is the full scientific layout, row by row as the buttons appear.
func defaultTable() []Binding {
	table := []Binding{
		{Token: "2nd", Label: "2nd", Aliases: []string{"second", "shift"}, Event: domain.ToggleSecond(), Scientific: true},
		{Token: "sin", Label: "sin", Keys: keys("s"), Event: domain.Unary(domain.OpSin), Scientific: true},
		{Token: "cos", Label: "cos", Keys: keys("c"), Event: domain.Unary(domain.OpCos), Scientific: true},
		{Token: "tan", Label: "tan", Keys: keys("t"), Event: domain.Unary(domain.OpTan), Scientific: true},
		{Token: "arcsin", Label: "sin⁻¹", Aliases: []string{"asin", "sin⁻¹"}, Event: domain.Unary(domain.OpArcsin), Scientific: true},
		{Token: "arccos", Label: "cos⁻¹", Aliases: []string{"acos", "cos⁻¹"}, Event: domain.Unary(domain.OpArccos), Scientific: true},
		{Token: "arctan", Label: "tan⁻¹", Aliases: []string{"atan", "tan⁻¹"}, Event: domain.Unary(domain.OpArctan), Scientific: true},
		{Token: "sqrt", Label: "√", Aliases: []string{"√"}, Keys: keys("r", "q"), Event: domain.Unary(domain.OpSqrt), Scientific: true},
		{Token: "cbrt", Label: "∛", Aliases: []string{"∛"}, Event: domain.Unary(domain.OpCbrt), Scientific: true},
		{Token: "square", Label: "x²", Aliases: []string{"x²", "x^2", "sq"}, Keys: keys("Shift+6"), Event: domain.Unary(domain.OpSquare), Scientific: true},
		{Token: "cube", Label: "x³", Aliases: []string{"x³", "x^3"}, Event: domain.Unary(domain.OpCube), Scientific: true},
		{Token: "reciprocal", Label: "1/x", Aliases: []string{"1/x", "inv"}, Event: domain.Unary(domain.OpReciprocal), Scientific: true},
		{Token: "absolute", Label: "|x|", Aliases: []string{"|x|", "abs"}, Keys: keys("Shift+|"), Event: domain.Unary(domain.OpAbsolute), Scientific: true},
		{Token: "exp", Label: "eˣ", Aliases: []string{"eˣ", "e^x"}, Event: domain.Unary(domain.OpExp), Scientific: true},
		{Token: "^", Label: "xʸ", Aliases: []string{"pow", "x^y", "xʸ"}, Keys: keys("Shift+^"), Event: domain.Binary(domain.OpPower), Scientific: true},
		{Token: "pi", Label: "π", Aliases: []string{"π"}, Keys: keys("p"), Event: domain.ConstantEvent(domain.ConstPi), Scientific: true},
		{Token: "e", Label: "e", Keys: keys("e"), Event: domain.ConstantEvent(domain.ConstEuler), Scientific: true},

		{Token: "mc", Label: "MC", Keys: keys("Ctrl+M"), Event: domain.MemoryEvent(domain.MemClear), Scientific: true},
		{Token: "mr", Label: "MR", Event: domain.MemoryEvent(domain.MemRecall), Scientific: true},
		{Token: "m+", Label: "M+", Keys: keys("Ctrl+Shift+M"), Event: domain.MemoryEvent(domain.MemAdd), Scientific: true},
		{Token: "m-", Label: "M-", Event: domain.MemoryEvent(domain.MemSubtract), Scientific: true},
		{Token: "ms", Label: "MS", Event: domain.MemoryEvent(domain.MemStore), Scientific: true},

		{Token: "C", Label: "C", Aliases: []string{"c", "AC", "ac", "clear"}, Keys: keys("Escape"), Event: domain.Clear()},
		{Token: "DEL", Label: "DEL", Aliases: []string{"del", "backspace", "⌫"}, Keys: keys("Backspace"), Event: domain.Backspace()},
		{Token: "/", Label: "÷", Aliases: []string{"÷"}, Keys: keys("/"), Event: domain.Binary(domain.OpDivide)},
		{Token: "*", Label: "×", Aliases: []string{"×", "x"}, Keys: keys("*"), Event: domain.Binary(domain.OpMultiply)},
		{Token: "-", Label: "−", Aliases: []string{"−"}, Keys: keys("-"), Event: domain.Binary(domain.OpSubtract)},
		{Token: "+", Label: "+", Keys: keys("+"), Event: domain.Binary(domain.OpAdd)},
		{Token: "=", Label: "=", Aliases: []string{"equals"}, Keys: keys("=", "Enter"), Event: domain.Equals()},
		{Token: ".", Label: ".", Keys: keys("."), Event: domain.DecimalPoint()},
	}
	for d := '0'; d <= '9'; d++ {
		s := string(d)
		table = append(table, Binding{Token: s, Label: s, Keys: keys(s), Event: domain.Digit(s)})
	}
	return table
}
