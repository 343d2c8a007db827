package abacus_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/pkg/domain"
)

// ExampleCalculator_PressAll shows the token interface used by text hosts.
func ExampleCalculator_PressAll() {
	calc := abacus.New()
	ctx := context.Background()

	state, err := calc.PressAll(ctx, calc.Start(), []string{"2", "^", "10", "="})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(state.Display)
	fmt.Println(state.Equation)
	// Output:
	// 1024
	// 2 ^ 10 = 1024
}

// ExampleCalculator_Reduce drives the engine with events directly.
func ExampleCalculator_Reduce() {
	calc := abacus.New(abacus.WithAngleMode(domain.AngleRadians))
	ctx := context.Background()

	state := calc.Start()
	for _, ev := range []domain.Event{domain.Digit("9"), domain.Digit("0"), domain.Unary(domain.OpSin)} {
		state = calc.Reduce(ctx, state, ev)
	}
	fmt.Println(state.Display)

	state = calc.Reduce(ctx, state, domain.Binary(domain.OpDivide))
	state = calc.Reduce(ctx, state, domain.Digit("0"))
	state = calc.Reduce(ctx, state, domain.Equals())
	fmt.Println(state.Display, state.Error.Message)
	// Output:
	// 0.8939966636
	// Error division by zero
}
