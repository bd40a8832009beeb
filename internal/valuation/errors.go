package valuation

import "fmt"

// InvalidInputError reports inputs no model could degrade around, for
// example when every model in a combination produced a zero value.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid valuation input: " + e.Reason
}

// NumericalInstabilityError reports a discount rate at or below the terminal
// growth rate after clamping. The Gordon terminal value is undefined there,
// so the model degrades instead of dividing.
type NumericalInstabilityError struct {
	DiscountRate   float64
	TerminalGrowth float64
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("numerical instability: discount rate %.4f must exceed terminal growth %.4f",
		e.DiscountRate, e.TerminalGrowth)
}
