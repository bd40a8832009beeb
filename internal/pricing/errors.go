package pricing

import "fmt"

// InvalidParameterError reports a pricing parameter outside its valid
// domain. Param carries the offending field name in lower case.
type InvalidParameterError struct {
	Param string
	Value float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid pricing parameter %s: %g", e.Param, e.Value)
}
