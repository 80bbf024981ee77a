package domain

import (
	"fmt"
	"strings"
)

// ValidationError represents a single field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// InvalidCustomerError is returned when the customer record is malformed or
// names an unknown risk profile. Never retried.
type InvalidCustomerError struct {
	Errors ValidationErrors
}

func (e *InvalidCustomerError) Error() string {
	return "invalid customer: " + e.Errors.Error()
}

// InvalidRangeError is returned by range-mode pre-validation when a parameter
// range has a non-positive step or end < start.
type InvalidRangeError struct {
	Param   string
	Message string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range for %s: %s", e.Param, e.Message)
}

// InvalidConfigError is returned for contradictory or unusable engine
// configuration (unknown strategy, malformed tiers).
type InvalidConfigError struct {
	Message string
}

func (e *InvalidConfigError) Error() string {
	return "invalid config: " + e.Message
}

// InvalidLoanParamsError is returned by the amortization table operation when
// loan amount, monthly payment or term are non-positive.
type InvalidLoanParamsError struct {
	Message string
}

func (e *InvalidLoanParamsError) Error() string {
	return "invalid loan parameters: " + e.Message
}
