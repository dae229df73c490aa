package validator

import "errors"

var (
	// ErrValidationFailed is wrapped by every ValidationErrors value.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidRuleSpec is returned when a rule string can not be parsed.
	ErrInvalidRuleSpec = errors.New("validator: invalid rule spec")
)
