// Package engine holds the objective assignment and progress rules: target
// distribution, the monthly progress ledger, status resolution and progress
// aggregation. Every function here is pure; persistence and locking belong to
// the callers in internal/services.
package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the class of caller-correctable errors. Never retried.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrInvalidTarget        = fmt.Errorf("%w: target must be a non-negative number", ErrInvalidInput)
	ErrInvalidMonthKey      = fmt.Errorf("%w: month must be a two-digit key between 01 and 12", ErrInvalidInput)
	ErrInvalidProgressValue = fmt.Errorf("%w: progress value must be a non-negative number", ErrInvalidInput)
	ErrInvalidDateRange     = fmt.Errorf("%w: end date must not be before start date", ErrInvalidInput)
	ErrMinimumAboveTarget   = fmt.Errorf("%w: minimum acceptable must not exceed company target", ErrInvalidInput)
	ErrCompletionBeforeDue  = fmt.Errorf("%w: completion date must not be before due date", ErrInvalidInput)
)
