package optimizer

import (
	"errors"
	"fmt"

	"github.com/tirasundara/settlement-optimizer/pkg/cpsolver"
)

var (
	// ErrInvalidInput is the parent of every input validation error.
	ErrInvalidInput = errors.New("invalid settlement input")

	// ErrEmptyBalances is returned when either side has no participants.
	ErrEmptyBalances = fmt.Errorf("%w: pay and get must both be non-empty", ErrInvalidInput)

	// ErrNegativeAmount is returned for an amount below zero.
	ErrNegativeAmount = fmt.Errorf("%w: amounts must be non-negative", ErrInvalidInput)

	// ErrInvalidDecimalPlaces is returned for a precision the scaling cannot use.
	ErrInvalidDecimalPlaces = fmt.Errorf("%w: decimal places", ErrInvalidInput)

	// ErrNotOptimal is returned whenever the solver does not report OPTIMAL.
	ErrNotOptimal = errors.New("settlement is not proven optimal")
)

// SolveError reports the solver status that prevented an optimal answer.
type SolveError struct {
	Status cpsolver.Status
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%s: solver status %s", ErrNotOptimal, e.Status)
}

func (e *SolveError) Unwrap() error {
	return ErrNotOptimal
}
