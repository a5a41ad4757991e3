// Package fixedpoint converts decimal amounts to and from the scaled integers
// the solver works with. Nothing outside this package multiplies or divides
// amounts by powers of ten.
package fixedpoint

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MaxPlaces is the largest precision whose scale factor fits in an int64.
const MaxPlaces = 18

var (
	// ErrInvalidPlaces is returned for a precision outside [0, MaxPlaces].
	ErrInvalidPlaces = errors.New("decimal places out of range")

	// ErrOutOfRange is returned when a scaled amount does not fit in an int64.
	ErrOutOfRange = errors.New("scaled amount out of int64 range")
)

var (
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)
)

// ValidatePlaces checks that places is a usable precision.
func ValidatePlaces(places int32) error {
	if places < 0 || places > MaxPlaces {
		return fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidPlaces, places, MaxPlaces)
	}
	return nil
}

// PlacesFromInt converts a precision read as an int, rejecting values that
// would not survive narrowing to int32.
func PlacesFromInt(n int) (int32, error) {
	if n < 0 || n > MaxPlaces {
		return 0, fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidPlaces, n, MaxPlaces)
	}
	return int32(n), nil
}

// Scale multiplies amount by 10^places and truncates toward zero.
// Digits beyond places are dropped silently; see IsExact.
func Scale(amount decimal.Decimal, places int32) (int64, error) {
	if err := ValidatePlaces(places); err != nil {
		return 0, err
	}

	scaled := amount.Shift(places).Truncate(0)
	if scaled.GreaterThan(maxInt64) || scaled.LessThan(minInt64) {
		return 0, fmt.Errorf("%w: %s at %d places", ErrOutOfRange, amount, places)
	}

	return scaled.IntPart(), nil
}

// ScaleAll scales every amount, preserving order.
func ScaleAll(amounts []decimal.Decimal, places int32) ([]int64, error) {
	scaled := make([]int64, len(amounts))
	for i, a := range amounts {
		v, err := Scale(a, places)
		if err != nil {
			return nil, fmt.Errorf("amount %d: %w", i, err)
		}
		scaled[i] = v
	}
	return scaled, nil
}

// Unscale divides v by 10^places.
func Unscale(v int64, places int32) decimal.Decimal {
	return decimal.New(v, -places)
}

// IsExact reports whether amount survives scaling at places without loss.
func IsExact(amount decimal.Decimal, places int32) bool {
	return amount.Equal(amount.Truncate(places))
}

// Sum adds scaled amounts, failing on int64 overflow.
func Sum(values []int64) (int64, error) {
	var total int64
	for _, v := range values {
		next := total + v
		if (v > 0 && next < total) || (v < 0 && next > total) {
			return 0, ErrOutOfRange
		}
		total = next
	}
	return total, nil
}
