package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// DefaultScale is the number of decimal digits prices and quantities
	// carry unless overridden by configuration.
	DefaultScale = 2

	// DefaultMaxMagnitude bounds the absolute value of any price or quantity.
	DefaultMaxMagnitude = 1_000_000_000
)

// Scale fixes the decimal precision of a book. It is chosen once at
// construction and never mutated afterwards; every price and quantity
// entering the book is normalized through it.
type Scale struct {
	digits int32
	max    decimal.Decimal
}

func NewScale(digits int32) Scale {
	return Scale{
		digits: digits,
		max:    decimal.NewFromInt(DefaultMaxMagnitude),
	}
}

func NewScaleWithMax(digits int32, max decimal.Decimal) Scale {
	return Scale{digits: digits, max: max}
}

func (s Scale) Digits() int32 { return s.digits }

// Normalize rounds v to the scale and validates it: the result must be
// strictly positive and within the maximum magnitude. Rounding is half-up,
// so a value that only becomes positive at this scale (e.g. 0.004 at scale
// 2) is rejected.
func (s Scale) Normalize(v decimal.Decimal) (decimal.Decimal, error) {
	q := v.Round(s.digits)
	if !q.IsPositive() {
		return decimal.Zero, errNonPositive
	}
	if q.GreaterThan(s.max) {
		return decimal.Zero, fmt.Errorf("%w: %s > %s", ErrValueTooLarge, q, s.max)
	}
	return q, nil
}

// Key maps a normalized price onto its exact scaled-integer representation,
// used to index price levels.
func (s Scale) Key(price decimal.Decimal) int64 {
	return price.Shift(s.digits).IntPart()
}

// Format renders a value with exactly the scale's digits, the canonical
// string form used in execution reports.
func (s Scale) Format(v decimal.Decimal) string {
	return v.StringFixed(s.digits)
}
