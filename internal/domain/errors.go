package domain

import "errors"

var (
	// Validation failures: rejected before the book is touched.
	ErrInvalidSide      = errors.New("invalid order side")
	ErrInvalidOrderType = errors.New("invalid order type")
	ErrInvalidPrice     = errors.New("price must be strictly positive")
	ErrInvalidQuantity  = errors.New("quantity must be strictly positive")
	ErrValueTooLarge    = errors.New("value exceeds maximum magnitude")

	// Structural failures inside the book.
	ErrDuplicateOrder = errors.New("order id already present")
	ErrPriceMismatch  = errors.New("order price differs from limit price")
	ErrSideMismatch   = errors.New("order side differs from limit side")
	ErrLimitExists    = errors.New("limit already exists at this price")
	ErrEmptyLimit     = errors.New("limit holds no orders")
	ErrEmptySide      = errors.New("side holds no limits")

	// Matching and lifecycle failures.
	ErrInsufficientLiquidity = errors.New("order quantity exceeds side volume")
	ErrOrderNotFound         = errors.New("order not found")
	ErrInvalidTransition     = errors.New("illegal order status transition")
	ErrInvalidFill           = errors.New("fill amount out of range")
)

// errNonPositive is reported by Scale.Normalize and mapped to
// ErrInvalidPrice or ErrInvalidQuantity by the caller, which knows which
// field it was normalizing.
var errNonPositive = errors.New("value must be strictly positive")
