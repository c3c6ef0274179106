package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderParams is raw order input as submitted by a client. Validate turns it
// into a normalized copy or rejects it before anything touches the book.
type OrderParams struct {
	Side     Side
	Type     OrderType
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Expiry   time.Time
}

// Validate checks and normalizes the params against the book's scale.
// Market orders carry no resting price, so their price field is ignored.
func (p OrderParams) Validate(scale Scale) (OrderParams, error) {
	if p.Side != Buy && p.Side != Sell {
		return OrderParams{}, fmt.Errorf("side %q: %w", p.Side, ErrInvalidSide)
	}
	if p.Type != Limit && p.Type != Market {
		return OrderParams{}, fmt.Errorf("type %q: %w", p.Type, ErrInvalidOrderType)
	}

	qty, err := scale.Normalize(p.Quantity)
	if err != nil {
		if errors.Is(err, errNonPositive) {
			return OrderParams{}, fmt.Errorf("quantity %s: %w", p.Quantity, ErrInvalidQuantity)
		}
		return OrderParams{}, fmt.Errorf("quantity: %w", err)
	}
	p.Quantity = qty

	if p.Type == Limit {
		price, err := scale.Normalize(p.Price)
		if err != nil {
			if errors.Is(err, errNonPositive) {
				return OrderParams{}, fmt.Errorf("price %s: %w", p.Price, ErrInvalidPrice)
			}
			return OrderParams{}, fmt.Errorf("price: %w", err)
		}
		p.Price = price
	} else {
		p.Price = decimal.Zero
	}

	return p, nil
}
