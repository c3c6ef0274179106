package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Side string
type OrderType string
type OrderStatus string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"

	Limit  OrderType = "LIMIT"
	Market OrderType = "MARKET"

	Pending         OrderStatus = "PENDING"
	PartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	Filled          OrderStatus = "FILLED"
	Canceled        OrderStatus = "CANCELED"
)

// Opposite returns the side a taker on s consumes liquidity from.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Order is a single order. Its remaining quantity and status change only
// through Fill and Cancel; aggregate bookkeeping belongs to the limit that
// owns the order, never to the order itself.
type Order struct {
	id        string
	side      Side
	typ       OrderType
	price     decimal.Decimal
	quantity  decimal.Decimal
	status    OrderStatus
	expiry    time.Time
	createdAt time.Time
}

func NewOrder(id string, side Side, typ OrderType, price, quantity decimal.Decimal, expiry time.Time) *Order {
	return &Order{
		id:        id,
		side:      side,
		typ:       typ,
		price:     price,
		quantity:  quantity,
		status:    Pending,
		expiry:    expiry,
		createdAt: time.Now(),
	}
}

func (o *Order) ID() string             { return o.id }
func (o *Order) Side() Side             { return o.side }
func (o *Order) Type() OrderType        { return o.typ }
func (o *Order) Price() decimal.Decimal { return o.price }
func (o *Order) Status() OrderStatus    { return o.status }
func (o *Order) CreatedAt() time.Time   { return o.createdAt }

// Quantity is the remaining (unfilled) quantity.
func (o *Order) Quantity() decimal.Decimal { return o.quantity }

// Expiry is stored but never enforced; a zero time means no expiry.
func (o *Order) Expiry() time.Time { return o.expiry }

func (o *Order) Terminal() bool {
	return o.status == Filled || o.status == Canceled
}

// Fill reduces the remaining quantity by amount. The amount must be in
// (0, remaining]; reaching zero makes the order FILLED, anything less makes
// it PARTIALLY_FILLED.
func (o *Order) Fill(amount decimal.Decimal) error {
	if o.Terminal() {
		return fmt.Errorf("fill %s: %w", o.id, ErrInvalidTransition)
	}
	if !amount.IsPositive() || amount.GreaterThan(o.quantity) {
		return fmt.Errorf("fill %s by %s of %s: %w", o.id, amount, o.quantity, ErrInvalidFill)
	}
	o.quantity = o.quantity.Sub(amount)
	if o.quantity.IsZero() {
		o.status = Filled
	} else {
		o.status = PartiallyFilled
	}
	return nil
}

// Cancel moves the order to CANCELED. Terminal orders stay terminal: a
// filled or already-canceled order is never resurrected.
func (o *Order) Cancel() error {
	if o.Terminal() {
		return fmt.Errorf("cancel %s (%s): %w", o.id, o.status, ErrInvalidTransition)
	}
	o.status = Canceled
	return nil
}

func (o *Order) String() string {
	return fmt.Sprintf("Order(id=%s, side=%s, price=%s, qty=%s, status=%s)",
		o.id, o.side, o.price, o.quantity, o.status)
}
