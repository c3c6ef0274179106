package core

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndmitrieva/lob-engine/internal/domain"
)

// Limit holds every resting order at one price, in arrival order. It owns
// its orders and keeps two aggregates: volume (sum of remaining quantity of
// non-canceled orders) and the valid-order count.
//
// Cancellation is lazy: a canceled order stays in the queue as a tombstone,
// already excluded from both aggregates, and is physically reclaimed the
// next time its position reaches the head. That keeps cancel O(1) instead
// of compacting the queue.
type Limit struct {
	price  decimal.Decimal
	side   domain.Side
	queue  []*domain.Order
	byID   map[string]*domain.Order
	volume decimal.Decimal
	valid  int
}

func NewLimit(price decimal.Decimal, side domain.Side) *Limit {
	return &Limit{
		price: price,
		side:  side,
		byID:  make(map[string]*domain.Order),
	}
}

func (l *Limit) Price() decimal.Decimal  { return l.price }
func (l *Limit) Side() domain.Side       { return l.side }
func (l *Limit) Volume() decimal.Decimal { return l.volume }

// ValidOrders counts live orders; tombstones are excluded.
func (l *Limit) ValidOrders() int { return l.valid }

// Size is the physical queue length, tombstones included.
func (l *Limit) Size() int { return len(l.queue) }

// Empty reports whether no valid orders remain. Unpruned tombstones do not
// make a limit non-empty.
func (l *Limit) Empty() bool { return l.valid == 0 }

// AddOrder appends an order to the FIFO tail.
func (l *Limit) AddOrder(o *domain.Order) error {
	if !o.Quantity().IsPositive() {
		return fmt.Errorf("add %s: %w", o.ID(), domain.ErrInvalidQuantity)
	}
	if !o.Price().Equal(l.price) {
		return fmt.Errorf("add %s at %s to limit %s: %w", o.ID(), o.Price(), l.price, domain.ErrPriceMismatch)
	}
	if o.Side() != l.side {
		return fmt.Errorf("add %s (%s) to %s limit: %w", o.ID(), o.Side(), l.side, domain.ErrSideMismatch)
	}
	if _, ok := l.byID[o.ID()]; ok {
		return fmt.Errorf("add %s: %w", o.ID(), domain.ErrDuplicateOrder)
	}

	l.byID[o.ID()] = o
	l.queue = append(l.queue, o)
	l.volume = l.volume.Add(o.Quantity())
	l.valid++
	return nil
}

// NextOrder returns the FIFO head, reclaiming any leading tombstones first.
func (l *Limit) NextOrder() (*domain.Order, error) {
	l.PruneCanceled()
	if len(l.queue) == 0 {
		return nil, fmt.Errorf("limit %s: %w", l.price, domain.ErrEmptyLimit)
	}
	return l.queue[0], nil
}

// DeleteNextOrder fully consumes the head order: marks it FILLED, removes it
// from the queue and adjusts the aggregates. It returns the consumed
// quantity and the order so the caller can fill the taker and keep its own
// indexes consistent.
func (l *Limit) DeleteNextOrder() (decimal.Decimal, *domain.Order, error) {
	head, err := l.NextOrder()
	if err != nil {
		return decimal.Zero, nil, err
	}
	qty := head.Quantity()
	if err := head.Fill(qty); err != nil {
		return decimal.Zero, nil, err
	}
	l.popHead()
	l.volume = l.volume.Sub(qty)
	l.valid--
	return qty, head, nil
}

// PartialFillNext fills the head order in place by amount, which must be
// strictly less than the head's remaining quantity. The head keeps its
// queue position.
func (l *Limit) PartialFillNext(amount decimal.Decimal) error {
	head, err := l.NextOrder()
	if err != nil {
		return err
	}
	if !amount.IsPositive() || amount.GreaterThanOrEqual(head.Quantity()) {
		return fmt.Errorf("partial fill %s of head %s: %w", amount, head.Quantity(), domain.ErrInvalidFill)
	}
	if err := head.Fill(amount); err != nil {
		return err
	}
	l.volume = l.volume.Sub(amount)
	return nil
}

// CancelOrder tombstones an order belonging to this limit. The order drops
// out of volume and the valid count immediately but stays queued until its
// position reaches the head.
func (l *Limit) CancelOrder(o *domain.Order) error {
	if _, ok := l.byID[o.ID()]; !ok {
		return fmt.Errorf("cancel %s at %s: %w", o.ID(), l.price, domain.ErrOrderNotFound)
	}
	remaining := o.Quantity()
	if err := o.Cancel(); err != nil {
		return err
	}
	l.volume = l.volume.Sub(remaining)
	l.valid--
	return nil
}

// PruneCanceled reclaims tombstones sitting at the head of the queue.
func (l *Limit) PruneCanceled() {
	for len(l.queue) > 0 && l.queue[0].Status() == domain.Canceled {
		l.popHead()
	}
}

// consumeAll fills every valid order in the limit, emptying it. It returns
// the number of orders consumed, the volume traded and the consumed orders.
// Used by the whole-limit phase of matching, where the taker absorbs the
// level in one step.
func (l *Limit) consumeAll() (int, decimal.Decimal, []*domain.Order) {
	matched := 0
	traded := l.volume
	var consumed []*domain.Order

	for _, o := range l.queue {
		if o.Status() == domain.Canceled {
			continue
		}
		// fill of the full remaining quantity cannot fail on a live order
		_ = o.Fill(o.Quantity())
		matched++
		consumed = append(consumed, o)
	}

	l.queue = nil
	l.byID = make(map[string]*domain.Order)
	l.volume = decimal.Zero
	l.valid = 0
	return matched, traded, consumed
}

func (l *Limit) popHead() {
	head := l.queue[0]
	delete(l.byID, head.ID())
	l.queue[0] = nil
	l.queue = l.queue[1:]
}

func (l *Limit) String() string {
	return fmt.Sprintf("Limit(price=%s, size=%d, vol=%s)", l.price, l.valid, l.volume)
}
