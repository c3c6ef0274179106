package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndmitrieva/lob-engine/internal/domain"
	"github.com/ndmitrieva/lob-engine/internal/port"
)

// DisplayDepth is the number of levels per side in the standard depth
// snapshot; only snapshots at this depth go through the cache.
const DisplayDepth = 10

// Book is the order book facade: it validates raw input, constructs orders,
// routes them to the matching engine and answers queries. It owns one bid
// side and one ask side plus a non-owning id index of live orders.
//
// The core is single-writer; the mutex is the coarse external lock that
// serializes callers, nothing inside the book suspends or retries.
type Book struct {
	mu     sync.Mutex
	symbol string
	scale  domain.Scale
	bids   *Side
	asks   *Side
	orders map[string]*domain.Order
	cache  port.Cache
}

type Option func(*Book)

func WithCache(c port.Cache) Option {
	return func(b *Book) { b.cache = c }
}

func NewBook(symbol string, scale domain.Scale, opts ...Option) *Book {
	b := &Book{
		symbol: symbol,
		scale:  scale,
		bids:   NewSide(domain.Buy, scale),
		asks:   NewSide(domain.Sell, scale),
		orders: make(map[string]*domain.Order),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Book) Symbol() string      { return b.symbol }
func (b *Book) Scale() domain.Scale { return b.scale }

// Place validates and rests a limit order on its own side. It never crosses
// the opposite side; callers wanting marketable-limit behavior route through
// Execute themselves.
func (b *Book) Place(ctx context.Context, p domain.OrderParams) (*PlaceResult, error) {
	p, err := p.Validate(b.scale)
	if err != nil {
		return nil, err
	}
	if p.Type != domain.Limit {
		return nil, fmt.Errorf("place %s order: %w", p.Type, domain.ErrInvalidOrderType)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	o := domain.NewOrder(uuid.New().String(), p.Side, p.Type, p.Price, p.Quantity, p.Expiry)
	res, err := Place(o, b.sideFor(p.Side))
	if err != nil {
		return nil, err
	}
	b.orders[o.ID()] = o
	b.invalidate(ctx)
	return res, nil
}

// Execute validates and runs a market order against the opposite side. It
// is all-or-nothing: on insufficient liquidity the book is untouched and
// the returned result carries Success=false alongside the error.
func (b *Book) Execute(ctx context.Context, p domain.OrderParams) (*ExecutionResult, error) {
	p, err := p.Validate(b.scale)
	if err != nil {
		return nil, err
	}
	if p.Type != domain.Market {
		return nil, fmt.Errorf("execute %s order: %w", p.Type, domain.ErrInvalidOrderType)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	o := domain.NewOrder(uuid.New().String(), p.Side, p.Type, p.Price, p.Quantity, p.Expiry)
	res, err := Execute(o, b.sideFor(p.Side.Opposite()))
	if err != nil {
		return &ExecutionResult{OrderID: o.ID(), Message: err.Error()}, err
	}
	for _, id := range res.FilledOrderIDs {
		delete(b.orders, id)
	}
	b.invalidate(ctx)
	return res, nil
}

// Cancel tombstones a live resting order. Ids of filled or canceled orders
// have already left the index, so canceling them reports order-not-found
// and leaves all aggregates untouched.
func (b *Book) Cancel(ctx context.Context, orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[orderID]
	if !ok {
		return fmt.Errorf("cancel %s: %w", orderID, domain.ErrOrderNotFound)
	}
	if err := b.sideFor(o.Side()).CancelOrder(o); err != nil {
		return err
	}
	delete(b.orders, orderID)
	b.invalidate(ctx)
	return nil
}

// GetOrder looks up a live resting order by id.
func (b *Book) GetOrder(orderID string) (*domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrOrderNotFound)
	}
	return o, nil
}

func (b *Book) BestBid() (decimal.Decimal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bestPrice(b.bids)
}

func (b *Book) BestAsk() (decimal.Decimal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bestPrice(b.asks)
}

// Spread is best ask minus best bid; it fails when either side is empty.
func (b *Book) Spread() (decimal.Decimal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bid, err := bestPrice(b.bids)
	if err != nil {
		return decimal.Zero, err
	}
	ask, err := bestPrice(b.asks)
	if err != nil {
		return decimal.Zero, err
	}
	return ask.Sub(bid), nil
}

// MidPrice is the midpoint between best bid and best ask.
func (b *Book) MidPrice() (decimal.Decimal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bid, err := bestPrice(b.bids)
	if err != nil {
		return decimal.Zero, err
	}
	ask, err := bestPrice(b.asks)
	if err != nil {
		return decimal.Zero, err
	}
	return bid.Add(ask).Div(decimal.NewFromInt(2)), nil
}

// Volume is the total resting quantity on one side.
func (b *Book) Volume(side domain.Side) decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sideFor(side).Volume()
}

// Size is the number of price levels on one side.
func (b *Book) Size(side domain.Side) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sideFor(side).Size()
}

// Depth builds a bounded best-first snapshot of both sides. Snapshots at
// DisplayDepth are served from and stored into the cache when one is
// configured.
func (b *Book) Depth(ctx context.Context, n int) *domain.DepthSnapshot {
	if n <= 0 {
		n = DisplayDepth
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cache != nil && n == DisplayDepth {
		if snap, err := b.cache.GetDepth(ctx, b.symbol); err == nil && snap != nil {
			return snap
		}
	}

	snap := &domain.DepthSnapshot{
		Bids:           b.bids.Levels(n),
		Asks:           b.asks.Levels(n),
		TotalBidLevels: b.bids.Size(),
		TotalAskLevels: b.asks.Size(),
		Timestamp:      time.Now(),
	}
	if b.cache != nil && n == DisplayDepth {
		_ = b.cache.SetDepth(ctx, b.symbol, snap)
	}
	return snap
}

// View renders the top-n ladder as text.
func (b *Book) View(ctx context.Context, n int) string {
	return b.Depth(ctx, n).Render()
}

func (b *Book) sideFor(side domain.Side) *Side {
	if side == domain.Buy {
		return b.bids
	}
	return b.asks
}

func (b *Book) invalidate(ctx context.Context) {
	if b.cache != nil {
		_ = b.cache.Invalidate(ctx, b.symbol)
	}
}

func bestPrice(s *Side) (decimal.Decimal, error) {
	lim, err := s.Best()
	if err != nil {
		return decimal.Zero, err
	}
	return lim.Price(), nil
}
