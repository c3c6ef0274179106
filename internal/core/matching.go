package core

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndmitrieva/lob-engine/internal/domain"
)

// PlaceResult reports a resting limit-order placement.
type PlaceResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id"`
}

// ExecutionResult reports a market-order execution. ExecutionPrices maps
// each traded price (canonical fixed-scale string) to the quantity traded
// at that price. FilledOrderIDs lists the resting orders that reached
// FILLED, so the owner of an id index can retire them.
type ExecutionResult struct {
	Success         bool                       `json:"success"`
	OrderID         string                     `json:"order_id"`
	OrdersMatched   int                        `json:"orders_matched"`
	LimitsMatched   int                        `json:"limits_matched"`
	ExecutionPrices map[string]decimal.Decimal `json:"execution_prices"`
	FilledOrderIDs  []string                   `json:"-"`
	Message         string                     `json:"message,omitempty"`
}

// AveragePrice is the volume-weighted average fill price.
func (r *ExecutionResult) AveragePrice() decimal.Decimal {
	notional := decimal.Zero
	qty := decimal.Zero
	for price, q := range r.ExecutionPrices {
		p, err := decimal.NewFromString(price)
		if err != nil {
			continue
		}
		notional = notional.Add(p.Mul(q))
		qty = qty.Add(q)
	}
	if qty.IsZero() {
		return decimal.Zero
	}
	return notional.DivRound(qty, int32(decimal.DivisionPrecision))
}

func (r *ExecutionResult) record(price, qty decimal.Decimal, scale domain.Scale) {
	key := scale.Format(price)
	r.ExecutionPrices[key] = r.ExecutionPrices[key].Add(qty)
}

// Place rests a limit order on its side, creating the price level when
// absent. It never matches against the opposite side: routing a marketable
// limit order through Execute first is the caller's policy, not this
// function's.
func Place(o *domain.Order, s *Side) (*PlaceResult, error) {
	if err := s.PlaceOrder(o); err != nil {
		return nil, err
	}
	return &PlaceResult{Success: true, OrderID: o.ID()}, nil
}

// Execute matches a market order against a side, consuming resting
// liquidity best price first, FIFO within a price. It is all-or-nothing:
// when the order exceeds the side's total volume it fails before any
// mutation.
//
// The walk has three phases. Whole limits are absorbed while the remaining
// quantity covers the best level; then whole orders from the head of the
// final level; a last sub-order remainder partially fills the level's head
// in place. Exact exhaustion at a phase boundary ends the walk immediately
// so no zero-quantity fill is ever recorded.
func Execute(o *domain.Order, s *Side) (*ExecutionResult, error) {
	if o.Quantity().GreaterThan(s.Volume()) {
		return nil, fmt.Errorf("order %s qty %s vs side volume %s: %w",
			o.ID(), o.Quantity(), s.Volume(), domain.ErrInsufficientLiquidity)
	}

	res := &ExecutionResult{
		Success:         true,
		OrderID:         o.ID(),
		ExecutionPrices: make(map[string]decimal.Decimal),
	}

	// whole-limit phase
	var lim *Limit
	for {
		var err error
		lim, err = s.Best()
		if err != nil {
			return nil, err
		}
		if o.Quantity().LessThan(lim.Volume()) {
			break
		}

		matched, traded, consumed := lim.consumeAll()
		if err := o.Fill(traded); err != nil {
			return nil, err
		}
		res.LimitsMatched++
		res.OrdersMatched += matched
		res.record(lim.Price(), traded, s.scale)
		for _, c := range consumed {
			res.FilledOrderIDs = append(res.FilledOrderIDs, c.ID())
		}
		s.removeLimit(lim.Price())
		s.reduceVolume(traded)

		if o.Quantity().IsZero() {
			return res, nil
		}
	}

	// whole-order phase: the remaining quantity is now strictly below the
	// level's volume, so the level cannot empty here.
	for {
		head, err := lim.NextOrder()
		if err != nil {
			return nil, err
		}
		if o.Quantity().LessThan(head.Quantity()) {
			break
		}

		qty, filled, err := lim.DeleteNextOrder()
		if err != nil {
			return nil, err
		}
		if err := o.Fill(qty); err != nil {
			return nil, err
		}
		res.OrdersMatched++
		res.record(lim.Price(), qty, s.scale)
		res.FilledOrderIDs = append(res.FilledOrderIDs, filled.ID())
		s.reduceVolume(qty)

		if o.Quantity().IsZero() {
			return res, nil
		}
	}

	// partial phase: the remainder is strictly below the head's quantity.
	remainder := o.Quantity()
	if err := lim.PartialFillNext(remainder); err != nil {
		return nil, err
	}
	s.reduceVolume(remainder)
	if err := o.Fill(remainder); err != nil {
		return nil, err
	}
	res.record(lim.Price(), remainder, s.scale)

	return res, nil
}
