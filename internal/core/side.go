package core

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndmitrieva/lob-engine/internal/domain"
)

// Side is one half of the book: all limits for bids or asks, indexed by
// price. There is a single Side type; the tag chosen at construction decides
// which end of the index is best (highest price for bids, lowest for asks)
// and the direction of depth listings. The running volume always equals the
// sum of the contained limits' volumes.
type Side struct {
	tag    domain.Side
	scale  domain.Scale
	tree   *rbTree
	volume decimal.Decimal
}

func NewSide(tag domain.Side, scale domain.Scale) *Side {
	return &Side{
		tag:   tag,
		scale: scale,
		tree:  newRBTree(),
	}
}

func (s *Side) Tag() domain.Side        { return s.tag }
func (s *Side) Volume() decimal.Decimal { return s.volume }

// Size is the number of price levels on the side.
func (s *Side) Size() int { return s.tree.Size() }

func (s *Side) Empty() bool { return s.tree.Size() == 0 }

func (s *Side) PriceExists(price decimal.Decimal) bool {
	return s.tree.Find(s.scale.Key(price)) != nil
}

// AddLimit creates an empty limit at price.
func (s *Side) AddLimit(price decimal.Decimal) (*Limit, error) {
	lim := NewLimit(price, s.tag)
	if !s.tree.Insert(s.scale.Key(price), lim) {
		return nil, fmt.Errorf("limit at %s: %w", price, domain.ErrLimitExists)
	}
	return lim, nil
}

// Best returns the limit at the side's best price: the maximum for bids,
// the minimum for asks.
func (s *Side) Best() (*Limit, error) {
	var lim *Limit
	if s.tag == domain.Buy {
		lim = s.tree.Max()
	} else {
		lim = s.tree.Min()
	}
	if lim == nil {
		return nil, fmt.Errorf("%s side: %w", s.tag, domain.ErrEmptySide)
	}
	return lim, nil
}

// PlaceOrder rests an order at its price level, creating the level when
// absent.
func (s *Side) PlaceOrder(o *domain.Order) error {
	lim := s.tree.Find(s.scale.Key(o.Price()))
	if lim == nil {
		var err error
		lim, err = s.AddLimit(o.Price())
		if err != nil {
			return err
		}
	}
	if err := lim.AddOrder(o); err != nil {
		// a freshly created limit must not stay indexed empty
		if lim.Empty() && lim.Size() == 0 {
			s.tree.Delete(s.scale.Key(o.Price()))
		}
		return err
	}
	s.volume = s.volume.Add(o.Quantity())
	return nil
}

// CancelOrder tombstones an order resting on this side and drops its level
// from the index once the level holds no valid orders.
func (s *Side) CancelOrder(o *domain.Order) error {
	lim := s.tree.Find(s.scale.Key(o.Price()))
	if lim == nil {
		return fmt.Errorf("cancel %s at %s: %w", o.ID(), o.Price(), domain.ErrOrderNotFound)
	}
	remaining := o.Quantity()
	if err := lim.CancelOrder(o); err != nil {
		return err
	}
	s.volume = s.volume.Sub(remaining)
	if lim.Empty() {
		s.tree.Delete(s.scale.Key(o.Price()))
	}
	return nil
}

// Levels lists up to n price levels best-first.
func (s *Side) Levels(n int) []domain.LevelView {
	views := make([]domain.LevelView, 0, n)
	s.forEachBestFirst(func(lim *Limit) bool {
		if len(views) >= n {
			return false
		}
		views = append(views, domain.LevelView{
			Price:  s.scale.Format(lim.Price()),
			Volume: s.scale.Format(lim.Volume()),
			Orders: lim.ValidOrders(),
		})
		return true
	})
	return views
}

func (s *Side) forEachBestFirst(fn func(*Limit) bool) {
	if s.tag == domain.Buy {
		s.tree.ForEachDescending(fn)
	} else {
		s.tree.ForEachAscending(fn)
	}
}

func (s *Side) removeLimit(price decimal.Decimal) {
	s.tree.Delete(s.scale.Key(price))
}

func (s *Side) reduceVolume(amount decimal.Decimal) {
	s.volume = s.volume.Sub(amount)
}

func (s *Side) String() string {
	return fmt.Sprintf("Side(%s, size=%d, volume=%s)", s.tag, s.Size(), s.volume)
}
