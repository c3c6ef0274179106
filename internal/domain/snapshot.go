package domain

import (
	"fmt"
	"strings"
	"time"
)

// LevelView is one price level as exposed to readers: canonical fixed-scale
// strings, never the internal decimals.
type LevelView struct {
	Price  string `json:"price"`
	Volume string `json:"volume"`
	Orders int    `json:"orders"`
}

// DepthSnapshot is a bounded top-of-book view. Bids and Asks are ordered
// best-first. TotalBidLevels/TotalAskLevels carry the full side sizes so a
// renderer can show how much was truncated.
type DepthSnapshot struct {
	Bids           []LevelView `json:"bids"`
	Asks           []LevelView `json:"asks"`
	TotalBidLevels int         `json:"total_bid_levels"`
	TotalAskLevels int         `json:"total_ask_levels"`
	Timestamp      time.Time   `json:"timestamp"`
}

func (s *DepthSnapshot) DeepCopy() *DepthSnapshot {
	cp := *s
	cp.Bids = append([]LevelView(nil), s.Bids...)
	cp.Asks = append([]LevelView(nil), s.Asks...)
	return &cp
}

// Render writes the classic ladder: asks on top listed best-last so the
// spread sits in the middle, bids below listed best-first.
func (s *DepthSnapshot) Render() string {
	var b strings.Builder

	if n := s.TotalAskLevels - len(s.Asks); n > 0 {
		fmt.Fprintf(&b, "   ...(%d more asks)\n", n)
	}
	for i := len(s.Asks) - 1; i >= 0; i-- {
		writeLevel(&b, s.Asks[i])
	}
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for _, lv := range s.Bids {
		writeLevel(&b, lv)
	}
	if n := s.TotalBidLevels - len(s.Bids); n > 0 {
		fmt.Fprintf(&b, "   ...(%d more bids)\n", n)
	}

	return b.String()
}

func writeLevel(b *strings.Builder, lv LevelView) {
	fmt.Fprintf(b, " - %s | vol=%s | orders=%d\n", lv.Price, lv.Volume, lv.Orders)
}
