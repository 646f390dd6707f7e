package sim

import (
	"math"
	"math/rand"

	"github.com/efreitasn/marketsim/internal/domain"
	"github.com/efreitasn/marketsim/internal/engine"
)

// TrendStrategy trades momentum: when the last mid price sits above the
// average of the recent window it lifts the best ask, below it it hits the
// best bid. Order size is a random draw bounded by what the trader can
// afford (buying) or holds (selling), pushed up or down by how steep the
// trend is.
type TrendStrategy struct {
	Window int // mid-price samples in the moving average

	rng *rand.Rand
}

// NewTrendStrategy creates a trend follower over the given window.
func NewTrendStrategy(window, seed int64) *TrendStrategy {
	if window <= 0 {
		window = 5
	}
	return &TrendStrategy{
		Window: int(window),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Decide submits at most one aggressor order against the trending side.
func (s *TrendStrategy) Decide(t *Trader, book *engine.Book, clock *domain.Clock) {
	hist := book.MidHistory(s.Window)
	if len(hist) == 0 {
		return
	}

	var sum int64
	for _, v := range hist {
		sum += v
	}
	avg := sum / int64(len(hist))
	if avg <= 0 {
		return
	}

	current := hist[len(hist)-1]
	diff := current - avg

	switch {
	case diff > 0:
		best, ok := book.BestAsk()
		if !ok {
			return
		}
		funds, _ := t.Balances()
		canBuy := min(funds/best.Price, best.Volume)
		if canBuy <= 0 {
			return
		}
		volume := s.drawVolume(canBuy, s.bias(diff, avg))
		_, _ = book.Submit(domain.SideBid, best.Price, volume, t.ID)

	case diff < 0:
		best, ok := book.BestBid()
		if !ok {
			return
		}
		_, position := t.Balances()
		canSell := min(position, best.Volume)
		if canSell <= 0 {
			return
		}
		volume := s.drawVolume(canSell, s.bias(-diff, avg))
		_, _ = book.Submit(domain.SideAsk, best.Price, volume, t.ID)
	}
}

// bias scales the trend's steepness into a [-10, 10] nudge on order size.
func (s *TrendStrategy) bias(diff, avg int64) int64 {
	b := int64(math.Round(float64(diff) / float64(avg) * 500))
	return clamp(b, -10, 10)
}

// drawVolume picks a random size in [0, limit], applies the bias in
// twentieths of the limit, and clamps into [1, limit].
func (s *TrendStrategy) drawVolume(limit, bias int64) int64 {
	v := s.rng.Int63n(limit+1) + bias*(limit/20)
	return clamp(v, 1, limit)
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
