package sim

import (
	"math/rand"

	"github.com/efreitasn/marketsim/internal/domain"
	"github.com/efreitasn/marketsim/internal/engine"
)

// RandomStrategy quotes both sides of the book around a blend of the last
// mid price and a private perceived value, replacing its previous quotes on
// every step. A swarm of these traders supplies the resting liquidity the
// rest of the market trades against.
type RandomStrategy struct {
	PerceivedValue int64   // cents; the trader's private value estimate
	MinOffsetFrac  float64 // narrowest half-spread as a fraction of the reference price
	MaxOffsetFrac  float64 // widest half-spread
	JitterFrac     float64 // reference price jitter, ± half this fraction
	MinVolume      int64
	MaxVolume      int64

	rng *rand.Rand
}

// NewRandomStrategy creates a random quoter with the original tuning: a
// 0.05%–0.50% half-spread, ±0.05% reference jitter, and 5–20 volume per
// quote. Each instance owns its seeded generator so runs reproduce.
func NewRandomStrategy(perceivedValue, seed int64) *RandomStrategy {
	return &RandomStrategy{
		PerceivedValue: perceivedValue,
		MinOffsetFrac:  0.0005,
		MaxOffsetFrac:  0.005,
		JitterFrac:     0.001,
		MinVolume:      5,
		MaxVolume:      20,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

// Decide withdraws the trader's previous quotes and places a new bid/ask
// pair around the jittered reference price.
func (s *RandomStrategy) Decide(t *Trader, book *engine.Book, clock *domain.Clock) {
	market, ok := book.LastMid()
	if !ok || market <= 0 {
		// No signal yet: quote around the private estimate alone.
		market = s.PerceivedValue
	}
	ref := int64(float64(market)*0.7 + float64(s.PerceivedValue)*0.3)
	if ref <= 0 {
		return
	}

	for _, id := range t.ActiveOrders() {
		book.Cancel(id)
	}
	t.ClearActiveOrders()

	offsetFrac := s.MinOffsetFrac + s.rng.Float64()*(s.MaxOffsetFrac-s.MinOffsetFrac)
	offset := int64(float64(ref) * offsetFrac)
	if offset < book.TickSize() {
		offset = book.TickSize()
	}

	jitter := (s.rng.Float64() - 0.5) * s.JitterFrac
	ref = int64(float64(ref) * (1.0 + jitter))

	bidPrice := ref - offset
	if bidPrice < book.TickSize() {
		bidPrice = book.TickSize()
	}
	if id, err := book.Submit(domain.SideBid, bidPrice, s.drawVolume(), t.ID); err == nil {
		t.TrackOrder(id)
	}

	askPrice := ref + offset
	if id, err := book.Submit(domain.SideAsk, askPrice, s.drawVolume(), t.ID); err == nil {
		t.TrackOrder(id)
	}
}

func (s *RandomStrategy) drawVolume() int64 {
	return s.MinVolume + s.rng.Int63n(s.MaxVolume-s.MinVolume+1)
}
