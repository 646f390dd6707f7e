package sim

import (
	"github.com/google/uuid"

	"github.com/efreitasn/marketsim/internal/domain"
	"github.com/efreitasn/marketsim/internal/engine"
)

// Trader couples a participant account with a trading strategy. The trader
// tracks its own resting-order IDs; the engine does not.
type Trader struct {
	*domain.Participant

	strategy Strategy
	active   []int64 // resting order IDs from previous decisions
}

// NewTrader creates a trader with a fresh participant identity and the
// given opening balances (funds in cents, position in shares).
func NewTrader(strategy Strategy, funds, position int64) *Trader {
	return &Trader{
		Participant: domain.NewParticipant(uuid.New().String(), funds, position),
		strategy:    strategy,
	}
}

// Step lets the trader's strategy act on the current market state.
func (t *Trader) Step(book *engine.Book, clock *domain.Clock) {
	t.strategy.Decide(t, book, clock)
}

// TrackOrder remembers a resting order the trader placed.
func (t *Trader) TrackOrder(id int64) {
	t.active = append(t.active, id)
}

// ActiveOrders returns the tracked resting-order IDs.
func (t *Trader) ActiveOrders() []int64 {
	return t.active
}

// ClearActiveOrders forgets all tracked order IDs.
func (t *Trader) ClearActiveOrders() {
	t.active = t.active[:0]
}
