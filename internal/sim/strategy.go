package sim

import (
	"github.com/efreitasn/marketsim/internal/domain"
	"github.com/efreitasn/marketsim/internal/engine"
)

// Strategy decides what a trader does on one simulation step: observe the
// book, then submit or cancel orders on the trader's behalf. The engine
// knows nothing about strategies; they stay outside its core state.
//
// Decide runs inside the driver's serialized step, so implementations may
// call the book freely but must not retain references into it across steps.
type Strategy interface {
	Decide(t *Trader, book *engine.Book, clock *domain.Clock)
}
