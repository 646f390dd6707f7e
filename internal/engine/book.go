package engine

import (
	"container/list"
	"fmt"

	"github.com/google/btree"

	"github.com/efreitasn/marketsim/internal/domain"
	"github.com/efreitasn/marketsim/internal/store"
)

// Clock supplies logical timestamps for accepted orders and trades.
type Clock interface {
	Now() int64
}

// priceLevel holds the FIFO queue of resting orders at one quantized price,
// with a cached aggregate of their remaining volumes. A level exists iff
// its queue is non-empty.
type priceLevel struct {
	price  int64
	orders *list.List // of *domain.Order, oldest first
	volume int64
}

// bidLevelLess orders the bid tree best-first: highest price is Min().
func bidLevelLess(a, b *priceLevel) bool { return a.price > b.price }

// askLevelLess orders the ask tree best-first: lowest price is Min().
func askLevelLess(a, b *priceLevel) bool { return a.price < b.price }

// restingRef locates a resting order inside its price level. The index map
// is the only holder of these references; removal always goes through it,
// so a queue element can never be reached after its order leaves the book.
type restingRef struct {
	level *priceLevel
	elem  *list.Element
}

// PriceLevelView is a read-only aggregate of one price level.
type PriceLevelView struct {
	Price  int64
	Volume int64
	Orders int
}

// BookConfig controls book parameters.
type BookConfig struct {
	TickSize int64 // cents; minimum price increment
}

// Book is the single-instrument matching engine: two btrees of price levels
// (bids descending, asks ascending), FIFO queues within each level, and an
// order-ID index for O(1) cancellation.
//
// The book is a strictly sequential state machine. It holds no locks;
// exactly one caller at a time may invoke Submit, Cancel, Tick, or any
// accessor. External serialization is the sim.Driver's job.
type Book struct {
	cfg    BookConfig
	clock  Clock
	settle Settlement

	bids  *btree.BTreeG[*priceLevel]
	asks  *btree.BTreeG[*priceLevel]
	index map[int64]restingRef // order ID → queue location

	nextOrderID int64
	nextTradeID int64

	lastTradePrice int64

	trades *store.TradeLedger
	mids   *store.MidPriceLog
}

// NewBook creates an empty book. settle may be nil, in which case trades
// record without settlement notifications.
func NewBook(cfg BookConfig, clock Clock, settle Settlement, trades *store.TradeLedger, mids *store.MidPriceLog) *Book {
	const degree = 32
	if cfg.TickSize <= 0 {
		cfg.TickSize = 1
	}
	return &Book{
		cfg:    cfg,
		clock:  clock,
		settle: settle,
		bids:   btree.NewG[*priceLevel](degree, bidLevelLess),
		asks:   btree.NewG[*priceLevel](degree, askLevelLess),
		index:  make(map[int64]restingRef),
		trades: trades,
		mids:   mids,
	}
}

// TickSize returns the configured minimum price increment in cents.
func (b *Book) TickSize() int64 {
	return b.cfg.TickSize
}

// Submit accepts a limit order: the price is quantized to the tick size,
// the order receives a strictly increasing ID and a clock stamp, marketable
// volume is matched against the opposite side, and any remainder rests at
// the back of its price level's queue.
//
// Non-positive price or volume and unknown sides are rejected with a
// domain.ValidationError before any state changes.
func (b *Book) Submit(side domain.Side, price, volume int64, participantID string) (int64, error) {
	if !side.Valid() {
		return 0, &domain.ValidationError{Message: fmt.Sprintf("unknown side %q", side)}
	}
	if volume <= 0 {
		return 0, &domain.ValidationError{Message: "volume must be positive"}
	}
	if price <= 0 {
		return 0, &domain.ValidationError{Message: "price must be positive"}
	}

	b.nextOrderID++
	order := &domain.Order{
		ID:            b.nextOrderID,
		ParticipantID: participantID,
		Side:          side,
		Price:         domain.QuantizeToTick(price, b.cfg.TickSize),
		Volume:        volume,
		Remaining:     volume,
		CreatedAt:     b.clock.Now(),
	}

	b.match(order)
	if order.Remaining > 0 {
		b.rest(order)
	}
	return order.ID, nil
}

// match crosses the incoming order against the opposite side while it has
// remaining volume and the best opposite price is still marketable against
// its limit. Trades execute at the resting order's price.
func (b *Book) match(incoming *domain.Order) {
	opposite := b.asks
	marketable := func(best int64) bool { return best <= incoming.Price }
	if incoming.Side == domain.SideAsk {
		opposite = b.bids
		marketable = func(best int64) bool { return best >= incoming.Price }
	}

	for incoming.Remaining > 0 {
		best, ok := opposite.Min()
		if !ok || !marketable(best.price) {
			break
		}

		for incoming.Remaining > 0 && best.orders.Len() > 0 {
			front := best.orders.Front()
			resting := front.Value.(*domain.Order)

			vol := min(incoming.Remaining, resting.Remaining)
			b.recordTrade(incoming, resting, vol, best.price)

			incoming.Remaining -= vol
			resting.Remaining -= vol
			best.volume -= vol

			if resting.Remaining == 0 {
				delete(b.index, resting.ID)
				best.orders.Remove(front)
			}
		}

		// An emptied level leaves the map before the next level is
		// considered.
		if best.orders.Len() == 0 {
			opposite.Delete(best)
		}
	}
}

// rest inserts the order at the back of its price level's queue, creating
// the level if absent, and indexes it for cancellation.
func (b *Book) rest(order *domain.Order) {
	tree := b.bids
	if order.Side == domain.SideAsk {
		tree = b.asks
	}

	level, ok := tree.Get(&priceLevel{price: order.Price})
	if !ok {
		level = &priceLevel{price: order.Price, orders: list.New()}
		tree.ReplaceOrInsert(level)
	}

	elem := level.orders.PushBack(order)
	level.volume += order.Remaining
	b.index[order.ID] = restingRef{level: level, elem: elem}
}

// Cancel withdraws a resting order. It reports false for unknown or
// already-removed IDs with no side effect; cancelling twice is benign.
func (b *Book) Cancel(orderID int64) bool {
	ref, ok := b.index[orderID]
	if !ok {
		return false
	}

	order := ref.elem.Value.(*domain.Order)
	ref.level.orders.Remove(ref.elem)
	ref.level.volume -= order.Remaining
	delete(b.index, orderID)

	if ref.level.orders.Len() == 0 {
		tree := b.bids
		if order.Side == domain.SideAsk {
			tree = b.asks
		}
		tree.Delete(ref.level)
	}
	return true
}

// recordTrade appends a trade at the resting order's price and notifies
// both counterparties synchronously, before matching continues. The buyer
// is whichever side of the pair bids.
func (b *Book) recordTrade(incoming, resting *domain.Order, volume, price int64) {
	buyer, seller := incoming.ParticipantID, resting.ParticipantID
	if incoming.Side == domain.SideAsk {
		buyer, seller = resting.ParticipantID, incoming.ParticipantID
	}

	b.nextTradeID++
	t := &domain.Trade{
		ID:        b.nextTradeID,
		Price:     price,
		Volume:    volume,
		BuyerID:   buyer,
		SellerID:  seller,
		Timestamp: b.clock.Now(),
	}
	b.trades.Append(t)
	b.lastTradePrice = price
	b.notifySettlement(t)
}

// Tick appends one mid-price sample. It does not otherwise mutate book
// state.
func (b *Book) Tick() {
	b.mids.Append(b.midPrice())
}

// midPrice is the midpoint of best bid and ask, the single available
// side's best price when the book is one-sided, or the last known sample
// (falling back to the last trade price) when both sides are empty.
func (b *Book) midPrice() int64 {
	bestBid, hasBid := b.bids.Min()
	bestAsk, hasAsk := b.asks.Min()

	switch {
	case hasBid && hasAsk:
		return (bestBid.price + bestAsk.price) / 2
	case hasBid:
		return bestBid.price
	case hasAsk:
		return bestAsk.price
	}
	if last, ok := b.mids.Last(); ok {
		return last
	}
	return b.lastTradePrice
}

// BestBid returns the highest bid level's aggregate, or false if the bid
// side is empty.
func (b *Book) BestBid() (PriceLevelView, bool) {
	return bestOf(b.bids)
}

// BestAsk returns the lowest ask level's aggregate, or false if the ask
// side is empty.
func (b *Book) BestAsk() (PriceLevelView, bool) {
	return bestOf(b.asks)
}

func bestOf(tree *btree.BTreeG[*priceLevel]) (PriceLevelView, bool) {
	level, ok := tree.Min()
	if !ok {
		return PriceLevelView{}, false
	}
	return PriceLevelView{Price: level.price, Volume: level.volume, Orders: level.orders.Len()}, true
}

// Levels returns up to max aggregated price levels for one side, best
// first. max <= 0 returns every level.
func (b *Book) Levels(side domain.Side, max int) []PriceLevelView {
	tree := b.bids
	if side == domain.SideAsk {
		tree = b.asks
	}

	n := tree.Len()
	if max > 0 && max < n {
		n = max
	}
	levels := make([]PriceLevelView, 0, n)
	tree.Ascend(func(level *priceLevel) bool {
		if len(levels) >= n {
			return false
		}
		levels = append(levels, PriceLevelView{Price: level.price, Volume: level.volume, Orders: level.orders.Len()})
		return true
	})
	return levels
}

// LevelCount returns the number of price levels on one side.
func (b *Book) LevelCount(side domain.Side) int {
	if side == domain.SideAsk {
		return b.asks.Len()
	}
	return b.bids.Len()
}

// RestingOrders returns the number of orders currently resting on the book.
func (b *Book) RestingOrders() int {
	return len(b.index)
}

// LastTradePrice returns the price of the most recent trade, or zero before
// any trade has executed.
func (b *Book) LastTradePrice() int64 {
	return b.lastTradePrice
}

// LastMid returns the most recent mid-price sample.
func (b *Book) LastMid() (int64, bool) {
	return b.mids.Last()
}

// MidHistory returns up to n of the most recent mid-price samples in
// chronological order.
func (b *Book) MidHistory(n int) []int64 {
	return b.mids.Tail(n)
}
