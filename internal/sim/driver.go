package sim

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/efreitasn/marketsim/internal/domain"
	"github.com/efreitasn/marketsim/internal/engine"
	"github.com/efreitasn/marketsim/internal/store"
)

// BookSnapshot is a point-in-time read of the book for observers.
type BookSnapshot struct {
	Time           int64
	BestBid        *engine.PriceLevelView
	BestAsk        *engine.PriceLevelView
	Bids           []engine.PriceLevelView
	Asks           []engine.PriceLevelView
	LastTradePrice int64
}

// Driver owns the engine and provides its only serialization: the step
// loop and every observation snapshot go through one mutex, so the book
// itself stays a lock-free sequential state machine. Each step advances
// the clock, lets every trader act, appends a mid-price sample, and
// broadcasts the resulting snapshot and any new trades.
type Driver struct {
	mu      sync.Mutex
	book    *engine.Book
	clock   *domain.Clock
	traders []*Trader

	interval      time.Duration
	snapshotDepth int

	ledger *store.TradeLedger
	seen   int // ledger length already broadcast

	bookHub  *Hub[BookSnapshot]
	tradeHub *Hub[*domain.Trade]

	log *slog.Logger
}

// NewDriver creates a driver over the book and trader population.
func NewDriver(
	book *engine.Book,
	clock *domain.Clock,
	traders []*Trader,
	ledger *store.TradeLedger,
	interval time.Duration,
	logger *slog.Logger,
) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		book:          book,
		clock:         clock,
		traders:       traders,
		interval:      interval,
		snapshotDepth: 30,
		ledger:        ledger,
		bookHub:       NewHub[BookSnapshot](),
		tradeHub:      NewHub[*domain.Trade](),
		log:           logger,
	}
}

// Start launches the step loop in a background goroutine. It stops when
// ctx is cancelled.
func (d *Driver) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		d.log.Info("simulation started",
			slog.Int("traders", len(d.traders)),
			slog.Duration("step_interval", d.interval),
		)
		for {
			select {
			case <-ctx.Done():
				d.log.Info("simulation stopped", slog.Int64("sim_time", d.Now()))
				return
			case <-ticker.C:
				d.Step()
			}
		}
	}()
}

// Step runs one simulation step. Exported so tests and alternate drivers
// can single-step without the ticker.
func (d *Driver) Step() {
	d.mu.Lock()
	d.clock.Advance(1)
	for _, t := range d.traders {
		t.Step(d.book, d.clock)
	}
	d.book.Tick()
	snap := d.snapshotLocked(d.snapshotDepth)
	fresh := d.ledger.Since(d.seen)
	d.seen += len(fresh)
	d.mu.Unlock()

	d.bookHub.Broadcast(snap)
	for _, t := range fresh {
		d.tradeHub.Broadcast(t)
	}
}

// Submit forwards an order into the book under the driver's lock. Used for
// seed liquidity and tests; strategies submit directly inside Step.
func (d *Driver) Submit(side domain.Side, price, volume int64, participantID string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.book.Submit(side, price, volume, participantID)
}

// Cancel withdraws a resting order under the driver's lock.
func (d *Driver) Cancel(orderID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.book.Cancel(orderID)
}

// Now returns the current simulated time.
func (d *Driver) Now() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clock.Now()
}

// Snapshot returns a consistent view of the book with up to maxLevels
// aggregated levels per side.
func (d *Driver) Snapshot(maxLevels int) BookSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked(maxLevels)
}

func (d *Driver) snapshotLocked(maxLevels int) BookSnapshot {
	snap := BookSnapshot{
		Time:           d.clock.Now(),
		Bids:           d.book.Levels(domain.SideBid, maxLevels),
		Asks:           d.book.Levels(domain.SideAsk, maxLevels),
		LastTradePrice: d.book.LastTradePrice(),
	}
	if best, ok := d.book.BestBid(); ok {
		snap.BestBid = &best
	}
	if best, ok := d.book.BestAsk(); ok {
		snap.BestAsk = &best
	}
	return snap
}

// Depth returns the depth profile and its reference volume.
func (d *Driver) Depth(binWidth int64) ([]engine.DepthPoint, int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.book.DepthProfile(binWidth)
}

// Traders returns the trader population. The slice is shared; callers read
// balances through Participant.Balances, which takes the per-account lock.
func (d *Driver) Traders() []*Trader {
	return d.traders
}

// SubscribeBook registers for per-step book snapshots.
func (d *Driver) SubscribeBook(buffer int) *Subscription[BookSnapshot] {
	return d.bookHub.Subscribe(buffer)
}

// UnsubscribeBook removes a snapshot subscription.
func (d *Driver) UnsubscribeBook(sub *Subscription[BookSnapshot]) {
	d.bookHub.Unsubscribe(sub)
}

// SubscribeTrades registers for newly executed trades.
func (d *Driver) SubscribeTrades(buffer int) *Subscription[*domain.Trade] {
	return d.tradeHub.Subscribe(buffer)
}

// UnsubscribeTrades removes a trade subscription.
func (d *Driver) UnsubscribeTrades(sub *Subscription[*domain.Trade]) {
	d.tradeHub.Unsubscribe(sub)
}
