package store

import (
	"sync"

	"github.com/efreitasn/marketsim/internal/domain"
)

// TradeLedger is a thread-safe append-only log of executed trades,
// retained for the lifetime of one simulation run. The engine appends
// under the driver's serialization; readers (HTTP handlers) come in
// concurrently, hence the RWMutex.
type TradeLedger struct {
	mu     sync.RWMutex
	trades []*domain.Trade
}

// NewTradeLedger creates an empty TradeLedger.
func NewTradeLedger() *TradeLedger {
	return &TradeLedger{}
}

// Append adds a trade to the ledger.
func (l *TradeLedger) Append(t *domain.Trade) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.trades = append(l.trades, t)
}

// Len returns the number of recorded trades.
func (l *TradeLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.trades)
}

// All returns every trade in chronological order.
// The returned slice is a copy; callers may not mutate ledger state.
func (l *TradeLedger) All() []*domain.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*domain.Trade, len(l.trades))
	copy(result, l.trades)
	return result
}

// Recent returns up to n trades, newest first. n <= 0 returns all trades.
func (l *TradeLedger) Recent(n int) []*domain.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 || n > len(l.trades) {
		n = len(l.trades)
	}
	result := make([]*domain.Trade, 0, n)
	for i := len(l.trades) - 1; i >= len(l.trades)-n; i-- {
		result = append(result, l.trades[i])
	}
	return result
}

// Since returns trades recorded at or after index from, in chronological
// order. Used by the driver to broadcast only trades it has not yet seen.
func (l *TradeLedger) Since(from int) []*domain.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if from < 0 {
		from = 0
	}
	if from >= len(l.trades) {
		return nil
	}
	result := make([]*domain.Trade, len(l.trades)-from)
	copy(result, l.trades[from:])
	return result
}
