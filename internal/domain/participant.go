package domain

import "sync"

// Participant is a market participant account: cash and position for one
// trader. The engine itself never holds participants; it only pushes
// settlement deltas to them through the registry, so the registry's owner
// (the simulation layer) guarantees their lifetime exceeds the engine's.
type Participant struct {
	ID       string
	Funds    int64 // cash in cents
	Position int64 // shares held

	mu sync.Mutex // guards Funds and Position against concurrent readers
}

// NewParticipant creates an account with the given opening balances.
func NewParticipant(id string, funds, position int64) *Participant {
	return &Participant{ID: id, Funds: funds, Position: position}
}

// OnFundsChange applies a cash delta. Called by the engine once per fill leg.
func (p *Participant) OnFundsChange(delta int64) {
	p.mu.Lock()
	p.Funds += delta
	p.mu.Unlock()
}

// OnPositionChange applies a position delta. Called by the engine once per
// fill leg.
func (p *Participant) OnPositionChange(delta int64) {
	p.mu.Lock()
	p.Position += delta
	p.mu.Unlock()
}

// Balances returns the current funds and position.
func (p *Participant) Balances() (funds, position int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Funds, p.Position
}
