package engine

import "github.com/efreitasn/marketsim/internal/domain"

// SettlementHandle receives cash and position deltas for one participant.
// The engine invokes it synchronously, once per fill leg per side, in the
// same call that records the trade.
type SettlementHandle interface {
	OnFundsChange(delta int64)
	OnPositionChange(delta int64)
}

// Settlement resolves participant identifiers to settlement handles.
// Identifiers with no handle are skipped silently: the trade still records
// in the ledger, but that side's cash/position delta is dropped. This
// keeps phantom participants (seed liquidity) out of the accounts without
// losing trades.
type Settlement interface {
	Handle(participantID string) (SettlementHandle, bool)
}

// Registry is a map-backed Settlement. It is populated once at startup and
// read only from the engine's sequential context, so it carries no lock.
// The registry holds non-owning references; its owner guarantees the
// participants outlive the engine.
type Registry struct {
	handles map[string]SettlementHandle
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]SettlementHandle)}
}

// Register associates a participant ID with its settlement handle.
func (r *Registry) Register(participantID string, h SettlementHandle) {
	r.handles[participantID] = h
}

// Handle looks up the handle for a participant ID.
func (r *Registry) Handle(participantID string) (SettlementHandle, bool) {
	h, ok := r.handles[participantID]
	return h, ok
}

// notifySettlement pushes the trade's deltas to both counterparties: the
// buyer pays price×volume and gains the volume, the seller the inverse.
func (b *Book) notifySettlement(t *domain.Trade) {
	if b.settle == nil {
		return
	}
	cash := t.Price * t.Volume

	if h, ok := b.settle.Handle(t.BuyerID); ok {
		h.OnFundsChange(-cash)
		h.OnPositionChange(t.Volume)
	}
	if h, ok := b.settle.Handle(t.SellerID); ok {
		h.OnFundsChange(cash)
		h.OnPositionChange(-t.Volume)
	}
}
