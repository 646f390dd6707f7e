package domain

// Side indicates whether an order bids for or offers the instrument.
type Side string

const (
	SideBid Side = "bid"
	SideAsk Side = "ask"
)

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideBid || s == SideAsk
}

// Order is a limit order accepted by the engine. The ID is assigned by the
// engine on acceptance, never by the submitter, and is strictly increasing.
// Only the engine mutates an order: Remaining decreases on fills, and the
// order is dropped once Remaining reaches zero or the order is cancelled.
type Order struct {
	ID            int64
	ParticipantID string
	Side          Side
	Price         int64 // cents, quantized to the book's tick size
	Volume        int64 // volume as submitted
	Remaining     int64 // unfilled volume, positive while resting
	CreatedAt     int64 // logical clock stamp at acceptance
}
