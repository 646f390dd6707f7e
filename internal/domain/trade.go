package domain

// Trade is an immutable record of a matched execution. The price is always
// the resting order's quoted price, never the aggressor's limit.
type Trade struct {
	ID        int64
	Price     int64 // cents
	Volume    int64
	BuyerID   string // buying participant
	SellerID  string // selling participant
	Timestamp int64  // logical clock stamp at execution
}
