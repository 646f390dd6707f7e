package engine

// DepthPoint is one (binned price, cumulative volume) sample of the depth
// profile. Points are transient; nothing persists them.
type DepthPoint struct {
	Price  int64 // cents, floored to the bin
	Volume int64 // cumulative resting volume from the side's best price out
}

// DepthProfile derives the cumulative volume-by-price profile from the
// current book without mutating it. Bid points run from the side's worst
// price up to the best, followed by a zero-volume midpoint marker, then ask
// points from best to worst, so the whole sequence runs low price to high.
// Cumulative volume on each side accumulates from the best price outward:
// the value at a point is the total resting volume at least as aggressive
// as that level.
//
// The second return is the larger of the two sides' totals, for callers to
// normalize bar heights against. Depth is undefined without both sides
// present: if either is empty the profile is empty with a zero reference.
func (b *Book) DepthProfile(binWidth int64) ([]DepthPoint, int64) {
	if binWidth <= 0 {
		binWidth = b.cfg.TickSize
	}

	bestBid, hasBid := b.bids.Min()
	bestAsk, hasAsk := b.asks.Min()
	if !hasBid || !hasAsk {
		return nil, 0
	}

	// Walk bids best-first accumulating, then reverse into the output so
	// they appear worst-first.
	bidPoints := make([]DepthPoint, 0, b.bids.Len())
	var bidTotal int64
	b.bids.Ascend(func(level *priceLevel) bool {
		bidTotal += level.volume
		bidPoints = append(bidPoints, DepthPoint{Price: binPrice(level.price, binWidth), Volume: bidTotal})
		return true
	})

	points := make([]DepthPoint, 0, len(bidPoints)+b.asks.Len()+1)
	for i := len(bidPoints) - 1; i >= 0; i-- {
		points = append(points, bidPoints[i])
	}

	mid := (bestBid.price + bestAsk.price) / 2
	points = append(points, DepthPoint{Price: binPrice(mid, binWidth)})

	var askTotal int64
	b.asks.Ascend(func(level *priceLevel) bool {
		askTotal += level.volume
		points = append(points, DepthPoint{Price: binPrice(level.price, binWidth), Volume: askTotal})
		return true
	})

	return points, max(bidTotal, askTotal)
}

// binPrice buckets a price into its bin by floor division.
func binPrice(price, binWidth int64) int64 {
	return price / binWidth * binWidth
}
