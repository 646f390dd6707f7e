package handler

import (
	"net/http"
	"strconv"

	"github.com/efreitasn/marketsim/internal/domain"
	"github.com/efreitasn/marketsim/internal/engine"
	"github.com/efreitasn/marketsim/internal/sim"
	"github.com/efreitasn/marketsim/internal/store"
)

// MarketHandler serves the read-only market observation endpoints. Orders
// never enter through HTTP; they come from in-process strategies only.
type MarketHandler struct {
	driver     *sim.Driver
	ledger     *store.TradeLedger
	mids       *store.MidPriceLog
	defaultBin int64 // cents
}

// NewMarketHandler creates a MarketHandler.
func NewMarketHandler(driver *sim.Driver, ledger *store.TradeLedger, mids *store.MidPriceLog, defaultBin int64) *MarketHandler {
	return &MarketHandler{
		driver:     driver,
		ledger:     ledger,
		mids:       mids,
		defaultBin: defaultBin,
	}
}

// bookLevelResponse is a single price level in the book response.
type bookLevelResponse struct {
	Price  float64 `json:"price"`
	Volume int64   `json:"volume"`
	Orders int     `json:"orders"`
}

// bookResponse is the JSON response for GET /market/book.
type bookResponse struct {
	Time           int64               `json:"time"`
	BestBid        *bookLevelResponse  `json:"best_bid"`
	BestAsk        *bookLevelResponse  `json:"best_ask"`
	Spread         *float64            `json:"spread"`
	Bids           []bookLevelResponse `json:"bids"`
	Asks           []bookLevelResponse `json:"asks"`
	LastTradePrice float64             `json:"last_trade_price"`
}

// GetBook handles GET /market/book.
func (h *MarketHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	// Parse depth query param (default 10, max 50).
	depth := 10
	if d := r.URL.Query().Get("depth"); d != "" {
		var err error
		depth, err = strconv.Atoi(d)
		if err != nil || depth <= 0 {
			WriteError(w, http.StatusBadRequest, "validation_error", "depth must be a positive integer")
			return
		}
	}
	if depth > 50 {
		depth = 50
	}

	snap := h.driver.Snapshot(depth)

	resp := bookResponse{
		Time:           snap.Time,
		Bids:           toLevelResponses(snap.Bids),
		Asks:           toLevelResponses(snap.Asks),
		LastTradePrice: domain.CentsToDollars(snap.LastTradePrice),
	}
	if snap.BestBid != nil {
		v := toLevelResponse(*snap.BestBid)
		resp.BestBid = &v
	}
	if snap.BestAsk != nil {
		v := toLevelResponse(*snap.BestAsk)
		resp.BestAsk = &v
	}
	if snap.BestBid != nil && snap.BestAsk != nil {
		s := domain.CentsToDollars(snap.BestAsk.Price - snap.BestBid.Price)
		resp.Spread = &s
	}

	WriteJSON(w, http.StatusOK, resp)
}

// depthPointResponse is a single point of the depth profile.
type depthPointResponse struct {
	Price  float64 `json:"price"`
	Volume int64   `json:"volume"`
}

// depthResponse is the JSON response for GET /market/depth.
type depthResponse struct {
	Bin             float64              `json:"bin"`
	Points          []depthPointResponse `json:"points"`
	ReferenceVolume int64                `json:"reference_volume"`
}

// GetDepth handles GET /market/depth. An empty side of the book yields an
// empty profile with zero reference volume, not an error.
func (h *MarketHandler) GetDepth(w http.ResponseWriter, r *http.Request) {
	bin := h.defaultBin
	if s := r.URL.Query().Get("bin"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "bin must be a dollar amount")
			return
		}
		bin, err = domain.DollarsToCents(f)
		if err != nil || bin <= 0 {
			WriteError(w, http.StatusBadRequest, "validation_error", "bin must be a positive dollar amount with at most 2 decimal places")
			return
		}
	}

	points, ref := h.driver.Depth(bin)
	resp := depthResponse{
		Bin:             domain.CentsToDollars(bin),
		Points:          make([]depthPointResponse, len(points)),
		ReferenceVolume: ref,
	}
	for i, p := range points {
		resp.Points[i] = depthPointResponse{
			Price:  domain.CentsToDollars(p.Price),
			Volume: p.Volume,
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// tradeResponse is a single trade in the trades response.
type tradeResponse struct {
	ID        int64   `json:"id"`
	Price     float64 `json:"price"`
	Volume    int64   `json:"volume"`
	BuyerID   string  `json:"buyer_id"`
	SellerID  string  `json:"seller_id"`
	Timestamp int64   `json:"timestamp"`
}

// tradesResponse is the JSON response for GET /market/trades.
type tradesResponse struct {
	Trades []tradeResponse `json:"trades"`
	Total  int             `json:"total"`
}

// GetTrades handles GET /market/trades. Trades come back newest first.
func (h *MarketHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if s := r.URL.Query().Get("limit"); s != "" {
		var err error
		limit, err = strconv.Atoi(s)
		if err != nil || limit <= 0 {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
			return
		}
	}

	trades := h.ledger.Recent(limit)
	resp := tradesResponse{
		Trades: make([]tradeResponse, len(trades)),
		Total:  h.ledger.Len(),
	}
	for i, t := range trades {
		resp.Trades[i] = toTradeResponse(t)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// midResponse is the JSON response for GET /market/mid.
type midResponse struct {
	Samples []float64 `json:"samples"`
	Total   int       `json:"total"`
}

// GetMid handles GET /market/mid. Samples come back in chronological order.
func (h *MarketHandler) GetMid(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if s := r.URL.Query().Get("limit"); s != "" {
		var err error
		limit, err = strconv.Atoi(s)
		if err != nil || limit <= 0 {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
			return
		}
	}

	samples := h.mids.Tail(limit)
	resp := midResponse{
		Samples: make([]float64, len(samples)),
		Total:   h.mids.Len(),
	}
	for i, v := range samples {
		resp.Samples[i] = domain.CentsToDollars(v)
	}
	WriteJSON(w, http.StatusOK, resp)
}

func toLevelResponse(l engine.PriceLevelView) bookLevelResponse {
	return bookLevelResponse{
		Price:  domain.CentsToDollars(l.Price),
		Volume: l.Volume,
		Orders: l.Orders,
	}
}

func toLevelResponses(levels []engine.PriceLevelView) []bookLevelResponse {
	out := make([]bookLevelResponse, len(levels))
	for i, l := range levels {
		out[i] = toLevelResponse(l)
	}
	return out
}

func toTradeResponse(t *domain.Trade) tradeResponse {
	return tradeResponse{
		ID:        t.ID,
		Price:     domain.CentsToDollars(t.Price),
		Volume:    t.Volume,
		BuyerID:   t.BuyerID,
		SellerID:  t.SellerID,
		Timestamp: t.Timestamp,
	}
}
