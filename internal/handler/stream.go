package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/efreitasn/marketsim/internal/domain"
	"github.com/efreitasn/marketsim/internal/sim"
)

// outboundMessage wraps every streamed payload with its type.
type outboundMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// StreamHandler upgrades observers to WebSocket and relays book snapshots
// and trades from the driver's hubs. Streams are one-way; inbound frames
// are not read.
type StreamHandler struct {
	driver   *sim.Driver
	upgrader websocket.Upgrader
}

// NewStreamHandler creates a StreamHandler.
func NewStreamHandler(driver *sim.Driver) *StreamHandler {
	return &StreamHandler{
		driver:   driver,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

// BookStream handles GET /ws/book: one snapshot message per simulation step.
func (h *StreamHandler) BookStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := h.driver.SubscribeBook(32)
	defer h.driver.UnsubscribeBook(sub)

	for snap := range sub.C {
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
		if err := conn.WriteJSON(outboundMessage{Type: "book", Data: resp}); err != nil {
			return
		}
	}
}

// TradeStream handles GET /ws/trades: one message per executed trade.
func (h *StreamHandler) TradeStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := h.driver.SubscribeTrades(32)
	defer h.driver.UnsubscribeTrades(sub)

	for trade := range sub.C {
		if err := conn.WriteJSON(outboundMessage{Type: "trade", Data: toTradeResponse(trade)}); err != nil {
			return
		}
	}
}
