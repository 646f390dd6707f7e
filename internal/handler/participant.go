package handler

import (
	"net/http"

	"github.com/efreitasn/marketsim/internal/domain"
	"github.com/efreitasn/marketsim/internal/sim"
)

// ParticipantHandler serves participant account balances.
type ParticipantHandler struct {
	driver *sim.Driver
}

// NewParticipantHandler creates a ParticipantHandler.
func NewParticipantHandler(driver *sim.Driver) *ParticipantHandler {
	return &ParticipantHandler{driver: driver}
}

// participantResponse is a single participant in the list response.
type participantResponse struct {
	ID       string  `json:"id"`
	Funds    float64 `json:"funds"`
	Position int64   `json:"position"`
}

// participantsResponse is the JSON response for GET /participants.
type participantsResponse struct {
	Participants []participantResponse `json:"participants"`
}

// List handles GET /participants.
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	traders := h.driver.Traders()
	resp := participantsResponse{
		Participants: make([]participantResponse, len(traders)),
	}
	for i, t := range traders {
		funds, position := t.Balances()
		resp.Participants[i] = participantResponse{
			ID:       t.ID,
			Funds:    domain.CentsToDollars(funds),
			Position: position,
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}
