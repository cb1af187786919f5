package handlers

import (
	"net/http"

	"github.com/growwtrack/portfolio-tracker-backend/internal/model"
	"github.com/growwtrack/portfolio-tracker-backend/internal/service"
)

// HoldingsHandler handles holdings-related HTTP requests
type HoldingsHandler struct {
	holdingsService *service.HoldingsService
}

// NewHoldingsHandler creates a new HoldingsHandler
func NewHoldingsHandler(holdingsService *service.HoldingsService) *HoldingsHandler {
	return &HoldingsHandler{
		holdingsService: holdingsService,
	}
}

// HoldingsResponse represents the aggregated holdings response. Degraded is
// true when the trade export could not be read and the sample holdings were
// substituted; the UI surfaces it as a warning banner.
type HoldingsResponse struct {
	Positions []model.Position  `json:"positions"`
	Warnings  model.RowWarnings `json:"warnings"`
	Degraded  bool              `json:"degraded"`
}

// Holdings handles GET requests for the aggregated net positions.
//
// Endpoint: GET /api/holdings
// Response: 200 OK with HoldingsResponse (degraded data is still 200; the
// degradation is part of the payload, not an error)
func (h *HoldingsHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	holdings := h.holdingsService.LoadHoldings()

	respondJSON(w, http.StatusOK, HoldingsResponse{
		Positions: holdings.Positions,
		Warnings:  holdings.Warnings,
		Degraded:  holdings.Degraded,
	})
}
