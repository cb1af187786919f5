package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/growwtrack/portfolio-tracker-backend/internal/export"
	"github.com/growwtrack/portfolio-tracker-backend/internal/model"
	"github.com/growwtrack/portfolio-tracker-backend/internal/service"
)

// ValuationHandler handles valuation-related HTTP requests
type ValuationHandler struct {
	refreshService *service.RefreshService
}

// NewValuationHandler creates a new ValuationHandler
func NewValuationHandler(refreshService *service.RefreshService) *ValuationHandler {
	return &ValuationHandler{
		refreshService: refreshService,
	}
}

// ValuationResponse represents a valuation snapshot for API consumers:
// the ordered rows, portfolio totals, and refresh metadata.
type ValuationResponse struct {
	Rows         []model.ValuationRow  `json:"rows"`
	Totals       model.PortfolioTotals `json:"totals"`
	Warnings     model.RowWarnings     `json:"warnings"`
	Degraded     bool                  `json:"degraded"`
	MarketOpen   bool                  `json:"marketOpen"`
	MarketStatus string                `json:"marketStatus"`
	RefreshedAt  time.Time             `json:"refreshedAt"`
}

func toValuationResponse(snapshot model.Snapshot) ValuationResponse {
	return ValuationResponse{
		Rows:         snapshot.Rows,
		Totals:       snapshot.Totals,
		Warnings:     snapshot.Warnings,
		Degraded:     snapshot.Degraded,
		MarketOpen:   snapshot.MarketOpen,
		MarketStatus: snapshot.MarketStatus,
		RefreshedAt:  snapshot.RefreshedAt,
	}
}

// Valuation handles GET requests for the latest valuation snapshot.
// Serves the persisted snapshot when one exists; the first request after
// startup triggers a refresh cycle inline.
//
// Endpoint: GET /api/valuation
// Response: 200 OK with ValuationResponse
func (h *ValuationHandler) Valuation(w http.ResponseWriter, r *http.Request) {
	snapshot := h.refreshService.Latest(r.Context())
	respondJSON(w, http.StatusOK, toValuationResponse(snapshot))
}

// Refresh handles POST requests to run a refresh cycle immediately.
//
// Endpoint: POST /api/valuation/refresh
// Response: 200 OK with the fresh ValuationResponse
func (h *ValuationHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snapshot := h.refreshService.Refresh(r.Context())
	respondJSON(w, http.StatusOK, toValuationResponse(snapshot))
}

// Export handles GET requests for the flat CSV download of the latest
// valuation rows. Numeric fields are unformatted, independent of display
// formatting.
//
// Endpoint: GET /api/valuation/export
// Response: 200 OK with text/csv attachment
func (h *ValuationHandler) Export(w http.ResponseWriter, r *http.Request) {
	snapshot := h.refreshService.Latest(r.Context())

	filename := fmt.Sprintf("portfolio_%s.csv", snapshot.RefreshedAt.Format("2006-01-02_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)

	if err := export.WriteCSV(w, snapshot.Rows); err != nil {
		// Headers are already out; log-and-abort is all that is left.
		log.Printf("failed to write export: %v", err)
	}
}

// TrendResponse represents the trend series for all held tickers.
type TrendResponse struct {
	Series []model.TrendSeries `json:"series"`
}

// Trend handles GET requests for one month of daily closes per held ticker.
// Tickers whose series could not be fetched are omitted from the response.
//
// Endpoint: GET /api/trend
// Response: 200 OK with TrendResponse
func (h *ValuationHandler) Trend(w http.ResponseWriter, r *http.Request) {
	series := h.refreshService.Trend(r.Context())
	respondJSON(w, http.StatusOK, TrendResponse{Series: series})
}
