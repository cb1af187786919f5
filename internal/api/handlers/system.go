package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/growwtrack/portfolio-tracker-backend/internal/apperrors"
	"github.com/growwtrack/portfolio-tracker-backend/internal/service"
)

// TokenApplier applies a newly stored provider token to the running market
// data client, so a posted token takes effect without a restart.
type TokenApplier interface {
	SetToken(token string)
}

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService   *service.SystemService
	settingsService *service.SettingsService
	quoteTokens     TokenApplier
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(
	systemService *service.SystemService,
	settingsService *service.SettingsService,
	quoteTokens TokenApplier,
) *SystemHandler {
	return &SystemHandler{
		systemService:   systemService,
		settingsService: settingsService,
		quoteTokens:     quoteTokens,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		response := HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		}
		respondJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	response := HealthResponse{
		Status:   "healthy",
		Database: "connected",
	}
	respondJSON(w, http.StatusOK, response)
}

// VersionResponse represents the version check response.
type VersionResponse struct {
	AppVersion string `json:"app_version"`
}

// Version handles GET requests to retrieve version information.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with VersionResponse
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, VersionResponse{
		AppVersion: h.systemService.Version(),
	})
}

// TokenRequest is the body for storing the market data provider token.
type TokenRequest struct {
	Token string `json:"token"`
}

// SetToken handles POST requests to store the market data provider token.
// The token is encrypted at rest and applied to the running quote client,
// so subsequent refresh cycles use it immediately. Requires the token
// encryption key to be configured.
//
// Endpoint: POST /api/system/token
// Response: 204 No Content on success
func (h *SystemHandler) SetToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Token == "" {
		respondError(w, http.StatusBadRequest, "token is required", nil)
		return
	}

	if err := h.settingsService.SetMarketToken(req.Token); err != nil {
		if errors.Is(err, apperrors.ErrMissingTokenKey) {
			respondError(w, http.StatusConflict, "token encryption key not configured", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to store token", err)
		return
	}

	h.quoteTokens.SetToken(req.Token)

	respondJSON(w, http.StatusNoContent, nil)
}
