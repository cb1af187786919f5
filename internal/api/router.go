package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/growwtrack/portfolio-tracker-backend/internal/api/handlers"
	custommiddleware "github.com/growwtrack/portfolio-tracker-backend/internal/api/middleware"
	"github.com/growwtrack/portfolio-tracker-backend/internal/config"
	"github.com/growwtrack/portfolio-tracker-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	settingsService *service.SettingsService,
	holdingsService *service.HoldingsService,
	refreshService *service.RefreshService,
	quoteTokens handlers.TokenApplier,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService, settingsService, quoteTokens)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
			r.Post("/token", systemHandler.SetToken)
		})

		r.Route("/holdings", func(r chi.Router) {
			holdingsHandler := handlers.NewHoldingsHandler(holdingsService)
			r.Get("/", holdingsHandler.Holdings)
		})

		valuationHandler := handlers.NewValuationHandler(refreshService)
		r.Route("/valuation", func(r chi.Router) {
			r.Get("/", valuationHandler.Valuation)
			r.Post("/refresh", valuationHandler.Refresh)
			r.Get("/export", valuationHandler.Export)
		})

		r.Get("/trend", valuationHandler.Trend)
	})

	return r
}
