package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/growwtrack/portfolio-tracker-backend/internal/api"
	"github.com/growwtrack/portfolio-tracker-backend/internal/apperrors"
	"github.com/growwtrack/portfolio-tracker-backend/internal/config"
	"github.com/growwtrack/portfolio-tracker-backend/internal/database"
	"github.com/growwtrack/portfolio-tracker-backend/internal/market"
	"github.com/growwtrack/portfolio-tracker-backend/internal/quote"
	"github.com/growwtrack/portfolio-tracker-backend/internal/repository"
	"github.com/growwtrack/portfolio-tracker-backend/internal/scheduler"
	"github.com/growwtrack/portfolio-tracker-backend/internal/service"
	"github.com/growwtrack/portfolio-tracker-backend/internal/tradefile"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	snapshotRepo := repository.NewSnapshotRepository(db)
	priceCacheRepo := repository.NewPriceCacheRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	settingsService, err := service.NewSettingsService(settingsRepo, cfg.Market.TokenKey)
	if err != nil {
		log.Fatalf("Failed to create settings service: %v", err)
	}

	// The provider token is optional; attach it when stored.
	var quoteOpts []quote.Option
	token, err := settingsService.MarketToken()
	switch {
	case err == nil:
		quoteOpts = append(quoteOpts, quote.WithToken(token))
	case errors.Is(err, apperrors.ErrSettingNotFound), errors.Is(err, apperrors.ErrMissingTokenKey):
		// No token configured; the public endpoints work without one.
	default:
		log.Printf("Failed to load market token: %v", err)
	}
	quoteClient := quote.NewFinanceClient(quoteOpts...)

	clock := market.NewClock(
		cfg.Market.Timezone,
		cfg.Market.OpenHour, cfg.Market.OpenMinute,
		cfg.Market.CloseHour, cfg.Market.CloseMinute,
	)

	holdingsService := service.NewHoldingsService(tradefile.NewReader(cfg.Trades.CSVPath))
	valuationService := service.NewValuationService()
	refreshService := service.NewRefreshService(
		holdingsService,
		valuationService,
		quoteClient,
		priceCacheRepo,
		snapshotRepo,
		clock,
		cfg.Market.BenchmarkSymbol,
		time.Duration(cfg.Refresh.QuoteTTLSeconds)*time.Second,
	)

	// Periodic refresh scheduler
	refreshScheduler, err := scheduler.New(refreshService, time.Duration(cfg.Refresh.IntervalSeconds)*time.Second)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	refreshScheduler.Start()
	defer refreshScheduler.Stop()

	// Create router
	router := api.NewRouter(systemService, settingsService, holdingsService, refreshService, quoteClient, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
