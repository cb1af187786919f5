package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/growwtrack/portfolio-tracker-backend/internal/apperrors"
	"github.com/growwtrack/portfolio-tracker-backend/internal/market"
	"github.com/growwtrack/portfolio-tracker-backend/internal/model"
	"github.com/growwtrack/portfolio-tracker-backend/internal/quote"
	"github.com/growwtrack/portfolio-tracker-backend/internal/repository"
)

// quoteFanOutLimit bounds concurrent quote requests per refresh cycle.
const quoteFanOutLimit = 4

// RefreshService orchestrates one valuation refresh cycle: load holdings,
// fetch prices (through the short-lived cache), run the valuation engine,
// attach the benchmark comparison, and persist the resulting snapshot.
//
// A cycle is a pure function of (holdings, prices, benchmark, clock); the
// new snapshot simply supersedes the previous one, so cycles need no
// cross-cycle coordination.
type RefreshService struct {
	holdingsService  *HoldingsService
	valuationService *ValuationService
	quoteClient      quote.Client
	priceCache       *repository.PriceCacheRepository
	snapshotRepo     *repository.SnapshotRepository
	clock            *market.Clock
	benchmarkSymbol  string
	quoteTTL         time.Duration
}

// NewRefreshService creates a new RefreshService with the provided
// dependencies.
func NewRefreshService(
	holdingsService *HoldingsService,
	valuationService *ValuationService,
	quoteClient quote.Client,
	priceCache *repository.PriceCacheRepository,
	snapshotRepo *repository.SnapshotRepository,
	clock *market.Clock,
	benchmarkSymbol string,
	quoteTTL time.Duration,
) *RefreshService {
	return &RefreshService{
		holdingsService:  holdingsService,
		valuationService: valuationService,
		quoteClient:      quoteClient,
		priceCache:       priceCache,
		snapshotRepo:     snapshotRepo,
		clock:            clock,
		benchmarkSymbol:  benchmarkSymbol,
		quoteTTL:         quoteTTL,
	}
}

// Refresh runs one complete refresh cycle and returns the fresh snapshot.
//
// Every failure mode inside the cycle has a degraded-but-valid output:
// unreadable trade source substitutes sample holdings, unavailable quotes
// fall back to average cost per row, and a missing benchmark only zeroes
// the benchmark metric. Persisting the snapshot is best-effort; a storage
// problem is logged, never propagated, so the caller always receives the
// computed result.
func (s *RefreshService) Refresh(ctx context.Context) model.Snapshot {
	holdings := s.holdingsService.LoadHoldings()

	hint := s.clock.Granularity()
	prices := s.fetchPrices(ctx, holdings.Tickers(), hint)

	rows, totals := s.valuationService.Valuate(holdings.Positions, prices)
	totals.BenchmarkChangePct, totals.BenchmarkAvailable = s.fetchBenchmark(ctx)

	snapshot := model.Snapshot{
		ID:           uuid.New().String(),
		Rows:         rows,
		Totals:       totals,
		Warnings:     holdings.Warnings,
		Degraded:     holdings.Degraded,
		MarketOpen:   s.clock.IsOpen(),
		MarketStatus: s.clock.Status(),
		RefreshedAt:  time.Now().UTC(),
	}

	if err := s.snapshotRepo.Save(snapshot); err != nil {
		log.Printf("failed to persist snapshot: %v", err)
	}
	if err := s.priceCache.PurgeExpired(); err != nil {
		log.Printf("failed to purge price cache: %v", err)
	}

	return snapshot
}

// Latest returns the most recently persisted snapshot, running a fresh
// cycle when none exists yet (first request after startup).
func (s *RefreshService) Latest(ctx context.Context) model.Snapshot {
	snapshot, err := s.snapshotRepo.GetLatest()
	if err == nil {
		return snapshot
	}
	if !errors.Is(err, apperrors.ErrSnapshotNotFound) {
		log.Printf("failed to load latest snapshot: %v", err)
	}
	return s.Refresh(ctx)
}

// fetchPrices resolves the last price for each ticker, consulting the cache
// first and fanning out the remaining quote requests with a bounded worker
// group. A ticker that cannot be priced is simply absent from the result;
// the valuation engine turns absence into the average-cost fallback.
func (s *RefreshService) fetchPrices(ctx context.Context, tickers []string, hint quote.Granularity) map[string]float64 {
	var (
		mu     sync.Mutex
		prices = make(map[string]float64, len(tickers))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(quoteFanOutLimit)

	for _, ticker := range tickers {
		g.Go(func() error {
			if cached, err := s.priceCache.Get(ticker); err == nil {
				mu.Lock()
				prices[ticker] = cached
				mu.Unlock()
				return nil
			}

			price, err := s.quoteClient.LatestQuote(gctx, ticker, hint)
			if err != nil {
				log.Printf("quote unavailable for %s: %v", ticker, err)
				return nil // fallback handled by the valuation engine
			}

			if err := s.priceCache.Put(ticker, price, s.quoteTTL); err != nil {
				log.Printf("failed to cache price for %s: %v", ticker, err)
			}

			mu.Lock()
			prices[ticker] = price
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes completion.
	_ = g.Wait()

	return prices
}

// fetchBenchmark retrieves the benchmark index series and computes its
// open-to-latest change. Failure yields (0, false) and is logged only.
func (s *RefreshService) fetchBenchmark(ctx context.Context) (float64, bool) {
	if s.benchmarkSymbol == "" {
		return 0, false
	}

	chart, err := s.quoteClient.MonthlySeries(ctx, s.benchmarkSymbol)
	if err != nil {
		log.Printf("%v: %v", apperrors.ErrBenchmarkUnavailable, err)
		return 0, false
	}

	return s.valuationService.BenchmarkChange(chart.Indicators)
}

// Trend fetches one month of daily closes for every held ticker, for the
// presentation layer's performance trend chart. Tickers whose series cannot
// be fetched are omitted rather than failing the whole response.
func (s *RefreshService) Trend(ctx context.Context) []model.TrendSeries {
	holdings := s.holdingsService.LoadHoldings()
	tickers := holdings.Tickers()

	var (
		mu     sync.Mutex
		series = make(map[string]model.TrendSeries, len(tickers))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(quoteFanOutLimit)

	for _, ticker := range tickers {
		g.Go(func() error {
			chart, err := s.quoteClient.MonthlySeries(gctx, ticker)
			if err != nil {
				log.Printf("trend unavailable for %s: %v", ticker, err)
				return nil
			}

			points := make([]model.TrendPoint, len(chart.Indicators))
			for i, ind := range chart.Indicators {
				points[i] = model.TrendPoint{Date: ind.Date, Close: ind.PriceClose}
			}

			mu.Lock()
			series[ticker] = model.TrendSeries{Ticker: ticker, Points: points}
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	// Preserve holdings order in the response.
	result := make([]model.TrendSeries, 0, len(series))
	for _, ticker := range tickers {
		if ts, ok := series[ticker]; ok {
			result = append(result, ts)
		}
	}
	return result
}
