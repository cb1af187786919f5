package model

import "time"

// PriceStatus indicates whether a row was valued with a live quote or fell
// back to the position's average cost because no quote was available.
type PriceStatus string

const (
	// PriceStatusLive means the last price came from the market data provider.
	PriceStatusLive PriceStatus = "live"

	// PriceStatusFallback means the quote was unavailable and the average
	// cost was used instead. This is designed degraded-mode behavior, not
	// an error condition.
	PriceStatusFallback PriceStatus = "fallback"
)

// ValuationRow holds the computed valuation metrics for one position.
// Rows are ephemeral: fully recomputed on every refresh cycle.
type ValuationRow struct {
	Ticker        string      `json:"ticker"`
	NetQuantity   float64     `json:"netQuantity"`
	AverageCost   float64     `json:"averageCost"`
	LastPrice     float64     `json:"lastPrice"`
	Invested      float64     `json:"invested"`      // netQuantity * averageCost
	CurrentValue  float64     `json:"currentValue"`  // netQuantity * lastPrice
	UnrealizedPL  float64     `json:"unrealizedPl"`  // currentValue - invested
	PctChange     float64     `json:"pctChange"`     // price change vs average cost, in percent
	AllocationPct float64     `json:"allocationPct"` // share of total current value, in percent
	PriceStatus   PriceStatus `json:"priceStatus"`
}

// PortfolioTotals aggregates the valuation rows into portfolio-level metrics.
type PortfolioTotals struct {
	TotalInvested      float64 `json:"totalInvested"`
	TotalValue         float64 `json:"totalValue"`
	TotalReturnPct     float64 `json:"totalReturnPct"`
	BenchmarkChangePct float64 `json:"benchmarkChangePct"`
	BenchmarkAvailable bool    `json:"benchmarkAvailable"`
}

// Snapshot is the complete output of one refresh cycle: the ordered
// valuation rows, the portfolio totals, and the refresh metadata. A new
// snapshot simply supersedes the previous one.
type Snapshot struct {
	ID           string          `json:"id"`
	Rows         []ValuationRow  `json:"rows"`
	Totals       PortfolioTotals `json:"totals"`
	Warnings     RowWarnings     `json:"warnings"`
	Degraded     bool            `json:"degraded"`
	MarketOpen   bool            `json:"marketOpen"`
	MarketStatus string          `json:"marketStatus"`
	RefreshedAt  time.Time       `json:"refreshedAt"`
}

// TrendPoint is a single dated closing price in a trend series.
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// TrendSeries holds a month of daily closes for one ticker, consumed by the
// presentation layer's trend chart.
type TrendSeries struct {
	Ticker string       `json:"ticker"`
	Points []TrendPoint `json:"points"`
}
