package testutil

import (
	"time"

	"github.com/growwtrack/portfolio-tracker-backend/internal/model"
)

// SnapshotBuilder provides a fluent interface for creating test snapshots.
//
// Example usage:
//
//	// Simple creation with defaults
//	snapshot := testutil.NewSnapshot().Build()
//
//	// Customized snapshot
//	snapshot := testutil.NewSnapshot().
//	    WithRow("TCS.NS", 10, 3500, 3600).
//	    WithRefreshedAt(someTime).
//	    Degraded().
//	    Build()
type SnapshotBuilder struct {
	snapshot model.Snapshot
}

// NewSnapshot creates a builder with sensible defaults: one live-priced row
// and a closed-market status.
func NewSnapshot() *SnapshotBuilder {
	b := &SnapshotBuilder{
		snapshot: model.Snapshot{
			ID:           MakeID(),
			MarketOpen:   false,
			MarketStatus: "Market Closed - Last Close",
			RefreshedAt:  time.Now().UTC().Truncate(time.Second),
		},
	}
	return b.WithRow("ADANIPOWER.NS", 265, 104.26, 110)
}

// WithRow appends a valuation row computed from quantity, average cost, and
// last price, the same way the valuation engine derives it.
func (b *SnapshotBuilder) WithRow(ticker string, quantity, averageCost, lastPrice float64) *SnapshotBuilder {
	invested := quantity * averageCost
	currentValue := quantity * lastPrice

	pctChange := 0.0
	if averageCost != 0 {
		pctChange = (lastPrice - averageCost) / averageCost * 100
	}

	b.snapshot.Rows = append(b.snapshot.Rows, model.ValuationRow{
		Ticker:       ticker,
		NetQuantity:  quantity,
		AverageCost:  averageCost,
		LastPrice:    lastPrice,
		Invested:     invested,
		CurrentValue: currentValue,
		UnrealizedPL: currentValue - invested,
		PctChange:    pctChange,
		PriceStatus:  model.PriceStatusLive,
	})

	b.snapshot.Totals.TotalInvested += invested
	b.snapshot.Totals.TotalValue += currentValue
	return b
}

// WithoutRows clears the default row set.
func (b *SnapshotBuilder) WithoutRows() *SnapshotBuilder {
	b.snapshot.Rows = nil
	b.snapshot.Totals = model.PortfolioTotals{}
	return b
}

// WithRefreshedAt sets the snapshot timestamp.
func (b *SnapshotBuilder) WithRefreshedAt(at time.Time) *SnapshotBuilder {
	b.snapshot.RefreshedAt = at.UTC()
	return b
}

// WithWarnings sets the skipped-row counters.
func (b *SnapshotBuilder) WithWarnings(badQuantity, badPrice int) *SnapshotBuilder {
	b.snapshot.Warnings = model.RowWarnings{BadQuantity: badQuantity, BadPrice: badPrice}
	return b
}

// Degraded marks the snapshot as built from the sample holdings.
func (b *SnapshotBuilder) Degraded() *SnapshotBuilder {
	b.snapshot.Degraded = true
	return b
}

// MarketOpen marks the snapshot as taken during trading hours.
func (b *SnapshotBuilder) MarketOpen() *SnapshotBuilder {
	b.snapshot.MarketOpen = true
	b.snapshot.MarketStatus = "Live Market"
	return b
}

// Build finalizes allocation percentages and totals and returns the snapshot.
func (b *SnapshotBuilder) Build() model.Snapshot {
	for i := range b.snapshot.Rows {
		if b.snapshot.Totals.TotalValue > 0 {
			b.snapshot.Rows[i].AllocationPct = b.snapshot.Rows[i].CurrentValue / b.snapshot.Totals.TotalValue * 100
		}
	}
	if b.snapshot.Totals.TotalInvested != 0 {
		b.snapshot.Totals.TotalReturnPct = (b.snapshot.Totals.TotalValue - b.snapshot.Totals.TotalInvested) /
			b.snapshot.Totals.TotalInvested * 100
	}
	return b.snapshot
}
