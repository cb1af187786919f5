package service

import (
	"sort"

	"github.com/growwtrack/portfolio-tracker-backend/internal/model"
	"github.com/growwtrack/portfolio-tracker-backend/internal/quote"
)

// ValuationService computes per-instrument and portfolio-level valuation
// metrics from positions and a price snapshot. Every method is a pure
// function of its inputs: running it twice on identical inputs yields
// identical output, row order included.
type ValuationService struct{}

// NewValuationService creates a new ValuationService.
func NewValuationService() *ValuationService {
	return &ValuationService{}
}

// Valuate builds the ordered valuation rows and portfolio totals.
//
// prices maps ticker to the fetched last price; a missing or non-positive
// entry means the quote was unavailable and the row falls back to its
// average cost with PriceStatusFallback. The fallback is designed
// degraded-mode behavior and never produces an error.
//
// Row computation per position:
//   - invested      = netQuantity * averageCost
//   - currentValue  = netQuantity * lastPrice
//   - unrealizedPl  = currentValue - invested
//   - pctChange     = (lastPrice - averageCost) / averageCost * 100,
//     0 when averageCost is 0
//
// Rows are sorted by current value descending; ties keep the original
// position order (stable sort), so output is deterministic. Allocation
// percentages are assigned in a second pass once the total value is known;
// when the total is 0 every row's allocation is 0.
func (s *ValuationService) Valuate(positions []model.Position, prices map[string]float64) ([]model.ValuationRow, model.PortfolioTotals) {
	rows := make([]model.ValuationRow, 0, len(positions))

	for _, p := range positions {
		lastPrice, ok := prices[p.Ticker]
		status := model.PriceStatusLive
		if !ok || lastPrice <= 0 {
			lastPrice = p.AverageCost
			status = model.PriceStatusFallback
		}

		invested := p.NetQuantity * p.AverageCost
		currentValue := p.NetQuantity * lastPrice

		pctChange := 0.0
		if p.AverageCost != 0 {
			pctChange = (lastPrice - p.AverageCost) / p.AverageCost * 100
		}

		rows = append(rows, model.ValuationRow{
			Ticker:       p.Ticker,
			NetQuantity:  p.NetQuantity,
			AverageCost:  p.AverageCost,
			LastPrice:    lastPrice,
			Invested:     invested,
			CurrentValue: currentValue,
			UnrealizedPL: currentValue - invested,
			PctChange:    pctChange,
			PriceStatus:  status,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CurrentValue > rows[j].CurrentValue
	})

	var totals model.PortfolioTotals
	for _, row := range rows {
		totals.TotalInvested += row.Invested
		totals.TotalValue += row.CurrentValue
	}

	for i := range rows {
		if totals.TotalValue > 0 {
			rows[i].AllocationPct = rows[i].CurrentValue / totals.TotalValue * 100
		}
	}

	if totals.TotalInvested != 0 {
		totals.TotalReturnPct = (totals.TotalValue - totals.TotalInvested) / totals.TotalInvested * 100
	}

	return rows, totals
}

// BenchmarkChange computes the open-to-latest percentage change of a
// benchmark index series. The first point's open anchors the comparison,
// falling back to its close when the open is missing.
//
// Returns (0, false) when the series is empty or the anchor is not
// positive; an unavailable benchmark never blocks the rest of the
// dashboard.
func (s *ValuationService) BenchmarkChange(series []quote.Indicators) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}

	open := series[0].PriceOpen
	if open <= 0 {
		open = series[0].PriceClose
	}
	if open <= 0 {
		return 0, false
	}

	latest := series[len(series)-1].PriceClose
	return (latest - open) / open * 100, true
}
