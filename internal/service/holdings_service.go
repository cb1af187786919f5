package service

import (
	"log"
	"strconv"
	"strings"

	"github.com/growwtrack/portfolio-tracker-backend/internal/apperrors"
	"github.com/growwtrack/portfolio-tracker-backend/internal/model"
	"github.com/growwtrack/portfolio-tracker-backend/internal/tradefile"
)

// HoldingsService turns the broker trade export into net per-instrument
// holdings. It owns the aggregation rules: only Buy rows contribute, tickers
// are normalized, and malformed numeric fields are counted and skipped.
type HoldingsService struct {
	reader *tradefile.Reader
}

// NewHoldingsService creates a new HoldingsService reading from the
// provided trade file reader.
func NewHoldingsService(reader *tradefile.Reader) *HoldingsService {
	return &HoldingsService{reader: reader}
}

// LoadHoldings reads the trade export and aggregates it into positions.
// When the source is missing, unreadable, or yields no valid Buy rows, the
// documented default sample holding is substituted and the result is marked
// degraded; this method never fails, matching the rule that no refresh
// cycle terminates on a data source problem.
func (s *HoldingsService) LoadHoldings() model.Holdings {
	rows, err := s.reader.Read()
	if err != nil {
		log.Printf("trade source unavailable, using sample holdings: %v", err)
		return DefaultHoldings()
	}

	positions, warnings := Aggregate(rows)
	if len(positions) == 0 {
		log.Printf("no valid buy rows in trade source, using sample holdings: %v", apperrors.ErrNoValidRows)
		holdings := DefaultHoldings()
		holdings.Warnings = warnings
		return holdings
	}

	if warnings.Total() > 0 {
		log.Printf("trade source: skipped %d rows with bad quantity, %d with bad price",
			warnings.BadQuantity, warnings.BadPrice)
	}

	return model.Holdings{
		Positions: positions,
		Warnings:  warnings,
	}
}

// Aggregate folds trade rows into net positions.
//
// Rules:
//   - Only Buy rows contribute; Sell and unknown actions are skipped.
//     (Sell rows do not reduce quantity or cost basis; net quantity here is
//     the sum of recorded buys.)
//   - Tickers are normalized (trimmed, upper-cased) so one instrument never
//     splits into multiple keys over casing or whitespace differences.
//   - Rows whose quantity or price fail numeric parsing are dropped and
//     counted in the returned warnings, never treated as an error.
//   - For each instrument: average cost = accumulated cost / accumulated
//     quantity. Instruments whose accumulated quantity is not positive are
//     dropped silently.
//
// The returned positions keep first-seen ticker order, which later breaks
// ties in the valuation sort deterministically.
func Aggregate(rows []model.TradeRow) ([]model.Position, model.RowWarnings) {
	type accumulator struct {
		totalQuantity float64
		totalCost     float64
	}

	var (
		order    []string
		byTicker = make(map[string]*accumulator)
		warnings model.RowWarnings
	)

	for _, row := range rows {
		if !strings.EqualFold(strings.TrimSpace(row.Type), model.TradeTypeBuy) {
			continue
		}

		quantity, err := strconv.ParseFloat(strings.TrimSpace(row.Quantity), 64)
		if err != nil {
			warnings.BadQuantity++
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row.AvgPrice), 64)
		if err != nil {
			warnings.BadPrice++
			continue
		}

		ticker := NormalizeTicker(row.Ticker)
		if ticker == "" {
			continue
		}

		acc, seen := byTicker[ticker]
		if !seen {
			acc = &accumulator{}
			byTicker[ticker] = acc
			order = append(order, ticker)
		}
		acc.totalQuantity += quantity
		acc.totalCost += quantity * price
	}

	positions := make([]model.Position, 0, len(order))
	for _, ticker := range order {
		acc := byTicker[ticker]
		if acc.totalQuantity <= 0 {
			continue
		}
		positions = append(positions, model.Position{
			Ticker:      ticker,
			NetQuantity: acc.totalQuantity,
			AverageCost: acc.totalCost / acc.totalQuantity,
		})
	}

	return positions, warnings
}

// NormalizeTicker canonicalizes an instrument identifier: surrounding
// whitespace is trimmed and the symbol is upper-cased.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// DefaultHoldings returns the documented fallback holding set used when the
// trade export cannot be read: a single sample position, so the dashboard
// renders something meaningful instead of an empty page.
func DefaultHoldings() model.Holdings {
	return model.Holdings{
		Positions: []model.Position{
			{Ticker: "ADANIPOWER.NS", NetQuantity: 265, AverageCost: 104.26},
		},
		Degraded: true,
	}
}
