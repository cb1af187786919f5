// Package export serializes valuation rows to a flat delimited format for
// download. Numeric fields are written unformatted (full float precision),
// independent of any display rounding in the presentation layer.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/growwtrack/portfolio-tracker-backend/internal/model"
)

// Header columns of the exported file, one row per instrument.
var header = []string{
	"ticker",
	"net_quantity",
	"average_cost",
	"last_price",
	"invested",
	"current_value",
	"unrealized_pl",
	"pct_change",
	"allocation_pct",
	"price_status",
}

// WriteCSV writes the valuation rows as CSV to w, preserving row order.
func WriteCSV(w io.Writer, rows []model.ValuationRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Ticker,
			formatFloat(row.NetQuantity),
			formatFloat(row.AverageCost),
			formatFloat(row.LastPrice),
			formatFloat(row.Invested),
			formatFloat(row.CurrentValue),
			formatFloat(row.UnrealizedPL),
			formatFloat(row.PctChange),
			formatFloat(row.AllocationPct),
			string(row.PriceStatus),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatFloat renders a float with the minimum digits that round-trip.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
