package model

// TradeRow represents a single row from a broker trade-export file.
// Numeric fields are kept as raw strings at this stage: rows are read
// leniently and validated during aggregation, so one malformed row can
// be counted and skipped instead of failing the whole import.
type TradeRow struct {
	Ticker   string `json:"ticker"`
	Type     string `json:"type"`
	Quantity string `json:"quantity"`
	AvgPrice string `json:"avgPrice"`
}

// Trade action types as they appear in the export file.
const (
	TradeTypeBuy  = "Buy"
	TradeTypeSell = "Sell"
)

// RowWarnings counts rows that were dropped during aggregation because
// a numeric field failed to parse. Surfaced to the caller as a warning
// signal, never as an error.
type RowWarnings struct {
	BadQuantity int `json:"badQuantity"`
	BadPrice    int `json:"badPrice"`
}

// Total returns the combined number of rows dropped for numeric issues.
func (w RowWarnings) Total() int {
	return w.BadQuantity + w.BadPrice
}
