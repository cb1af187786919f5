package model

// Position represents the net holding in a single instrument after
// aggregating all valid Buy rows from the trade export.
// A Position only exists while NetQuantity is positive; instruments whose
// accumulated quantity ends up at or below zero are dropped.
type Position struct {
	Ticker      string  `json:"ticker"`
	NetQuantity float64 `json:"netQuantity"`
	AverageCost float64 `json:"averageCost"` // Quantity-weighted mean purchase price
}

// Holdings is the result of aggregating a trade export: the ordered set of
// positions (first-seen ticker order preserved), the per-row warning counts,
// and whether the default sample data was substituted because the source
// was missing or contained no valid rows.
type Holdings struct {
	Positions []Position  `json:"positions"`
	Warnings  RowWarnings `json:"warnings"`
	Degraded  bool        `json:"degraded"`
}

// Tickers returns the tickers of all positions in their original order.
func (h Holdings) Tickers() []string {
	tickers := make([]string, len(h.Positions))
	for i, p := range h.Positions {
		tickers[i] = p.Ticker
	}
	return tickers
}
