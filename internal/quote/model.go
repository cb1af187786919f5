package quote

import "time"

// Granularity is the price-fetch granularity hint derived from the market
// clock. During trading hours intraday quotes are requested first; outside
// them the previous daily close is authoritative.
type Granularity string

const (
	// GranularityIntraday requests minute-level data for the current session.
	GranularityIntraday Granularity = "intraday"

	// GranularityDailyClose requests the most recent daily closing price.
	GranularityDailyClose Granularity = "daily-close"
)

// Response represents the raw JSON response structure from the Yahoo Finance
// chart API. The structure includes:
//   - Chart.Result: Array of result objects (typically contains one element)
//   - Chart.Result[].Meta: Symbol metadata (name, currency, exchange)
//   - Chart.Result[].Timestamp: Unix timestamps for each data point
//   - Chart.Result[].Indicators: Price data arrays (open, close, high, low, volume)
//   - Chart.Error: Optional error message from the API
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top-level container of a chart API response.
type Chart struct {
	Result []Result `json:"result"`
	Error  *string  `json:"error"`
}

// Result holds metadata and price indicators for one symbol.
type Result struct {
	Meta       Meta                `json:"meta"`
	Timestamp  []int64             `json:"timestamp"`
	Indicators IndicatorsContainer `json:"indicators"`
}

// Meta carries symbol metadata returned alongside the price data.
type Meta struct {
	Currency         string `json:"currency"`
	Symbol           string `json:"symbol"`
	ExchangeName     string `json:"exchangeName"`
	FullExchangeName string `json:"fullExchangeName"`
	LongName         string `json:"longName"`
	Shortname        string `json:"shortName"`
}

// IndicatorsContainer wraps the quote arrays of a chart result.
type IndicatorsContainer struct {
	Quote []Quote `json:"quote"`
}

// Quote holds the raw OHLCV arrays. Entries are pointers because the API
// returns null for points with no trade (holidays, pre-open minutes).
type Quote struct {
	Open   []*float64 `json:"open"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
}

// PriceChart represents a parsed and structured price chart.
// This is the application's internal representation after parsing the raw
// Response; points with null closes have already been filtered out.
type PriceChart struct {
	Currency     string       `json:"currency"`
	Symbol       string       `json:"symbol"`
	ExchangeName string       `json:"exchangeName"`
	Indicators   []Indicators `json:"indicators"`
}

// Indicators represents a single data point of a price chart.
type Indicators struct {
	Date       time.Time
	PriceOpen  float64
	PriceClose float64
	Volume     int64
}

// LatestClose returns the most recent closing price in the chart.
// The second return value is false when the chart has no points.
func (c PriceChart) LatestClose() (float64, bool) {
	if len(c.Indicators) == 0 {
		return 0, false
	}
	return c.Indicators[len(c.Indicators)-1].PriceClose, true
}
