package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/growwtrack/portfolio-tracker-backend/internal/quote"
)

// MockQuoteClient is a mock implementation of quote.Client for testing.
// It returns predefined test data instead of making actual API calls.
// The refresh service fans quote requests out across goroutines, so the
// query methods synchronize on an internal mutex; read the counters only
// after the calls under test have completed.
type MockQuoteClient struct {
	mu sync.Mutex

	// Prices maps symbol to the price returned by LatestQuote
	Prices map[string]float64
	// Charts maps symbol to the chart returned by MonthlySeries
	Charts map[string]quote.PriceChart
	// MockError is the error returned by both query methods when set
	MockError error
	// QuoteCalls tracks how many times LatestQuote was called
	QuoteCalls int
	// SeriesCalls tracks how many times MonthlySeries was called
	SeriesCalls int
}

// NewMockQuoteClient creates a new mock quote client with no preset data.
// Symbols without a configured price or chart report quote failures, which
// exercises the degraded paths.
func NewMockQuoteClient() *MockQuoteClient {
	return &MockQuoteClient{
		Prices: make(map[string]float64),
		Charts: make(map[string]quote.PriceChart),
	}
}

// LatestQuote returns the configured price for the symbol.
// Unknown symbols (and any symbol when MockError is set) report an error.
func (m *MockQuoteClient) LatestQuote(_ context.Context, symbol string, _ quote.Granularity) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QuoteCalls++
	if m.MockError != nil {
		return 0, m.MockError
	}
	price, ok := m.Prices[symbol]
	if !ok {
		return 0, errUnknownSymbol(symbol)
	}
	return price, nil
}

// MonthlySeries returns the configured chart for the symbol.
// Unknown symbols (and any symbol when MockError is set) report an error.
func (m *MockQuoteClient) MonthlySeries(_ context.Context, symbol string) (quote.PriceChart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SeriesCalls++
	if m.MockError != nil {
		return quote.PriceChart{}, m.MockError
	}
	chart, ok := m.Charts[symbol]
	if !ok {
		return quote.PriceChart{}, errUnknownSymbol(symbol)
	}
	return chart, nil
}

// WithPrice configures the price returned for a symbol.
func (m *MockQuoteClient) WithPrice(symbol string, price float64) *MockQuoteClient {
	m.Prices[symbol] = price
	return m
}

// WithChart configures the chart returned for a symbol.
func (m *MockQuoteClient) WithChart(symbol string, chart quote.PriceChart) *MockQuoteClient {
	m.Charts[symbol] = chart
	return m
}

// WithError configures the mock to return the specified error from every
// query method.
func (m *MockQuoteClient) WithError(err error) *MockQuoteClient {
	m.MockError = err
	return m
}

type errUnknownSymbol string

func (e errUnknownSymbol) Error() string {
	return "no mock data for symbol " + string(e)
}

// CreateMockChart creates a price chart with `days` daily points ending
// yesterday. Prices ramp up from basePrice so open-to-latest comparisons
// have a known positive change.
func CreateMockChart(symbol string, days int, basePrice float64) quote.PriceChart {
	now := time.Now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)

	indicators := make([]quote.Indicators, days)
	for i := 0; i < days; i++ {
		dayPrice := basePrice + float64(i)*0.5
		indicators[i] = quote.Indicators{
			Date:       yesterday.AddDate(0, 0, -days+i+1),
			PriceOpen:  dayPrice,
			PriceClose: dayPrice + 0.25,
			Volume:     int64(1000000 + i*10000),
		}
	}

	return quote.PriceChart{
		Symbol:     symbol,
		Currency:   "INR",
		Indicators: indicators,
	}
}

// CreateMockChartResponse creates a raw chart API response with `days` daily
// points, suitable for exercising the response parser. Prices follow the
// same ramp as CreateMockChart.
func CreateMockChartResponse(symbol string, days int, basePrice float64) quote.Response {
	now := time.Now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)

	timestamps := make([]int64, days)
	opens := make([]*float64, days)
	closes := make([]*float64, days)
	volumes := make([]*int64, days)

	for i := 0; i < days; i++ {
		timestamps[i] = yesterday.AddDate(0, 0, -days+i+1).Unix()

		dayPrice := basePrice + float64(i)*0.5
		open := dayPrice
		closePrice := dayPrice + 0.25
		volume := int64(1000000 + i*10000)

		opens[i] = &open
		closes[i] = &closePrice
		volumes[i] = &volume
	}

	return quote.Response{
		Chart: quote.Chart{
			Result: []quote.Result{
				{
					Meta: quote.Meta{
						Symbol:       symbol,
						Currency:     "INR",
						ExchangeName: "NSI",
					},
					Timestamp: timestamps,
					Indicators: quote.IndicatorsContainer{
						Quote: []quote.Quote{
							{
								Open:   opens,
								Close:  closes,
								Volume: volumes,
							},
						},
					},
				},
			},
			Error: nil,
		},
	}
}
