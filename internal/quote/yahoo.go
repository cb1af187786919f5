package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/growwtrack/portfolio-tracker-backend/internal/apperrors"
)

// Client defines the interface for fetching market data.
// This interface enables dependency injection and testing with mock
// implementations.
type Client interface {
	LatestQuote(ctx context.Context, symbol string, hint Granularity) (float64, error)
	MonthlySeries(ctx context.Context, symbol string) (PriceChart, error)
}

// chartQuery is one strategy in the ordered fallback chain: a range/interval
// pair to request from the chart API.
type chartQuery struct {
	Range    string
	Interval string
}

// Fallback chains per granularity hint. Intraday tries minute data for the
// current session first, then the last two daily closes. Daily-close skips
// straight to daily data.
var granularityChains = map[Granularity][]chartQuery{
	GranularityIntraday: {
		{Range: "1d", Interval: "1m"},
		{Range: "2d", Interval: "1d"},
	},
	GranularityDailyClose: {
		{Range: "2d", Interval: "1d"},
	},
}

// FinanceClient provides methods for fetching market data from the Yahoo
// Finance chart API. It wraps an HTTP client and an optional provider token.
// The token can be replaced at runtime; refresh cycles read it concurrently.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string

	mu    sync.RWMutex
	token string
}

// Option configures a FinanceClient.
type Option func(*FinanceClient)

// WithBaseURL overrides the chart API base URL. Used by tests to point the
// client at a local httptest server.
func WithBaseURL(baseURL string) Option {
	return func(c *FinanceClient) {
		c.baseURL = baseURL
	}
}

// WithToken attaches a provider API token to every request.
func WithToken(token string) Option {
	return func(c *FinanceClient) {
		c.token = token
	}
}

// NewFinanceClient creates a new market data client with default HTTP settings.
// A per-request timeout bounds each fetch so a slow provider degrades to the
// fallback price instead of stalling the refresh cycle.
func NewFinanceClient(opts ...Option) *FinanceClient {
	c := &FinanceClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://query1.finance.yahoo.com/v8/finance/chart",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the provider API token for all subsequent requests.
// Called when a new token is stored through the settings API, so the change
// takes effect without a restart.
func (c *FinanceClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// LatestQuote fetches the most recent price for a symbol, walking the
// granularity hint's fallback chain in order: each strategy is tried until
// one yields a usable close. When every strategy fails the caller receives
// ErrPriceUnavailable and is expected to fall back to the average cost.
//
// Returns:
//   - float64: The latest price, always > 0 on success
//   - error: ErrPriceUnavailable (wrapped) when no strategy produced a price
func (c *FinanceClient) LatestQuote(ctx context.Context, symbol string, hint Granularity) (float64, error) {
	if strings.TrimSpace(symbol) == "" {
		return 0, apperrors.ErrInvalidSymbol
	}

	chain, ok := granularityChains[hint]
	if !ok {
		chain = granularityChains[GranularityDailyClose]
	}

	var lastErr error
	for _, q := range chain {
		chart, err := c.queryChart(ctx, symbol, q)
		if err != nil {
			lastErr = err
			continue
		}
		if price, ok := chart.LatestClose(); ok && price > 0 {
			return price, nil
		}
		lastErr = apperrors.ErrEmptySeries
	}

	return 0, fmt.Errorf("%w for %s: %v", apperrors.ErrPriceUnavailable, symbol, lastErr)
}

// MonthlySeries fetches one month of daily closing prices for a symbol.
// Used for the trend chart and for the benchmark open-to-latest comparison.
func (c *FinanceClient) MonthlySeries(ctx context.Context, symbol string) (PriceChart, error) {
	if strings.TrimSpace(symbol) == "" {
		return PriceChart{}, apperrors.ErrInvalidSymbol
	}

	chart, err := c.queryChart(ctx, symbol, chartQuery{Range: "1mo", Interval: "1d"})
	if err != nil {
		return PriceChart{}, err
	}
	if len(chart.Indicators) == 0 {
		return PriceChart{}, fmt.Errorf("%w for %s", apperrors.ErrEmptySeries, symbol)
	}
	return chart, nil
}

// queryChart executes a single chart API request and parses the response.
// The method sets required headers:
//   - User-Agent: Mimics a browser to avoid API blocking
//   - Accept: Requests JSON response format
func (c *FinanceClient) queryChart(ctx context.Context, symbol string, q chartQuery) (PriceChart, error) {
	url := fmt.Sprintf("%s/%s?interval=%s&range=%s", c.baseURL, symbol, q.Interval, q.Range)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PriceChart{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PriceChart{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return PriceChart{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return PriceChart{}, err
	}

	if response.Chart.Error != nil {
		return PriceChart{}, fmt.Errorf("chart api error: %s", *response.Chart.Error)
	}
	if len(response.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no results for %s", apperrors.ErrEmptySeries, symbol)
	}

	return ParseChart(response)
}

// ParseChart converts a raw chart API response into a structured price chart.
// Points whose close price is null (no trade at that timestamp) are dropped;
// the remaining points keep their chronological order.
//
// Returns an error when timestamp and close arrays are missing or their
// lengths do not match.
func ParseChart(response Response) (PriceChart, error) {
	result := response.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("no price data returned")
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}
	if len(result.Indicators.Quote[0].Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	q := result.Indicators.Quote[0]
	indicators := make([]Indicators, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if q.Close[i] == nil {
			continue
		}
		ind := Indicators{
			Date:       time.Unix(ts, 0).UTC(),
			PriceClose: *q.Close[i],
		}
		if i < len(q.Open) && q.Open[i] != nil {
			ind.PriceOpen = *q.Open[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			ind.Volume = *q.Volume[i]
		}
		indicators = append(indicators, ind)
	}

	return PriceChart{
		Symbol:       result.Meta.Symbol,
		Currency:     result.Meta.Currency,
		ExchangeName: result.Meta.ExchangeName,
		Indicators:   indicators,
	}, nil
}
