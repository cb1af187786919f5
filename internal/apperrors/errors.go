package apperrors

import "errors"

// Data source errors represent problems reading the broker trade export.
// These are recovered locally by substituting the default sample holdings;
// they are surfaced to the user as a warning flag, never as a crash.
var (
	// ErrDataSource indicates the trade export file is missing, unreadable,
	// or contained no rows at all.
	ErrDataSource = errors.New("trade source unavailable")

	// ErrNoValidRows indicates the trade export was readable but no row
	// survived validation (no valid Buy rows).
	ErrNoValidRows = errors.New("no valid buy rows in trade source")

	// ErrInvalidCSVHeaders indicates the trade export is missing one of the
	// required columns (ticker, type, quantity, avg_price).
	ErrInvalidCSVHeaders = errors.New("invalid CSV headers")
)

// Market data errors represent per-instrument quote failures. All of them
// have a defined degraded-but-valid recovery path.
var (
	// ErrPriceUnavailable indicates no usable price could be obtained for an
	// instrument. Recovered by valuing the row at its average cost and
	// flagging it, never by failing the refresh cycle.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrBenchmarkUnavailable indicates the benchmark index series could not
	// be fetched. Recovered by omitting the benchmark metric.
	ErrBenchmarkUnavailable = errors.New("benchmark data unavailable")

	// ErrEmptySeries indicates a chart query returned no data points.
	ErrEmptySeries = errors.New("empty price series")
)

// Persistence errors represent missing records in the local store.
var (
	// ErrSnapshotNotFound indicates no valuation snapshot has been stored yet.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrSettingNotFound indicates a system setting key does not exist.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrCacheMiss indicates no unexpired cached price exists for a symbol.
	ErrCacheMiss = errors.New("price cache miss")
)

// Validation errors for request parameters and configuration.
var (
	// ErrInvalidSymbol indicates an empty or malformed ticker symbol.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrMissingTokenKey indicates the encryption key for the market data
	// token is not configured.
	ErrMissingTokenKey = errors.New("token encryption key not configured")
)
