package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/growwtrack/portfolio-tracker-backend/internal/market"
	"github.com/growwtrack/portfolio-tracker-backend/internal/quote"
	"github.com/growwtrack/portfolio-tracker-backend/internal/repository"
	"github.com/growwtrack/portfolio-tracker-backend/internal/service"
	"github.com/growwtrack/portfolio-tracker-backend/internal/tradefile"
)

// NSE trading window used throughout the tests.
const (
	TestTimezone    = "Asia/Kolkata"
	TestOpenHour    = 9
	TestOpenMinute  = 15
	TestCloseHour   = 15
	TestCloseMinute = 30
)

// WriteTradeCSV writes CSV content to a temp file and returns its path.
// The file is removed automatically when the test completes.
func WriteTradeCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "holdings.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write trade CSV: %v", err)
	}
	return path
}

// NewTestClock creates a market clock for the NSE trading window with a
// fixed time source.
func NewTestClock(t *testing.T, now time.Time) *market.Clock {
	t.Helper()

	return market.NewClock(
		TestTimezone,
		TestOpenHour, TestOpenMinute,
		TestCloseHour, TestCloseMinute,
	).WithNow(func() time.Time { return now })
}

// NewTestHoldingsService creates a HoldingsService reading from a temp CSV
// file containing the given content.
func NewTestHoldingsService(t *testing.T, csvContent string) *service.HoldingsService {
	t.Helper()

	path := WriteTradeCSV(t, csvContent)
	return service.NewHoldingsService(tradefile.NewReader(path))
}

// NewTestRefreshService wires a RefreshService against an in-memory database,
// a mock quote client, and a fixed clock.
func NewTestRefreshService(
	t *testing.T,
	db *sql.DB,
	csvContent string,
	quoteClient quote.Client,
	now time.Time,
	benchmarkSymbol string,
) *service.RefreshService {
	t.Helper()

	return service.NewRefreshService(
		NewTestHoldingsService(t, csvContent),
		service.NewValuationService(),
		quoteClient,
		repository.NewPriceCacheRepository(db),
		repository.NewSnapshotRepository(db),
		NewTestClock(t, now),
		benchmarkSymbol,
		30*time.Second,
	)
}

// NewTestSettingsService creates a SettingsService against an in-memory
// database with the given fernet key (may be empty).
func NewTestSettingsService(t *testing.T, db *sql.DB, tokenKey string) *service.SettingsService {
	t.Helper()

	s, err := service.NewSettingsService(repository.NewSettingsRepository(db), tokenKey)
	if err != nil {
		t.Fatalf("Failed to create settings service: %v", err)
	}
	return s
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}
