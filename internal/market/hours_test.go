package market_test

import (
	"testing"
	"time"

	"github.com/growwtrack/portfolio-tracker-backend/internal/market"
	"github.com/growwtrack/portfolio-tracker-backend/internal/quote"
)

func nseClock() *market.Clock {
	return market.NewClock("Asia/Kolkata", 9, 15, 15, 30)
}

// ist builds a time in the Asia/Kolkata timezone.
func ist(t *testing.T, year int, month time.Month, day, hour, minute int) time.Time {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("Failed to load timezone: %v", err)
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

// TestClock_IsOpenAt tests the trading-window predicate.
//
// WHY: The window picks the price-fetch granularity and the status string on
// every snapshot. Both boundary minutes are inclusive, weekends are always
// closed, and the evaluation must happen in the market's timezone, not the
// server's.
func TestClock_IsOpenAt(t *testing.T) {
	clock := nseClock()

	// 2024-01-10 is a Wednesday; 2024-01-13 a Saturday; 2024-01-14 a Sunday.
	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"mid-session weekday", ist(t, 2024, time.January, 10, 11, 0), true},
		{"opening minute inclusive", ist(t, 2024, time.January, 10, 9, 15), true},
		{"closing minute inclusive", ist(t, 2024, time.January, 10, 15, 30), true},
		{"minute before open", ist(t, 2024, time.January, 10, 9, 14), false},
		{"minute after close", ist(t, 2024, time.January, 10, 15, 31), false},
		{"saturday mid-session", ist(t, 2024, time.January, 13, 11, 0), false},
		{"sunday mid-session", ist(t, 2024, time.January, 14, 11, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := clock.IsOpenAt(tc.at); got != tc.want {
				t.Errorf("IsOpenAt(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}

	t.Run("evaluates instants in the market timezone", func(t *testing.T) {
		// 06:00 UTC on a Wednesday is 11:30 IST: inside the window even
		// though 06:00 would be outside it.
		at := time.Date(2024, time.January, 10, 6, 0, 0, 0, time.UTC)
		if !clock.IsOpenAt(at) {
			t.Error("Expected 06:00 UTC (11:30 IST) to be inside the window")
		}
	})

	t.Run("unknown timezone falls back to UTC", func(t *testing.T) {
		fallback := market.NewClock("Not/AZone", 9, 0, 17, 0)
		at := time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC)
		if !fallback.IsOpenAt(at) {
			t.Error("Expected the window to be evaluated in UTC")
		}
	})
}

// TestClock_Status tests the human-readable status strings.
func TestClock_Status(t *testing.T) {
	t.Run("reports live market during the window", func(t *testing.T) {
		clock := nseClock().WithNow(func() time.Time {
			return ist(t, 2024, time.January, 10, 11, 0)
		})
		if got := clock.Status(); got != market.StatusOpen {
			t.Errorf("Expected %q, got %q", market.StatusOpen, got)
		}
	})

	t.Run("reports last close outside the window", func(t *testing.T) {
		clock := nseClock().WithNow(func() time.Time {
			return ist(t, 2024, time.January, 13, 11, 0)
		})
		if got := clock.Status(); got != market.StatusClosed {
			t.Errorf("Expected %q, got %q", market.StatusClosed, got)
		}
	})
}

// TestClock_Granularity tests the granularity hint selection.
func TestClock_Granularity(t *testing.T) {
	t.Run("intraday during trading hours", func(t *testing.T) {
		clock := nseClock().WithNow(func() time.Time {
			return ist(t, 2024, time.January, 10, 11, 0)
		})
		if got := clock.Granularity(); got != quote.GranularityIntraday {
			t.Errorf("Expected intraday, got %q", got)
		}
	})

	t.Run("daily close outside trading hours", func(t *testing.T) {
		clock := nseClock().WithNow(func() time.Time {
			return ist(t, 2024, time.January, 10, 20, 0)
		})
		if got := clock.Granularity(); got != quote.GranularityDailyClose {
			t.Errorf("Expected daily close, got %q", got)
		}
	})
}
