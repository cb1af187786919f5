// Package market implements the trading-window clock used to pick the
// price-fetch granularity. The predicate is a pure function of the current
// time against a fixed weekday + time-of-day window; it is a hint to the
// market data client, never a branch in the valuation math.
package market

import (
	"time"

	"github.com/growwtrack/portfolio-tracker-backend/internal/quote"
)

// Status strings reported alongside each snapshot.
const (
	StatusOpen   = "Live Market"
	StatusClosed = "Market Closed - Last Close"
)

// Clock evaluates whether the market is inside its trading window.
// The zero-value window is invalid; use NewClock.
type Clock struct {
	location    *time.Location
	openMinute  int // minutes since midnight
	closeMinute int
	now         func() time.Time
}

// NewClock creates a Clock for the given trading window.
// The window is weekdays only (Monday through Friday), inclusive of both the
// opening and closing minute. An unknown timezone name falls back to UTC so
// a misconfigured deployment degrades instead of failing startup.
func NewClock(timezone string, openHour, openMinute, closeHour, closeMinute int) *Clock {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &Clock{
		location:    loc,
		openMinute:  openHour*60 + openMinute,
		closeMinute: closeHour*60 + closeMinute,
		now:         time.Now,
	}
}

// WithNow overrides the time source. Used by tests.
func (c *Clock) WithNow(now func() time.Time) *Clock {
	c.now = now
	return c
}

// IsOpen reports whether the market is currently inside its trading window.
func (c *Clock) IsOpen() bool {
	return c.IsOpenAt(c.now())
}

// IsOpenAt reports whether the market is inside its trading window at the
// given instant, evaluated in the market's timezone.
func (c *Clock) IsOpenAt(t time.Time) bool {
	local := t.In(c.location)

	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	minute := local.Hour()*60 + local.Minute()
	return minute >= c.openMinute && minute <= c.closeMinute
}

// Status returns the human-readable market status string for the current time.
func (c *Clock) Status() string {
	if c.IsOpen() {
		return StatusOpen
	}
	return StatusClosed
}

// Granularity returns the price-fetch granularity hint for the current time:
// intraday during trading hours, daily close otherwise.
func (c *Clock) Granularity() quote.Granularity {
	if c.IsOpen() {
		return quote.GranularityIntraday
	}
	return quote.GranularityDailyClose
}
