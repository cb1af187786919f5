package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/growwtrack/portfolio-tracker-backend/internal/apperrors"
)

// PriceCacheRepository provides data access methods for the price_cache
// table. The cache bounds quote-request volume under periodic polling;
// entries expire deterministically after their TTL and correctness never
// depends on a hit.
type PriceCacheRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewPriceCacheRepository creates a new PriceCacheRepository with the
// provided database connection.
func NewPriceCacheRepository(db *sql.DB) *PriceCacheRepository {
	return &PriceCacheRepository{db: db, now: time.Now}
}

// WithNow overrides the time source. Used by tests to control expiry.
func (r *PriceCacheRepository) WithNow(now func() time.Time) *PriceCacheRepository {
	r.now = now
	return r
}

// Get returns the cached price for a symbol if an unexpired entry exists.
// Returns apperrors.ErrCacheMiss for missing or expired entries.
func (r *PriceCacheRepository) Get(symbol string) (float64, error) {
	var price float64
	err := r.db.QueryRow(`
		SELECT price
		FROM price_cache
		WHERE symbol = ? AND expires_at > ?`,
		symbol, r.now().UTC()).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperrors.ErrCacheMiss
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query price cache: %w", err)
	}
	return price, nil
}

// Put stores a price for a symbol with the given TTL, replacing any
// previous entry.
func (r *PriceCacheRepository) Put(symbol string, price float64, ttl time.Duration) error {
	now := r.now().UTC()
	_, err := r.db.Exec(`
		INSERT INTO price_cache (symbol, price, fetched_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			price = excluded.price,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at`,
		symbol, price, now, now.Add(ttl))
	if err != nil {
		return fmt.Errorf("failed to store cached price: %w", err)
	}
	return nil
}

// PurgeExpired removes all expired cache entries.
// Called opportunistically by the refresh cycle so the table stays small.
func (r *PriceCacheRepository) PurgeExpired() error {
	_, err := r.db.Exec(`DELETE FROM price_cache WHERE expires_at <= ?`, r.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to purge price cache: %w", err)
	}
	return nil
}
