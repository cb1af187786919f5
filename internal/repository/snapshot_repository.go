package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/growwtrack/portfolio-tracker-backend/internal/apperrors"
	"github.com/growwtrack/portfolio-tracker-backend/internal/model"
)

// SnapshotRepository provides data access methods for the valuation_snapshot
// and valuation_row tables. Each refresh cycle stores one snapshot; the API
// serves the latest one without waiting for a fresh computation.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided
// database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save persists a snapshot and its rows in a single transaction.
// Older snapshots are pruned so the table holds only the most recent ones;
// a new snapshot supersedes the prior result, no cross-cycle state is kept.
func (r *SnapshotRepository) Save(snapshot model.Snapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.Exec(`
		INSERT INTO valuation_snapshot (
			id, refreshed_at, market_open, market_status, degraded,
			bad_quantity_rows, bad_price_rows,
			total_invested, total_value, total_return_pct,
			benchmark_change_pct, benchmark_available
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snapshot.ID,
		snapshot.RefreshedAt.UTC(),
		snapshot.MarketOpen,
		snapshot.MarketStatus,
		snapshot.Degraded,
		snapshot.Warnings.BadQuantity,
		snapshot.Warnings.BadPrice,
		snapshot.Totals.TotalInvested,
		snapshot.Totals.TotalValue,
		snapshot.Totals.TotalReturnPct,
		snapshot.Totals.BenchmarkChangePct,
		snapshot.Totals.BenchmarkAvailable,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	for i, row := range snapshot.Rows {
		_, err = tx.Exec(`
			INSERT INTO valuation_row (
				id, snapshot_id, position, ticker, net_quantity, average_cost,
				last_price, invested, current_value, unrealized_pl,
				pct_change, allocation_pct, price_status
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(),
			snapshot.ID,
			i,
			row.Ticker,
			row.NetQuantity,
			row.AverageCost,
			row.LastPrice,
			row.Invested,
			row.CurrentValue,
			row.UnrealizedPL,
			row.PctChange,
			row.AllocationPct,
			string(row.PriceStatus),
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot row: %w", err)
		}
	}

	// Keep the most recent snapshots only; rows cascade.
	_, err = tx.Exec(`
		DELETE FROM valuation_snapshot
		WHERE id NOT IN (
			SELECT id FROM valuation_snapshot
			ORDER BY refreshed_at DESC
			LIMIT 10
		)`)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// GetLatest returns the most recently stored snapshot with its rows in
// their original order. Returns apperrors.ErrSnapshotNotFound when no
// refresh cycle has completed yet.
func (r *SnapshotRepository) GetLatest() (model.Snapshot, error) {
	var (
		snapshot    model.Snapshot
		refreshedAt time.Time
	)

	err := r.db.QueryRow(`
		SELECT id, refreshed_at, market_open, market_status, degraded,
		       bad_quantity_rows, bad_price_rows,
		       total_invested, total_value, total_return_pct,
		       benchmark_change_pct, benchmark_available
		FROM valuation_snapshot
		ORDER BY refreshed_at DESC
		LIMIT 1`).Scan(
		&snapshot.ID,
		&refreshedAt,
		&snapshot.MarketOpen,
		&snapshot.MarketStatus,
		&snapshot.Degraded,
		&snapshot.Warnings.BadQuantity,
		&snapshot.Warnings.BadPrice,
		&snapshot.Totals.TotalInvested,
		&snapshot.Totals.TotalValue,
		&snapshot.Totals.TotalReturnPct,
		&snapshot.Totals.BenchmarkChangePct,
		&snapshot.Totals.BenchmarkAvailable,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, apperrors.ErrSnapshotNotFound
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to query snapshot: %w", err)
	}
	snapshot.RefreshedAt = refreshedAt.UTC()

	rows, err := r.db.Query(`
		SELECT ticker, net_quantity, average_cost, last_price, invested,
		       current_value, unrealized_pl, pct_change, allocation_pct, price_status
		FROM valuation_row
		WHERE snapshot_id = ?
		ORDER BY position ASC`, snapshot.ID)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to query snapshot rows: %w", err)
	}
	defer rows.Close()

	snapshot.Rows = []model.ValuationRow{}
	for rows.Next() {
		var (
			row    model.ValuationRow
			status string
		)
		err := rows.Scan(
			&row.Ticker,
			&row.NetQuantity,
			&row.AverageCost,
			&row.LastPrice,
			&row.Invested,
			&row.CurrentValue,
			&row.UnrealizedPL,
			&row.PctChange,
			&row.AllocationPct,
			&status,
		)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		row.PriceStatus = model.PriceStatus(status)
		snapshot.Rows = append(snapshot.Rows, row)
	}
	if err = rows.Err(); err != nil {
		return model.Snapshot{}, fmt.Errorf("error iterating snapshot rows: %w", err)
	}

	return snapshot, nil
}
