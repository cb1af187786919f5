package repository_test

import (
	"errors"
	"testing"

	"github.com/growwtrack/portfolio-tracker-backend/internal/apperrors"
	"github.com/growwtrack/portfolio-tracker-backend/internal/repository"
	"github.com/growwtrack/portfolio-tracker-backend/internal/testutil"
)

// TestSettingsRepository tests key-value setting storage.
func TestSettingsRepository(t *testing.T) {
	t.Run("round-trips a setting", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSettingsRepository(db)

		if err := repo.Set("theme", "dark"); err != nil {
			t.Fatalf("Set() returned unexpected error: %v", err)
		}

		value, err := repo.Get("theme")
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if value != "dark" {
			t.Errorf("Expected %q, got %q", "dark", value)
		}
	})

	t.Run("replaces the value on repeated sets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSettingsRepository(db)

		if err := repo.Set(repository.SettingMarketToken, "first"); err != nil {
			t.Fatalf("Set() returned unexpected error: %v", err)
		}
		if err := repo.Set(repository.SettingMarketToken, "second"); err != nil {
			t.Fatalf("Set() returned unexpected error: %v", err)
		}

		value, err := repo.Get(repository.SettingMarketToken)
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if value != "second" {
			t.Errorf("Expected the replaced value, got %q", value)
		}

		// The upsert must not leave duplicate keys behind.
		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM system_setting WHERE "key" = ?`,
			repository.SettingMarketToken).Scan(&count); err != nil {
			t.Fatalf("Failed to count settings: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 row for the key, got %d", count)
		}
	})

	t.Run("returns ErrSettingNotFound for a missing key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSettingsRepository(db)

		if _, err := repo.Get("missing"); !errors.Is(err, apperrors.ErrSettingNotFound) {
			t.Errorf("Expected ErrSettingNotFound, got %v", err)
		}
	})
}
