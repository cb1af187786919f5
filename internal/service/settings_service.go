package service

import (
	"fmt"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/growwtrack/portfolio-tracker-backend/internal/apperrors"
	"github.com/growwtrack/portfolio-tracker-backend/internal/repository"
)

// SettingsService manages system settings. The market data provider token
// is stored fernet-encrypted so the database file never holds it in plain
// text; the encryption key comes from configuration and never touches the
// database.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	key          *fernet.Key
}

// NewSettingsService creates a new SettingsService.
// tokenKey is the base64-encoded fernet key; it may be empty, in which case
// token storage and retrieval report apperrors.ErrMissingTokenKey.
func NewSettingsService(settingsRepo *repository.SettingsRepository, tokenKey string) (*SettingsService, error) {
	s := &SettingsService{settingsRepo: settingsRepo}

	if tokenKey != "" {
		key, err := fernet.DecodeKey(tokenKey)
		if err != nil {
			return nil, fmt.Errorf("invalid token encryption key: %w", err)
		}
		s.key = key
	}

	return s, nil
}

// SetMarketToken encrypts and stores the market data provider token.
func (s *SettingsService) SetMarketToken(token string) error {
	if s.key == nil {
		return apperrors.ErrMissingTokenKey
	}

	encrypted, err := fernet.EncryptAndSign([]byte(token), s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	return s.settingsRepo.Set(repository.SettingMarketToken, string(encrypted))
}

// MarketToken decrypts and returns the stored market data provider token.
// Returns apperrors.ErrSettingNotFound when no token has been stored and
// apperrors.ErrMissingTokenKey when no encryption key is configured.
func (s *SettingsService) MarketToken() (string, error) {
	if s.key == nil {
		return "", apperrors.ErrMissingTokenKey
	}

	stored, err := s.settingsRepo.Get(repository.SettingMarketToken)
	if err != nil {
		return "", err
	}

	// TTL 0 disables token expiry; rotation happens by overwriting.
	decrypted := fernet.VerifyAndDecrypt([]byte(stored), 0*time.Second, []*fernet.Key{s.key})
	if decrypted == nil {
		return "", fmt.Errorf("stored token failed verification")
	}

	return string(decrypted), nil
}
