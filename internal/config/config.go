package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Trades   TradesConfig
	Market   MarketConfig
	Refresh  RefreshConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// TradesConfig holds the location of the broker trade export.
type TradesConfig struct {
	CSVPath string
}

// MarketConfig holds market data provider and trading window configuration.
// The trading window defaults to NSE hours (Mon-Fri, 09:15-15:30 IST).
type MarketConfig struct {
	BenchmarkSymbol string
	Timezone        string
	OpenHour        int
	OpenMinute      int
	CloseHour       int
	CloseMinute     int
	TokenKey        string // Base64 fernet key for encrypting the provider token; optional
}

// RefreshConfig controls the valuation refresh cadence and quote caching.
type RefreshConfig struct {
	IntervalSeconds int
	QuoteTTLSeconds int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Trades: TradesConfig{
			CSVPath: getEnv("HOLDINGS_CSV_PATH", "./holdings.csv"),
		},
		Market: MarketConfig{
			BenchmarkSymbol: getEnv("BENCHMARK_SYMBOL", "^NSEI"),
			Timezone:        getEnv("MARKET_TIMEZONE", "Asia/Kolkata"),
			OpenHour:        getEnvInt("MARKET_OPEN_HOUR", 9),
			OpenMinute:      getEnvInt("MARKET_OPEN_MINUTE", 15),
			CloseHour:       getEnvInt("MARKET_CLOSE_HOUR", 15),
			CloseMinute:     getEnvInt("MARKET_CLOSE_MINUTE", 30),
			TokenKey:        getEnv("MARKET_TOKEN_KEY", ""),
		},
		Refresh: RefreshConfig{
			IntervalSeconds: getEnvInt("REFRESH_INTERVAL_SECONDS", 30),
			QuoteTTLSeconds: getEnvInt("QUOTE_TTL_SECONDS", 30),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value.
// Non-numeric values fall back to the default rather than failing startup.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
