package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Loaded once at startup and passed by reference; never mutated afterwards.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (only required when the postgres market data provider is used)
	Database DatabaseConfig

	// Redis (optional bar-series cache)
	Redis RedisConfig

	// Market data
	MarketData MarketDataConfig

	// Backtest defaults
	Backtest BacktestConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// MarketDataConfig holds market data provider configuration
type MarketDataConfig struct {
	Provider       string // "stooq" or "postgres"
	StooqBaseURL   string
	RequestsPerSec float64
	CacheTTL       time.Duration
	SyntheticSeed  int64 // 0 means time-seeded
}

// BacktestConfig holds backtest defaults and trading cost rates
type BacktestConfig struct {
	DefaultInitialCapital float64
	TransactionCost       float64 // commission rate per fill
	Slippage              float64 // execution price deviation rate
}

// Load reads configuration from environment variables.
// This is the only place that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		MarketData: MarketDataConfig{
			Provider:       getEnv("MARKET_DATA_PROVIDER", "stooq"),
			StooqBaseURL:   getEnv("STOOQ_BASE_URL", "https://stooq.com"),
			RequestsPerSec: getEnvAsFloat("MARKET_DATA_RPS", 5.0),
			CacheTTL:       getEnvAsDuration("MARKET_DATA_CACHE_TTL", "15m"),
			SyntheticSeed:  int64(getEnvAsInt("SYNTHETIC_SEED", 0)),
		},

		Backtest: BacktestConfig{
			DefaultInitialCapital: getEnvAsFloat("DEFAULT_INITIAL_CAPITAL", 100000.0),
			TransactionCost:       getEnvAsFloat("TRANSACTION_COST", 0.001),
			Slippage:              getEnvAsFloat("SLIPPAGE", 0.0005),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.MarketData.Provider {
	case "stooq":
		// No extra requirements.
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when MARKET_DATA_PROVIDER=postgres")
		}
	default:
		return fmt.Errorf("MARKET_DATA_PROVIDER must be one of: stooq, postgres")
	}

	if c.Backtest.DefaultInitialCapital <= 0 {
		return fmt.Errorf("DEFAULT_INITIAL_CAPITAL must be positive")
	}
	if c.Backtest.TransactionCost < 0 || c.Backtest.Slippage < 0 {
		return fmt.Errorf("TRANSACTION_COST and SLIPPAGE must be non-negative")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
