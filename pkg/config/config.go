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
// All environment variables are read through this package only.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External data sources
	NSE      NSEConfig
	Screener ScreenerConfig
	AMFI     AMFIConfig
	MCX      MCXConfig
	News     NewsConfig

	// Recommendation engine
	Engine EngineConfig

	// Data collection
	Collector CollectorConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// NSEConfig holds NSE source configuration. ArchivesURL serves the listed
// equity CSV; APIURL serves per-symbol price history.
type NSEConfig struct {
	ArchivesURL string
	APIURL      string
}

// ScreenerConfig holds screener.in scraping configuration.
type ScreenerConfig struct {
	BaseURL string
}

// AMFIConfig holds AMFI mutual fund NAV feed configuration.
type AMFIConfig struct {
	NAVURL string
}

// MCXConfig holds commodity quote source configuration.
type MCXConfig struct {
	BaseURL string
}

// NewsConfig holds market news source configuration (sentiment input).
type NewsConfig struct {
	BaseURL string
}

// EngineConfig holds recommendation engine tuning constants.
// The stock normalization constants are empirically calibrated; they live in
// configuration so calibration never touches scoring logic.
type EngineConfig struct {
	StockMaxScore   float64 // normalization ceiling for stock scores
	StockMinScore   float64 // normalization floor for stock scores
	StockScoreBoost float64 // post-normalization boost factor
	FundamentalTopN int     // stocks surviving the fundamental phase
	StockTopN       int     // final stock recommendations
	MutualFundTopN  int     // final mutual fund recommendations
	CommodityTopN   int     // final commodity recommendations
	SIPTopN         int     // final SIP recommendations
}

// CollectorConfig holds data collection configuration.
type CollectorConfig struct {
	Workers     int
	MaxStocks   int // per-symbol crawl cap; 0 means no cap
	SnapshotTTL time.Duration
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "finzo"),
			User:            getEnv("DB_USER", "finzo"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// External data sources
		NSE: NSEConfig{
			ArchivesURL: getEnv("NSE_ARCHIVES_URL", "https://archives.nseindia.com"),
			APIURL:      getEnv("NSE_API_URL", "https://www.nseindia.com/api"),
		},
		Screener: ScreenerConfig{
			BaseURL: getEnv("SCREENER_BASE_URL", "https://www.screener.in"),
		},
		AMFI: AMFIConfig{
			NAVURL: getEnv("AMFI_NAV_URL", "https://www.amfiindia.com/spages/NAVAll.txt"),
		},
		MCX: MCXConfig{
			BaseURL: getEnv("MCX_BASE_URL", "https://economictimes.indiatimes.com/commoditysummary"),
		},
		News: NewsConfig{
			BaseURL: getEnv("NEWS_BASE_URL", "https://economictimes.indiatimes.com/markets"),
		},

		// Recommendation engine
		Engine: EngineConfig{
			StockMaxScore:   getEnvAsFloat("ENGINE_STOCK_MAX_SCORE", 25),
			StockMinScore:   getEnvAsFloat("ENGINE_STOCK_MIN_SCORE", -3),
			StockScoreBoost: getEnvAsFloat("ENGINE_STOCK_BOOST", 1.15),
			FundamentalTopN: getEnvAsInt("ENGINE_FUNDAMENTAL_TOP_N", 25),
			StockTopN:       getEnvAsInt("ENGINE_STOCK_TOP_N", 8),
			MutualFundTopN:  getEnvAsInt("ENGINE_FUND_TOP_N", 7),
			CommodityTopN:   getEnvAsInt("ENGINE_COMMODITY_TOP_N", 3),
			SIPTopN:         getEnvAsInt("ENGINE_SIP_TOP_N", 5),
		},

		// Data collection
		Collector: CollectorConfig{
			Workers:     getEnvAsInt("COLLECTOR_WORKERS", 8),
			MaxStocks:   getEnvAsInt("COLLECTOR_MAX_STOCKS", 50),
			SnapshotTTL: getEnvAsDuration("COLLECTOR_SNAPSHOT_TTL", "30m"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Collector.Workers < 1 {
		return fmt.Errorf("COLLECTOR_WORKERS must be at least 1")
	}

	if c.Engine.StockMaxScore <= c.Engine.StockMinScore {
		return fmt.Errorf("ENGINE_STOCK_MAX_SCORE must be greater than ENGINE_STOCK_MIN_SCORE")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
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
