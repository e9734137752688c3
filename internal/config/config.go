package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config captures all runtime configuration. Values come from an optional
// YAML file named by CONFIG_FILE, overridden by environment variables.
type Config struct {
	Port              string  `yaml:"port"`
	ReadTimeoutSecs   int     `yaml:"readTimeoutSecs"`
	WriteTimeoutSecs  int     `yaml:"writeTimeoutSecs"`
	IdleTimeoutSecs   int     `yaml:"idleTimeoutSecs"`
	LogLevel          string  `yaml:"logLevel"`
	StoreBackend      string  `yaml:"storeBackend"`
	DBURL             string  `yaml:"dbURL"`
	DBMaxConns        int     `yaml:"dbMaxConns"`
	DBMinConns        int     `yaml:"dbMinConns"`
	DBMaxIdleSecs     int     `yaml:"dbMaxConnIdleSecs"`
	DBMaxLifeSecs     int     `yaml:"dbMaxConnLifetimeSecs"`
	DBConnTimeoutSecs int     `yaml:"dbConnTimeoutSecs"`
	DBStatementCache  int     `yaml:"dbStatementCacheCapacity"`
	RateLimitRPS      float64 `yaml:"rateLimitRPS"`
	RateLimitBurst    int     `yaml:"rateLimitBurst"`
	TopRatedLimit     int     `yaml:"topRatedLimit"`
	JaegerURL         string  `yaml:"jaegerURL"`
}

func defaults() Config {
	return Config{
		Port:              "8080",
		ReadTimeoutSecs:   15,
		WriteTimeoutSecs:  15,
		IdleTimeoutSecs:   60,
		LogLevel:          "info",
		StoreBackend:      BackendMemory,
		DBMaxConns:        20,
		DBMinConns:        2,
		DBMaxIdleSecs:     300,
		DBMaxLifeSecs:     3600,
		DBConnTimeoutSecs: 10,
		DBStatementCache:  256,
		RateLimitRPS:      100,
		RateLimitBurst:    100,
		TopRatedLimit:     5,
	}
}

// Load reads configuration, applying defaults and validation.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		payload, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read CONFIG_FILE: %w", err)
		}
		if err := yaml.Unmarshal(payload, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse CONFIG_FILE: %w", err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.ReadTimeoutSecs = getEnvInt("SERVER_READ_TIMEOUT", cfg.ReadTimeoutSecs)
	cfg.WriteTimeoutSecs = getEnvInt("SERVER_WRITE_TIMEOUT", cfg.WriteTimeoutSecs)
	cfg.IdleTimeoutSecs = getEnvInt("SERVER_IDLE_TIMEOUT", cfg.IdleTimeoutSecs)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.StoreBackend = getEnv("STORE_BACKEND", cfg.StoreBackend)
	cfg.DBURL = getEnv("DB_URL", cfg.DBURL)
	cfg.DBMaxConns = getEnvInt("DB_MAX_CONNS", cfg.DBMaxConns)
	cfg.DBMinConns = getEnvInt("DB_MIN_CONNS", cfg.DBMinConns)
	cfg.DBMaxIdleSecs = getEnvInt("DB_MAX_CONN_IDLE_SECS", cfg.DBMaxIdleSecs)
	cfg.DBMaxLifeSecs = getEnvInt("DB_MAX_CONN_LIFETIME_SECS", cfg.DBMaxLifeSecs)
	cfg.DBConnTimeoutSecs = getEnvInt("DB_CONN_TIMEOUT_SECS", cfg.DBConnTimeoutSecs)
	cfg.DBStatementCache = getEnvInt("DB_STATEMENT_CACHE_CAPACITY", cfg.DBStatementCache)
	cfg.RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", cfg.RateLimitBurst)
	cfg.TopRatedLimit = getEnvInt("TOP_RATED_LIMIT", cfg.TopRatedLimit)
	cfg.JaegerURL = getEnv("TRACING_JAEGER_URL", cfg.JaegerURL)

	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required when STORE_BACKEND=postgres")
		}
	default:
		return Config{}, fmt.Errorf("STORE_BACKEND must be %q or %q", BackendMemory, BackendPostgres)
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	if cfg.RateLimitRPS < 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS must be non-negative")
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	if cfg.TopRatedLimit <= 0 {
		return Config{}, fmt.Errorf("TOP_RATED_LIMIT must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
