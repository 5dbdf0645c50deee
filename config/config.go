package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system.
//
// Example YAML/ENV equivalent:
//
//	SERVER_PORT=8080
//	HISTORY_ENABLED=true
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=valuepulse
//	CACHE_TTL_FAST_SECONDS=300
//	YAHOO_REQUESTS_PER_SECOND=2
//	WATCHLIST_PATH=watchlist.txt
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Postgres  PostgresConfig  // PostgreSQL connection settings (history only)
	History   HistoryConfig   // Evaluation history persistence
	Cache     CacheConfig     // Section cache
	RateLimit RateLimitConfig // Upstream cooldown defaults
	Yahoo     YahooConfig     // Quote provider client
	Fetch     FetchConfig     // Fetch pacing and fan-out
	Watchlist WatchlistConfig // Default tickers and warm-up schedule
	Smoke     bool            // Offline mode: canned data, no network, cache off
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port           string        // The TCP port the HTTP server will listen on (e.g., "8080")
	RequestTimeout time.Duration // Upper bound for a single API request
	RateLimitRPS   float64       // Per-client steady request rate
	RateLimitBurst int           // Per-client burst size
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// HistoryConfig toggles persistence of evaluation verdicts.
type HistoryConfig struct {
	Enabled     bool
	AutoMigrate bool // apply embedded goose migrations on startup
}

// CacheConfig controls the in-memory section cache.
type CacheConfig struct {
	Disabled bool
	FastTTL  time.Duration // price and summary detail
	SlowTTL  time.Duration // every other section and the buyback flag
}

// RateLimitConfig holds the cooldown applied when a throttle carries no hint.
type RateLimitConfig struct {
	DefaultRetryAfter time.Duration
}

// YahooConfig configures the Yahoo Finance client.
type YahooConfig struct {
	BaseURL           string
	CookieURL         string // empty skips cookie priming
	Timeout           time.Duration
	RequestsPerSecond float64
}

// FetchConfig paces network reads.
type FetchConfig struct {
	JitterMin time.Duration
	JitterMax time.Duration
	Parallel  int
}

// WatchlistConfig locates the default watchlist and its cache warm-up cron.
type WatchlistConfig struct {
	Path        string
	RefreshCron string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Smoke mode forces the cache off so canned data is never mixed with
// stale real data.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	setDefaults()

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			RequestTimeout: seconds("SERVER_REQUEST_TIMEOUT_SECONDS"),
			RateLimitRPS:   viper.GetFloat64("API_RATE_LIMIT_RPS"),
			RateLimitBurst: viper.GetInt("API_RATE_LIMIT_BURST"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		History: HistoryConfig{
			Enabled:     viper.GetBool("HISTORY_ENABLED"),
			AutoMigrate: viper.GetBool("HISTORY_AUTO_MIGRATE"),
		},
		Cache: CacheConfig{
			Disabled: viper.GetBool("DISABLE_CACHE"),
			FastTTL:  seconds("CACHE_TTL_FAST_SECONDS"),
			SlowTTL:  seconds("CACHE_TTL_SLOW_SECONDS"),
		},
		RateLimit: RateLimitConfig{
			DefaultRetryAfter: seconds("RATE_LIMIT_DEFAULT_RETRY_SECONDS"),
		},
		Yahoo: YahooConfig{
			BaseURL:           viper.GetString("YAHOO_BASE_URL"),
			CookieURL:         viper.GetString("YAHOO_COOKIE_URL"),
			Timeout:           seconds("YAHOO_TIMEOUT_SECONDS"),
			RequestsPerSecond: viper.GetFloat64("YAHOO_REQUESTS_PER_SECOND"),
		},
		Fetch: FetchConfig{
			JitterMin: millis("FETCH_JITTER_MIN_MS"),
			JitterMax: millis("FETCH_JITTER_MAX_MS"),
			Parallel:  viper.GetInt("FETCH_PARALLEL"),
		},
		Watchlist: WatchlistConfig{
			Path:        viper.GetString("WATCHLIST_PATH"),
			RefreshCron: viper.GetString("WATCHLIST_REFRESH_CRON"),
		},
		Smoke: viper.GetBool("SMOKE_TEST"),
	}
	if AppConfig.Smoke {
		AppConfig.Cache.Disabled = true
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_REQUEST_TIMEOUT_SECONDS", 120)
	viper.SetDefault("API_RATE_LIMIT_RPS", 1)
	viper.SetDefault("API_RATE_LIMIT_BURST", 60)

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "valuepulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("HISTORY_ENABLED", false)
	viper.SetDefault("HISTORY_AUTO_MIGRATE", true)

	viper.SetDefault("SMOKE_TEST", false)
	viper.SetDefault("DISABLE_CACHE", false)
	viper.SetDefault("CACHE_TTL_FAST_SECONDS", 300)
	viper.SetDefault("CACHE_TTL_SLOW_SECONDS", 21600)
	viper.SetDefault("RATE_LIMIT_DEFAULT_RETRY_SECONDS", 60)

	viper.SetDefault("YAHOO_BASE_URL", "https://query1.finance.yahoo.com")
	viper.SetDefault("YAHOO_COOKIE_URL", "https://fc.yahoo.com")
	viper.SetDefault("YAHOO_TIMEOUT_SECONDS", 30)
	viper.SetDefault("YAHOO_REQUESTS_PER_SECOND", 2)

	viper.SetDefault("FETCH_JITTER_MIN_MS", 50)
	viper.SetDefault("FETCH_JITTER_MAX_MS", 250)
	viper.SetDefault("FETCH_PARALLEL", 4)

	viper.SetDefault("WATCHLIST_PATH", "watchlist.txt")
	viper.SetDefault("WATCHLIST_REFRESH_CRON", "")
}

func seconds(key string) time.Duration {
	return time.Duration(viper.GetInt(key)) * time.Second
}

func millis(key string) time.Duration {
	return time.Duration(viper.GetInt(key)) * time.Millisecond
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Postgres settings are only required when history is enabled.
//   - If any are missing or invalid, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Server.RequestTimeout <= 0 {
		missing = append(missing, "SERVER_REQUEST_TIMEOUT_SECONDS")
	}
	if AppConfig.Server.RateLimitRPS <= 0 {
		missing = append(missing, "API_RATE_LIMIT_RPS")
	}
	if AppConfig.Server.RateLimitBurst < 1 {
		missing = append(missing, "API_RATE_LIMIT_BURST")
	}
	if AppConfig.Cache.FastTTL <= 0 {
		missing = append(missing, "CACHE_TTL_FAST_SECONDS")
	}
	if AppConfig.Cache.SlowTTL <= 0 {
		missing = append(missing, "CACHE_TTL_SLOW_SECONDS")
	}
	if AppConfig.RateLimit.DefaultRetryAfter <= 0 {
		missing = append(missing, "RATE_LIMIT_DEFAULT_RETRY_SECONDS")
	}
	if AppConfig.Yahoo.BaseURL == "" {
		missing = append(missing, "YAHOO_BASE_URL")
	}
	if AppConfig.Fetch.Parallel < 1 {
		missing = append(missing, "FETCH_PARALLEL")
	}
	if AppConfig.Fetch.JitterMax < AppConfig.Fetch.JitterMin {
		missing = append(missing, "FETCH_JITTER_MAX_MS")
	}

	if AppConfig.History.Enabled {
		if AppConfig.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if AppConfig.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if AppConfig.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if AppConfig.Postgres.Password == "" {
			missing = append(missing, "POSTGRES_PASSWORD")
		}
		if AppConfig.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	}

	if len(missing) > 0 {
		log.Fatalf("❌ Missing or invalid environment variables: %v\n", missing)
	}
}
