package app

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/guttosm/valuepulse/config"
	"github.com/guttosm/valuepulse/internal/domain/dto"
	"github.com/guttosm/valuepulse/internal/domain/models"
)

// smokeConfig returns an offline configuration: canned data, no network.
func smokeConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Server:    config.ServerConfig{Port: "0", RequestTimeout: 5 * time.Second, RateLimitRPS: 100, RateLimitBurst: 100},
		Cache:     config.CacheConfig{FastTTL: time.Minute, SlowTTL: time.Hour},
		Yahoo:     config.YahooConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second, RequestsPerSecond: 1},
		Fetch:     config.FetchConfig{Parallel: 2},
		Watchlist: config.WatchlistConfig{Path: filepath.Join(t.TempDir(), "missing.txt")},
		Smoke:     true,
	}
}

func withConfig(t *testing.T, cfg config.Config) {
	t.Helper()
	old := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = old })
}

// TestInitPostgres_InvalidHost expects ping failure.
func TestInitPostgres_InvalidHost(t *testing.T) {
	cfg := config.Config{Postgres: config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     54329, // unlikely mapped
		User:     "x",
		Password: "y",
		DBName:   "z",
		SSLMode:  "disable",
	}}
	db, err := InitPostgres(cfg)
	if err == nil {
		_ = db.Close()
		t.Fatalf("expected error connecting to invalid DB")
	}
}

func TestBuildCore_HistoryDisabledNeverOpensDB(t *testing.T) {
	old := postgresOpener
	postgresOpener = func(config.Config) (*sql.DB, error) {
		t.Fatal("postgres must not be opened")
		return nil, nil
	}
	t.Cleanup(func() { postgresOpener = old })

	core, cleanup, err := BuildCore(smokeConfig(t))
	if err != nil {
		t.Fatalf("BuildCore: %v", err)
	}
	defer cleanup()
	if core.DB != nil || core.History.Enabled() {
		t.Fatalf("history should be disabled")
	}
	if !core.Fetcher.Cache().Disabled() {
		t.Fatalf("smoke mode must disable the cache")
	}
}

// TestInitializeApp_DBFailure ensures InitializeApp returns error when DB cannot connect.
func TestInitializeApp_DBFailure(t *testing.T) {
	cfg := smokeConfig(t)
	cfg.History.Enabled = true
	withConfig(t, cfg)

	old := postgresOpener
	postgresOpener = func(config.Config) (*sql.DB, error) { return nil, errors.New("connection refused") }
	t.Cleanup(func() { postgresOpener = old })

	r, cleanup, err := InitializeApp()
	if err == nil || r != nil || cleanup != nil {
		if cleanup != nil {
			cleanup()
		}
		t.Fatalf("expected error from InitializeApp with unreachable DB")
	}
}

func TestInitializeApp_MigrationFailureClosesDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	mock.ExpectClose()

	cfg := smokeConfig(t)
	cfg.History.Enabled = true
	cfg.History.AutoMigrate = true
	withConfig(t, cfg)

	oldOpen, oldMigrate := postgresOpener, migrator
	postgresOpener = func(config.Config) (*sql.DB, error) { return db, nil }
	migrator = func(*sql.DB) error { return errors.New("bad migration") }
	t.Cleanup(func() { postgresOpener, migrator = oldOpen, oldMigrate })

	if _, _, err := InitializeApp(); err == nil {
		t.Fatalf("expected migration error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitializeApp_HappyPath(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	mock.ExpectPing()
	mock.ExpectClose()

	cfg := smokeConfig(t)
	cfg.History.Enabled = true
	cfg.History.AutoMigrate = true
	withConfig(t, cfg)

	migrated := false
	oldOpen, oldMigrate := postgresOpener, migrator
	postgresOpener = func(config.Config) (*sql.DB, error) { return db, nil }
	migrator = func(*sql.DB) error { migrated = true; return nil }
	t.Cleanup(func() { postgresOpener, migrator = oldOpen, oldMigrate })

	router, cleanup, err := InitializeApp()
	if err != nil || router == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: %v", err)
	}
	if !migrated {
		t.Fatalf("migrations not applied")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("readyz status=%d body=%s", w.Code, w.Body.String())
	}

	cleanup()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitializeApp_SmokeEvaluate(t *testing.T) {
	withConfig(t, smokeConfig(t))

	router, cleanup, err := InitializeApp()
	if err != nil {
		t.Fatalf("InitializeApp: %v", err)
	}
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", bytes.NewBufferString(`{"tickers":["aapl","msft"]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("evaluate status=%d body=%s", w.Code, w.Body.String())
	}

	var out dto.EvaluateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(out.Evaluations) != 2 || out.Failures != 0 {
		t.Fatalf("unexpected response: %+v", out)
	}
	for _, ev := range out.Evaluations {
		if ev.Status != models.StatusOK || ev.Score == nil {
			t.Fatalf("unexpected evaluation: %+v", ev)
		}
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/history/AAPL", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("history without postgres should be 404, got %d", w.Code)
	}
}

func TestInitializeApp_WarmupSchedule(t *testing.T) {
	cfg := smokeConfig(t)
	cfg.Smoke = false
	cfg.Watchlist.RefreshCron = "@every 1h"
	withConfig(t, cfg)

	router, cleanup, err := InitializeApp()
	if err != nil || router == nil {
		t.Fatalf("InitializeApp: %v", err)
	}
	cleanup()

	cfg.Watchlist.RefreshCron = "every now and then"
	withConfig(t, cfg)
	if _, _, err := InitializeApp(); err == nil {
		t.Fatalf("expected invalid cron error")
	}
}
