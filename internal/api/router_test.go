package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/valuepulse/internal/domain/dto"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &mockEvalService{run: okRun("AAPL")}
	r := NewRouter(NewHandler(svc), DefaultRouterOptions)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evaluate?tickers=AAPL", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	var out dto.EvaluateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if len(out.Evaluations) != 1 || out.Evaluations[0].Ticker != "AAPL" {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestNewRouter_RoutesRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockEvalService{}), DefaultRouterOptions)

	want := map[string]bool{
		"GET /api/v1/evaluate":                 false,
		"POST /api/v1/evaluate":                false,
		"GET /api/v1/tickers/:ticker/sections": false,
		"POST /api/v1/tickers/validate":        false,
		"GET /api/v1/watchlist":                false,
		"GET /api/v1/ratelimit":                false,
		"GET /api/v1/history/:ticker":          false,
		"GET /swagger/*any":                    false,
	}
	for _, route := range r.Routes() {
		key := route.Method + " " + route.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Fatalf("route %s not registered", k)
		}
	}
}

func TestNewRouter_InboundRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	opts := DefaultRouterOptions
	opts.RateLimitRPS = 0.001
	opts.RateLimitBurst = 1
	r := NewRouter(NewHandler(&mockEvalService{}), opts)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ratelimit", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}
}
