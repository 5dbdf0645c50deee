package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/valuepulse/internal/domain/models"
	"github.com/guttosm/valuepulse/internal/provider/yahoo"
)

// newBatchServer serves every quoteSummary module as {"x": 1} except for the
// symbols listed in failing, which get a 500.
func newBatchServer(t *testing.T, failing ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var summaries atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/test/getcrumb", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("crumb"))
	})
	mux.HandleFunc("/v10/finance/quoteSummary/", func(w http.ResponseWriter, r *http.Request) {
		summaries.Add(1)
		symbol := strings.TrimPrefix(r.URL.Path, "/v10/finance/quoteSummary/")
		for _, s := range failing {
			if s == symbol {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Internal","description":"backend failure"}}}`))
				return
			}
		}
		time.Sleep(2 * time.Millisecond)
		fmt.Fprintf(w, `{"quoteSummary":{"result":[{%q:{"x":{"raw":1,"fmt":"1"}}}],"error":null}}`, r.URL.Query().Get("modules"))
	})
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &summaries
}

func newYahooFetcher(t *testing.T, srv *httptest.Server, now *time.Time) *Fetcher {
	t.Helper()
	factory, err := yahoo.NewFactory(
		yahoo.WithBaseURL(srv.URL),
		yahoo.WithCookieURL(""),
		yahoo.WithRequestsPerSecond(1000),
	)
	require.NoError(t, err)
	return newFetcher(factory, now, Options{})
}

func TestFetch_SharedBatchIsolatesSymbolFailure(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	srv, summaries := newBatchServer(t, "BRK")
	f := newYahooFetcher(t, srv, &now)

	shared := f.SharedClient([]string{"AAPL", "BRK", "MSFT", "GOOG"})
	require.NotNil(t, shared)

	for _, ticker := range []string{"AAPL", "MSFT", "GOOG"} {
		b := f.Fetch(context.Background(), ticker, shared)
		assert.Nil(t, b.Error, ticker)
		for _, name := range models.CoreSections {
			assert.Equal(t, 1.0, b.Section(name)["x"], "%s %s", ticker, name)
		}
	}

	brk := f.Fetch(context.Background(), "BRK", shared)
	require.NotNil(t, brk.Error)
	assert.Equal(t, http.StatusInternalServerError, brk.Error.StatusCode)
	assert.Equal(t, models.CoreSections[0], brk.Error.Section)
	assert.Contains(t, brk.Error.Message, "backend failure")
	assert.Nil(t, brk.Error.RateLimit)
	assert.False(t, brk.HasData())
	_, cached := f.Cache().Section("BRK", models.SectionPrice)
	assert.False(t, cached, "failed symbol is not cached")
	assert.Nil(t, f.Tracker().Active(), "a 500 is not a throttle")

	assert.Equal(t, int32(len(models.CoreSections)*4), summaries.Load(), "one request per symbol per section")
}

func TestFetch_ConcurrentFetchersShareBatch(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	srv, summaries := newBatchServer(t)
	f := newYahooFetcher(t, srv, &now)

	symbols := []string{"A", "B", "C", "D"}
	shared := f.SharedClient(symbols)
	require.NotNil(t, shared)

	var wg sync.WaitGroup
	bundles := make([]models.Bundle, len(symbols))
	for i, s := range symbols {
		wg.Add(1)
		go func(i int, s string) {
			defer wg.Done()
			bundles[i] = f.Fetch(context.Background(), s, shared)
		}(i, s)
	}
	wg.Wait()

	for i, b := range bundles {
		assert.Nil(t, b.Error, symbols[i])
		assert.Equal(t, 1.0, b.Section(models.SectionPrice)["x"], symbols[i])
	}
	assert.Equal(t, int32(len(models.CoreSections)*len(symbols)), summaries.Load())
}
