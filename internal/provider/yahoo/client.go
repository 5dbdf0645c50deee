package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/guttosm/valuepulse/internal/domain/models"
	"github.com/guttosm/valuepulse/internal/provider"
	"github.com/guttosm/valuepulse/internal/ratelimit"
)

// moduleNames maps section names to quoteSummary modules.
var moduleNames = map[string]string{
	models.SectionSummaryDetail: "summaryDetail",
	models.SectionFinancialData: "financialData",
	models.SectionAssetProfile:  "assetProfile",
	models.SectionKeyStats:      "defaultKeyStatistics",
	models.SectionQuoteType:     "quoteType",
	models.SectionPrice:         "price",
}

const sharesSeriesType = "annualOrdinarySharesNumber"

var errMalformed = errors.New("malformed response")

// Factory builds clients sharing one Session.
type Factory struct {
	session *Session
}

// NewFactory creates a Factory with its own Session.
func NewFactory(opts ...Option) (*Factory, error) {
	s, err := NewSession(opts...)
	if err != nil {
		return nil, err
	}
	return &Factory{session: s}, nil
}

// NewClient returns a client for symbols.
func (f *Factory) NewClient(symbols []string) (provider.Client, error) {
	if len(symbols) == 0 {
		return nil, errors.New("yahoo: no symbols")
	}
	return &Client{
		session:  f.session,
		symbols:  append([]string(nil), symbols...),
		sections: make(map[string]provider.Keyed),
	}, nil
}

// Host returns the upstream host.
func (f *Factory) Host() string { return f.session.Host() }

// Client queries Yahoo for a batch of symbols. Section payloads are memoized
// for the client's lifetime and concurrent callers share one in-flight
// fetch, so a batch costs one request per symbol per section.
type Client struct {
	session *Session
	symbols []string
	group   singleflight.Group

	mu       sync.Mutex
	sections map[string]provider.Keyed
}

var (
	_ provider.Client             = (*Client)(nil)
	_ provider.ShareCountReporter = (*Client)(nil)
)

// Host returns the upstream host.
func (c *Client) Host() string { return c.session.Host() }

// Section fetches a quoteSummary module for every symbol. Symbols Yahoo does
// not know are mapped to its error message, which normalizes to an empty
// section. Other per-symbol failures are stored under the symbol as a
// *provider.ResponseError (see provider.SymbolError). Transport errors,
// auth failures and throttling abort the whole section and are not memoized.
func (c *Client) Section(ctx context.Context, name string) (provider.Payload, error) {
	module, ok := moduleNames[name]
	if !ok {
		return nil, fmt.Errorf("yahoo: unknown section %q", name)
	}
	if p, ok := c.memo(name); ok {
		return p, nil
	}

	v, err, _ := c.group.Do(name, func() (any, error) {
		if p, ok := c.memo(name); ok {
			return p, nil
		}
		out := make(provider.Keyed, len(c.symbols))
		for _, sym := range c.symbols {
			fields, err := c.quoteSummary(ctx, sym, module)
			if err != nil {
				if abortsBatch(err) {
					return nil, err
				}
				if re, ok := provider.AsResponseError(err); ok && re.Response.StatusCode == http.StatusNotFound {
					out[sym] = describeBody(re.Response.Body, http.StatusNotFound)
					continue
				}
				c.session.log.Warn().Err(err).Str("symbol", sym).Str("module", module).Msg("symbol fetch failed")
				out[sym] = err
				continue
			}
			out[sym] = fields
		}

		c.mu.Lock()
		c.sections[name] = out
		c.mu.Unlock()
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(provider.Keyed), nil
}

func (c *Client) memo(name string) (provider.Keyed, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.sections[name]
	return p, ok
}

// abortsBatch reports whether err affects every symbol rather than one:
// transport errors, 401/403 and throttles.
func abortsBatch(err error) bool {
	if errors.Is(err, errMalformed) {
		return false
	}
	re, ok := provider.AsResponseError(err)
	if !ok || re.Response == nil {
		return true
	}
	switch re.Response.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	_, throttled := ratelimit.Throttle(err, time.Now())
	return throttled
}

func (c *Client) quoteSummary(ctx context.Context, symbol, module string) (any, error) {
	params := url.Values{}
	params.Set("modules", module)
	body, err := c.session.get(ctx, module, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), params)
	if err != nil {
		return nil, err
	}

	var resp quoteSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", module, errMalformed, err)
	}
	if e := resp.QuoteSummary.Error; e != nil {
		return e.Description, nil
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return "No data found for " + symbol, nil
	}
	data, ok := resp.QuoteSummary.Result[0][module]
	if !ok || data == nil {
		return map[string]any{}, nil
	}
	return unwrapFields(data), nil
}

// Symbols returns the symbols Yahoo recognised in one quote call.
func (c *Client) Symbols(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("symbols", strings.Join(c.symbols, ","))
	body, err := c.session.get(ctx, "quote", "/v7/finance/quote", params)
	if err != nil {
		return nil, err
	}

	var resp quoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("quote: decode: %w", err)
	}
	if e := resp.QuoteResponse.Error; e != nil {
		return nil, fmt.Errorf("quote: %s", e.Description)
	}
	out := make([]string, 0, len(resp.QuoteResponse.Result))
	for _, r := range resp.QuoteResponse.Result {
		if r.Symbol != "" {
			out = append(out, r.Symbol)
		}
	}
	return out, nil
}

// History returns daily closes for symbol over period, e.g. "5y".
func (c *Client) History(ctx context.Context, symbol, period string) (provider.History, error) {
	params := url.Values{}
	params.Set("range", period)
	params.Set("interval", "1d")
	body, err := c.session.get(ctx, "chart", "/v8/finance/chart/"+url.PathEscape(symbol), params)
	if err != nil {
		return provider.History{}, err
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return provider.History{}, fmt.Errorf("chart: decode: %w", err)
	}
	if e := resp.Chart.Error; e != nil {
		return provider.History{}, fmt.Errorf("chart: %s", e.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return provider.History{}, nil
	}

	r := resp.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return provider.History{}, nil
	}
	closes := r.Indicators.Quote[0].Close
	h := provider.History{Points: make([]provider.HistoryPoint, 0, len(r.Timestamp))}
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		h.Points = append(h.Points, provider.HistoryPoint{Time: time.Unix(ts, 0).UTC(), Close: *closes[i]})
	}
	return h, nil
}

// ShareCounts returns annual ordinary share counts, oldest first.
func (c *Client) ShareCounts(ctx context.Context, symbol string) ([]float64, error) {
	now := time.Now()
	params := url.Values{}
	params.Set("type", sharesSeriesType)
	params.Set("period1", strconv.FormatInt(now.AddDate(-6, 0, 0).Unix(), 10))
	params.Set("period2", strconv.FormatInt(now.Unix(), 10))
	body, err := c.session.get(ctx, "timeseries", "/ws/fundamentals-timeseries/v1/finance/timeseries/"+url.PathEscape(symbol), params)
	if err != nil {
		return nil, err
	}

	var resp timeseriesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("timeseries: decode: %w", err)
	}
	if e := resp.Timeseries.Error; e != nil {
		return nil, fmt.Errorf("timeseries: %s", e.Description)
	}

	var points []timeseriesPoint
	for _, r := range resp.Timeseries.Result {
		raw, ok := r[sharesSeriesType]
		if !ok {
			continue
		}
		var series []*timeseriesPoint
		if err := json.Unmarshal(raw, &series); err != nil {
			return nil, fmt.Errorf("timeseries: decode series: %w", err)
		}
		for _, p := range series {
			if p != nil && p.ReportedValue.Raw != nil {
				points = append(points, *p)
			}
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].AsOfDate < points[j].AsOfDate })

	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = *p.ReportedValue.Raw
	}
	return out, nil
}
