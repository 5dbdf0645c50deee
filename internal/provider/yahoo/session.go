// Package yahoo implements provider.Client against the Yahoo Finance JSON
// endpoints.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/guttosm/valuepulse/internal/logger"
	"github.com/guttosm/valuepulse/internal/provider"
)

const (
	// DefaultBaseURL is the Yahoo Finance query host.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// DefaultCookieURL primes the consent cookie the crumb endpoint requires.
	DefaultCookieURL = "https://fc.yahoo.com"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond is the default client-side request rate.
	DefaultRequestsPerSecond = 2

	userAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	maxBodySize = 8 << 20
)

// Session holds the HTTP state shared by every client built from one
// Factory: cookie jar, crumb and request limiter.
type Session struct {
	httpClient *http.Client
	baseURL    string
	cookieURL  string
	useCrumb   bool
	limiter    *rate.Limiter
	log        zerolog.Logger

	mu    sync.Mutex
	crumb string
	ready bool
}

// Option configures a Session.
type Option func(*Session)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) Option {
	return func(s *Session) {
		if baseURL != "" {
			s.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client. Its cookie jar is kept if set.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Session) {
		if httpClient != nil {
			s.httpClient = httpClient
		}
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.httpClient.Timeout = d
		}
	}
}

// WithRequestsPerSecond sets the client-side request rate.
func WithRequestsPerSecond(rps float64) Option {
	return func(s *Session) {
		if rps > 0 {
			burst := int(rps)
			if burst < 1 {
				burst = 1
			}
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithCookieURL overrides the cookie priming URL. Empty disables priming.
func WithCookieURL(u string) Option {
	return func(s *Session) {
		s.cookieURL = u
	}
}

// WithoutCrumb skips crumb negotiation entirely.
func WithoutCrumb() Option {
	return func(s *Session) {
		s.useCrumb = false
	}
}

// NewSession builds a Session.
func NewSession(opts ...Option) (*Session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	s := &Session{
		httpClient: &http.Client{Timeout: DefaultTimeout, Jar: jar},
		baseURL:    DefaultBaseURL,
		cookieURL:  DefaultCookieURL,
		useCrumb:   true,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), DefaultRequestsPerSecond),
		log:        logger.Component("yahoo"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.httpClient.Jar == nil {
		s.httpClient.Jar = jar
	}
	return s, nil
}

// Host returns the hostname requests are sent to.
func (s *Session) Host() string {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// ensureCrumb negotiates the crumb once per session. A failed negotiation
// leaves the crumb empty; requests are still attempted without it.
func (s *Session) ensureCrumb(ctx context.Context) string {
	if !s.useCrumb {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return s.crumb
	}
	s.ready = true

	if s.cookieURL != "" {
		if resp, err := s.send(ctx, s.cookieURL); err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
	}

	resp, err := s.send(ctx, s.baseURL+"/v1/test/getcrumb")
	if err != nil {
		s.log.Warn().Err(err).Msg("crumb request failed")
		return ""
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	crumb := strings.TrimSpace(string(body))
	if resp.StatusCode != http.StatusOK || crumb == "" || strings.ContainsAny(crumb, "<{ ") {
		s.log.Warn().Int("status", resp.StatusCode).Msg("crumb unavailable")
		return ""
	}
	s.crumb = crumb
	s.log.Debug().Msg("yahoo session initialized")
	return s.crumb
}

// resetCrumb forces renegotiation on the next request.
func (s *Session) resetCrumb() {
	s.mu.Lock()
	s.ready = false
	s.crumb = ""
	s.mu.Unlock()
}

func (s *Session) send(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json,text/plain,*/*")
	return s.httpClient.Do(req)
}

// get performs a rate-limited GET and returns the body of a 2xx response.
// Other statuses become a *provider.ResponseError.
func (s *Session) get(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limiter: %w", op, err)
	}
	if params == nil {
		params = url.Values{}
	}
	if crumb := s.ensureCrumb(ctx); crumb != "" {
		params.Set("crumb", crumb)
	}

	endpoint := s.baseURL + path
	reqURL := endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	s.log.Debug().Str("op", op).Str("url", endpoint).Msg("yahoo request")

	resp, err := s.send(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			s.resetCrumb()
		}
		return nil, &provider.ResponseError{
			Op: op,
			Response: &provider.Response{
				StatusCode: resp.StatusCode,
				Header:     resp.Header.Clone(),
				URL:        endpoint,
				Body:       body,
			},
			Err: errors.New(describeBody(body, resp.StatusCode)),
		}
	}
	return body, nil
}
