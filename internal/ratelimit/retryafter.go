package ratelimit

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/valuepulse/internal/domain/models"
	"github.com/guttosm/valuepulse/internal/provider"
)

// ParseRetryAfter extracts a cooldown hint in seconds. The Retry-After
// header is tried first, as integer seconds or an HTTP date, then a
// retry_after or retryAfter field in a JSON body.
func ParseRetryAfter(header http.Header, body []byte, now time.Time) (int, bool) {
	if v := strings.TrimSpace(header.Get("Retry-After")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return max(n, 0), true
		}
		if at, err := http.ParseTime(v); err == nil {
			return remainingSeconds(at.Sub(now)), true
		}
	}
	if len(body) == 0 {
		return 0, false
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, false
	}
	return retryFromPayload(payload)
}

func retryFromPayload(payload map[string]any) (int, bool) {
	for _, key := range []string{"retry_after", "retryAfter"} {
		if n, ok := asSeconds(payload[key]); ok {
			return n, true
		}
	}
	// Yahoo nests details under "finance" or "error".
	for _, key := range []string{"error", "finance"} {
		if nested, ok := payload[key].(map[string]any); ok {
			if n, ok := retryFromPayload(nested); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func asSeconds(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return max(int(n), 0), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return max(i, 0), true
	default:
		return 0, false
	}
}

// IsThrottle reports whether a response qualifies as a rate-limit event.
func IsThrottle(status int, hinted bool) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable || hinted
}

// Throttle extracts a rate-limit record from a provider response error. The
// second result is false when err carries no upstream response or the
// response is not a throttle. Host is the response host and may be empty.
func Throttle(err error, now time.Time) (models.RateLimit, bool) {
	re, ok := provider.AsResponseError(err)
	if !ok || re.Response == nil {
		return models.RateLimit{}, false
	}
	retryAfter, hinted := ParseRetryAfter(re.Response.Header, re.Response.Body, now)
	if !IsThrottle(re.Response.StatusCode, hinted) {
		return models.RateLimit{}, false
	}
	rec := models.RateLimit{
		StatusCode: re.Response.StatusCode,
		Message:    err.Error(),
		RetryAfter: retryAfter,
		Headers:    re.Response.FlatHeaders(),
		Host:       re.Response.Host(),
	}
	if js := re.Response.JSON(); js != nil {
		rec.Payload = js
	}
	return rec, true
}
