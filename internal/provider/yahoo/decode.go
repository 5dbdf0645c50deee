package yahoo

import (
	"encoding/json"
	"net/http"
	"strings"
)

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]map[string]any `json:"result"`
		Error  *apiError                   `json:"error"`
	} `json:"quoteSummary"`
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol string `json:"symbol"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"quoteResponse"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

type timeseriesResponse struct {
	Timeseries struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *apiError                    `json:"error"`
	} `json:"timeseries"`
}

type timeseriesPoint struct {
	AsOfDate      string `json:"asOfDate"`
	ReportedValue struct {
		Raw *float64 `json:"raw"`
	} `json:"reportedValue"`
}

// unwrap flattens Yahoo's {"raw": x, "fmt": "..."} wrappers to x. Wrappers
// without a raw value, and empty objects, become null.
func unwrap(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if raw, ok := t["raw"]; ok {
			return raw
		}
		if len(t) == 0 {
			return nil
		}
		if _, ok := t["fmt"]; ok {
			return nil
		}
		if _, ok := t["longFmt"]; ok {
			return nil
		}
		return unwrapFields(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = unwrap(item)
		}
		return out
	default:
		return v
	}
}

func unwrapFields(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = unwrap(v)
	}
	return out
}

// describeBody extracts the most useful error text from a Yahoo error body.
func describeBody(body []byte, status int) string {
	var envelope map[string]struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, v := range envelope {
			if v.Error != nil && v.Error.Description != "" {
				return v.Error.Description
			}
		}
	}
	var flat struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Message != "" {
		return flat.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(status)
}
