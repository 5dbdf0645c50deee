package models

import (
	"encoding/json"
	"strings"
)

// Core section names returned by the quote provider.
const (
	SectionSummaryDetail = "summary_detail"
	SectionFinancialData = "financial_data"
	SectionAssetProfile  = "asset_profile"
	SectionKeyStats      = "key_stats"
	SectionQuoteType     = "quote_type"
	SectionPrice         = "price"

	// SectionBuybacks is the cache slot for the derived buyback flag.
	SectionBuybacks = "buybacks"
)

// CoreSections lists the six provider sections in the order they are fetched.
var CoreSections = []string{
	SectionSummaryDetail,
	SectionFinancialData,
	SectionAssetProfile,
	SectionKeyStats,
	SectionQuoteType,
	SectionPrice,
}

// IsCoreSection reports whether name is one of CoreSections.
func IsCoreSection(name string) bool {
	for _, s := range CoreSections {
		if s == name {
			return true
		}
	}
	return false
}

// Section is a flat field-name to value mapping for one ticker.
//
// An empty Section means the provider returned nothing usable. A key mapped to
// nil means the field was present but null.
type Section map[string]any

// Has reports whether key is present, even when its value is null.
func (s Section) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Get returns the raw value for key or nil.
func (s Section) Get(key string) any {
	if s == nil {
		return nil
	}
	return s[key]
}

// Float returns the numeric value stored under key.
// Booleans, strings and nulls are not numeric.
func (s Section) Float(key string) (float64, bool) {
	return ToFloat(s.Get(key))
}

// String returns the trimmed string stored under key.
func (s Section) String(key string) string {
	v, ok := s.Get(key).(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// Clone returns a shallow copy. A nil Section clones to an empty one.
func (s Section) Clone() Section {
	out := make(Section, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ToFloat converts the numeric representations produced by JSON decoding and
// hand-built payloads to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
