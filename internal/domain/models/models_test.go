package models

import (
	"encoding/json"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleJSON(t *testing.T) {
	b := NewBundle("AAPL")
	b.Sections[SectionPrice] = Section{"regularMarketPrice": 10.0}

	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "AAPL", out["ticker"])
	assert.Equal(t, map[string]any{}, out["error"], "nil error renders as {}")
	assert.Nil(t, out["buybacks"])
	for _, name := range CoreSections {
		assert.Contains(t, out, name)
	}
	assert.Equal(t, map[string]any{}, out[SectionSummaryDetail])
	assert.Equal(t, map[string]any{"regularMarketPrice": 10.0}, out[SectionPrice])

	b.Buybacks = null.BoolFrom(true)
	b.Error = &FetchError{Section: SectionPrice, Message: "boom", StatusCode: 500}
	raw, err = json.Marshal(b)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, true, out["buybacks"])
	assert.Equal(t, "boom", out["error"].(map[string]any)["message"])
}

func TestBundleHasDataAndSection(t *testing.T) {
	b := NewBundle("KO")
	assert.False(t, b.HasData())
	assert.NotNil(t, b.Section(SectionKeyStats))

	b.Sections[SectionKeyStats] = Section{"pegRatio": nil}
	assert.True(t, b.HasData())
	assert.True(t, b.Section(SectionKeyStats).Has("pegRatio"))
}

func TestFetchErrorRateLimited(t *testing.T) {
	var nilErr *FetchError
	assert.False(t, nilErr.RateLimited())
	assert.False(t, (&FetchError{Message: "x"}).RateLimited())
	assert.True(t, (&FetchError{RateLimit: &RateLimit{Host: "h"}}).RateLimited())
}

func TestSectionAccessors(t *testing.T) {
	s := Section{"pe": 12, "name": "  Apple ", "flag": true, "n": json.Number("1.5"), "nil": nil}

	f, ok := s.Float("pe")
	assert.True(t, ok)
	assert.Equal(t, 12.0, f)

	f, ok = s.Float("n")
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)

	_, ok = s.Float("flag")
	assert.False(t, ok, "booleans are not numeric")
	_, ok = s.Float("name")
	assert.False(t, ok)

	assert.Equal(t, "Apple", s.String("name"))
	assert.Equal(t, "", s.String("pe"))
	assert.True(t, s.Has("nil"))
	assert.False(t, s.Has("missing"))

	var empty Section
	assert.Nil(t, empty.Get("x"))
	assert.Equal(t, Section{}, empty.Clone())

	clone := s.Clone()
	clone["pe"] = 99
	assert.Equal(t, 12, s["pe"])
}

func TestIsCoreSection(t *testing.T) {
	assert.True(t, IsCoreSection(SectionQuoteType))
	assert.False(t, IsCoreSection(SectionBuybacks))
}

func TestMetricValue(t *testing.T) {
	assert.True(t, ValueOf("n/a").IsNull())
	assert.True(t, ValueOf(nil).IsNull())
	assert.True(t, ValueOf(true).IsFlag())
	assert.True(t, ValueOf(null.Bool{}).IsNull())
	assert.Equal(t, NumberValue(3), ValueOf(3))

	raw, err := json.Marshal([]MetricValue{NumberValue(1.5), FlagValue(false), {}})
	require.NoError(t, err)
	assert.JSONEq(t, `[1.5,false,null]`, string(raw))

	var back []MetricValue
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, []MetricValue{NumberValue(1.5), FlagValue(false), {}}, back)
}

func TestMetricSetJSONKeepsOrder(t *testing.T) {
	set := MetricSet{
		{Label: "Z first", Value: NumberValue(1)},
		{Label: "A second", Value: MetricValue{}},
		{Label: "M third", Value: FlagValue(true)},
	}
	raw, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Equal(t, `{"Z first":1,"A second":null,"M third":true}`, string(raw))

	var back MetricSet
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, []string{"Z first", "A second", "M third"}, back.Labels())
	assert.False(t, back.AllNull())

	v, ok := back.Get("A second")
	assert.True(t, ok)
	assert.True(t, v.IsNull())

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &back))

	var ev struct {
		Metrics MetricSet `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"metrics":null}`), &ev))
	assert.Nil(t, ev.Metrics)

	raw, err = json.Marshal(MetricSet(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))
}

func TestDataReportEmpty(t *testing.T) {
	assert.True(t, DataReport{}.Empty())
	assert.False(t, DataReport{MissingFields: []string{"marketCap"}}.Empty())
}
