package metrics

import (
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/valuepulse/internal/domain/models"
)

func bundleWith(sections map[string]models.Section) models.Bundle {
	b := models.NewBundle("AAPL")
	for name, s := range sections {
		b.Sections[name] = s
	}
	return b
}

func fullSections() map[string]models.Section {
	return map[string]models.Section{
		models.SectionSummaryDetail: {"trailingPE": 30.0, "priceToBook": 40.0, "dividendYield": 0.005, "pegRatio": 2.0},
		models.SectionFinancialData: {
			"profitMargins":     0.25,
			"totalRevenue":      5_000_000_000.0,
			"totalDebt":         500_000_000.0,
			"operatingCashflow": 1_000_000_000.0,
			"freeCashflow":      2_500_000_000.0,
		},
		models.SectionAssetProfile: {"sector": "Technology"},
		models.SectionKeyStats:     {"marketCap": 2_000_000_000.0, "sharesOutstanding": 500_000_000.0},
		models.SectionQuoteType:    {"symbol": "AAPL"},
		models.SectionPrice:        {"regularMarketPrice": 190.0},
	}
}

func TestCompute_FullData(t *testing.T) {
	b := bundleWith(fullSections())
	b.Buybacks = null.BoolFrom(true)

	set, err := Compute("AAPL", b)
	require.NoError(t, err)

	assert.Equal(t, Labels, set.Labels())

	v, _ := set.Get(NetProfitMargin)
	assert.Equal(t, 0.25, v.Number.Float64)

	v, _ = set.Get(CashFlowPerShare)
	assert.InDelta(t, 2.0, v.Number.Float64, 1e-9)

	v, _ = set.Get(SalesPerShare)
	assert.InDelta(t, 10.0, v.Number.Float64, 1e-9, "falls back to revenue / shares")

	v, _ = set.Get(FreeCashFlow)
	assert.InDelta(t, 2.5, v.Number.Float64, 1e-9)

	v, _ = set.Get(PEGRatio)
	assert.Equal(t, 2.0, v.Number.Float64, "key stats lacks pegRatio, summary used")

	v, _ = set.Get(Buybacks)
	assert.True(t, v.IsFlag())

	report, err := EnsureDataAvailable("AAPL", b.Sections, set)
	require.NoError(t, err)
	assert.Empty(t, report.MissingFields)
	assert.Contains(t, report.MissingMetrics, ROE)
}

func TestCompute_DerivationGuards(t *testing.T) {
	b := bundleWith(map[string]models.Section{
		models.SectionFinancialData: {"operatingCashflow": 1.0, "totalRevenue": 1.0, "freeCashflow": "n/a", "currentRatio": 1.2},
		models.SectionKeyStats:      {"sharesOutstanding": 0.0, "revenuePerShare": 7.5, "pegRatio": nil},
		models.SectionSummaryDetail: {"pegRatio": 1.1},
	})

	set, err := Compute("AAPL", b)
	require.NoError(t, err)

	v, _ := set.Get(CashFlowPerShare)
	assert.True(t, v.IsNull(), "zero shares outstanding")

	v, _ = set.Get(SalesPerShare)
	assert.Equal(t, 7.5, v.Number.Float64)

	v, _ = set.Get(FreeCashFlow)
	assert.True(t, v.IsNull(), "non-numeric passes through as null")

	v, _ = set.Get(PEGRatio)
	assert.True(t, v.IsNull(), "explicit null in key stats does not fall back")
}

func TestCompute_AllNull(t *testing.T) {
	_, err := Compute("ZZZ", models.NewBundle("ZZZ"))
	require.Error(t, err)

	de, ok := AsDataError(err)
	require.True(t, ok)
	assert.Equal(t, NoMetrics, de.Kind)
	assert.Equal(t, "No metrics available for ZZZ", de.Error())
}

func TestEnsureDataAvailable_AllEmpty(t *testing.T) {
	b := models.NewBundle("AAPL")
	_, err := EnsureDataAvailable("AAPL", b.Sections, models.MetricSet{{Label: PERatio, Value: models.NumberValue(1)}})
	require.Error(t, err)

	de, ok := AsDataError(err)
	require.True(t, ok)
	assert.Equal(t, MissingSections, de.Kind)
	assert.Equal(t, models.CoreSections, de.Sections)
	assert.Equal(t,
		"No data found for AAPL: missing sections summary_detail, financial_data, asset_profile, key_stats, quote_type, price.",
		err.Error())
}

func TestEnsureDataAvailable_NoMetrics(t *testing.T) {
	set := models.MetricSet{{Label: PERatio}, {Label: Buybacks}}
	_, err := EnsureDataAvailable("AAPL", fullSections(), set)
	require.Error(t, err)
	assert.Equal(t, "No metrics available for AAPL from Yahoo Finance.", err.Error())
}

func TestEnsureDataAvailable_SoftWarnings(t *testing.T) {
	sections := fullSections()
	sections[models.SectionKeyStats] = models.Section{"marketCap": nil}
	sections[models.SectionPrice] = models.Section{"marketCap": 3_500_000_000.0}
	delete(sections[models.SectionFinancialData], "totalDebt")

	set := models.MetricSet{{Label: PERatio, Value: models.NumberValue(20)}, {Label: ROE}}
	report, err := EnsureDataAvailable("AAPL", sections, set)
	require.NoError(t, err)
	assert.Equal(t, []string{FieldTotalDebt}, report.MissingFields)
	assert.Equal(t, []string{ROE}, report.MissingMetrics)
	assert.False(t, report.Empty())
}

func TestResolveCriticalFields(t *testing.T) {
	tests := []struct {
		name     string
		sections map[string]models.Section
		wantCap  *float64
		missing  []string
	}{
		{
			name:     "market cap from key stats",
			sections: map[string]models.Section{models.SectionKeyStats: {"marketCap": 1.0}, models.SectionPrice: {"marketCap": 2.0}},
			wantCap:  ptr(1.0),
			missing:  []string{FieldTotalRevenue, FieldTotalDebt},
		},
		{
			name:     "market cap from price",
			sections: map[string]models.Section{models.SectionKeyStats: {"marketCap": nil}, models.SectionPrice: {"marketCap": 3_500_000_000.0}},
			wantCap:  ptr(3_500_000_000.0),
			missing:  []string{FieldTotalRevenue, FieldTotalDebt},
		},
		{
			name:     "market cap from summary detail",
			sections: map[string]models.Section{models.SectionSummaryDetail: {"marketCap": 5.0}, models.SectionFinancialData: {"totalRevenue": 1.0, "totalDebt": 0.0}},
			wantCap:  ptr(5.0),
		},
		{
			name:    "nothing",
			missing: []string{FieldMarketCap, FieldTotalRevenue, FieldTotalDebt},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCriticalFields(tt.sections)
			assert.Equal(t, tt.wantCap, got.MarketCap)
			assert.Equal(t, tt.missing, got.Missing())
		})
	}
}

func ptr(f float64) *float64 { return &f }
