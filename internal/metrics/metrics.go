// Package metrics derives the value-investing metric set from a section
// bundle, checks it for completeness and scores it against thresholds.
package metrics

import (
	"fmt"

	"github.com/guttosm/valuepulse/internal/domain/models"
)

// Metric labels in display order.
const (
	NetProfitMargin  = "Net Profit Margin (%)"
	ROE              = "ROE (%)"
	PERatio          = "P/E Ratio"
	PBRatio          = "P/B Ratio"
	PSRatio          = "P/S Ratio"
	DividendYield    = "Dividend Yield (%)"
	CurrentRatio     = "Current Ratio"
	QuickRatio       = "Quick Ratio"
	CashFlowPerShare = "Cash Flow/Share"
	SalesPerShare    = "Sales/Share"
	SalesGrowth      = "4 Yr Sales Growth (%)"
	EPSGrowth        = "4 Yr EPS Growth (%)"
	OperatingMargin  = "Operating Margin (%)"
	DebtToEquity     = "Debt/Equity"
	FreeCashFlow     = "Free Cash Flow"
	EBITDAMargin     = "EBITDA Margin (%)"
	ReturnOnAssets   = "Return on Assets (%)"
	EVToEBITDA       = "EV / EBITDA"
	PEGRatio         = "PEG Ratio"
	InsiderOwnership = "Insider Ownership (%)"
	Buybacks         = "Buybacks"
)

// Labels lists every metric label in display order.
var Labels = []string{
	NetProfitMargin, ROE, PERatio, PBRatio, PSRatio, DividendYield,
	CurrentRatio, QuickRatio, CashFlowPerShare, SalesPerShare,
	SalesGrowth, EPSGrowth, OperatingMargin, DebtToEquity, FreeCashFlow,
	EBITDAMargin, ReturnOnAssets, EVToEBITDA, PEGRatio, InsiderOwnership,
	Buybacks,
}

// Compute builds the metric set for ticker. It fails with a DataError when
// every metric is null.
func Compute(ticker string, b models.Bundle) (models.MetricSet, error) {
	summary := b.Section(models.SectionSummaryDetail)
	financial := b.Section(models.SectionFinancialData)
	keyStats := b.Section(models.SectionKeyStats)

	shares, sharesOK := nonZero(keyStats, "sharesOutstanding")

	var cashflowPerShare models.MetricValue
	if ocf, ok := financial.Float("operatingCashflow"); ok && sharesOK {
		cashflowPerShare = models.NumberValue(ocf / shares)
	}

	salesPerShare := models.ValueOf(keyStats.Get("revenuePerShare"))
	if keyStats.Get("revenuePerShare") == nil {
		if rev, ok := financial.Float("totalRevenue"); ok && sharesOK {
			salesPerShare = models.NumberValue(rev / shares)
		}
	}

	freeCashFlow := models.ValueOf(financial.Get("freeCashflow"))
	if fcf, ok := financial.Float("freeCashflow"); ok {
		freeCashFlow = models.NumberValue(fcf / 1e9)
	}

	// Only an absent key falls back; an explicit null stays null.
	pegRatio := models.ValueOf(summary.Get("pegRatio"))
	if keyStats.Has("pegRatio") {
		pegRatio = models.ValueOf(keyStats.Get("pegRatio"))
	}

	set := models.MetricSet{
		{Label: NetProfitMargin, Value: models.ValueOf(financial.Get("profitMargins"))},
		{Label: ROE, Value: models.ValueOf(financial.Get("returnOnEquity"))},
		{Label: PERatio, Value: models.ValueOf(summary.Get("trailingPE"))},
		{Label: PBRatio, Value: models.ValueOf(summary.Get("priceToBook"))},
		{Label: PSRatio, Value: models.ValueOf(summary.Get("priceToSalesTrailing12Months"))},
		{Label: DividendYield, Value: models.ValueOf(summary.Get("dividendYield"))},
		{Label: CurrentRatio, Value: models.ValueOf(financial.Get("currentRatio"))},
		{Label: QuickRatio, Value: models.ValueOf(financial.Get("quickRatio"))},
		{Label: CashFlowPerShare, Value: cashflowPerShare},
		{Label: SalesPerShare, Value: salesPerShare},
		{Label: SalesGrowth, Value: models.ValueOf(financial.Get("revenueGrowth"))},
		{Label: EPSGrowth, Value: models.ValueOf(financial.Get("earningsGrowth"))},
		{Label: OperatingMargin, Value: models.ValueOf(financial.Get("operatingMargins"))},
		{Label: DebtToEquity, Value: models.ValueOf(financial.Get("debtToEquity"))},
		{Label: FreeCashFlow, Value: freeCashFlow},
		{Label: EBITDAMargin, Value: models.ValueOf(financial.Get("ebitdaMargins"))},
		{Label: ReturnOnAssets, Value: models.ValueOf(financial.Get("returnOnAssets"))},
		{Label: EVToEBITDA, Value: models.ValueOf(keyStats.Get("enterpriseToEbitda"))},
		{Label: PEGRatio, Value: pegRatio},
		{Label: InsiderOwnership, Value: models.ValueOf(keyStats.Get("heldPercentInsiders"))},
		{Label: Buybacks, Value: models.MetricValue{Flag: b.Buybacks}},
	}

	if err := Validate(ticker, set); err != nil {
		return nil, err
	}
	return set, nil
}

// Validate fails when set carries no value at all.
func Validate(ticker string, set models.MetricSet) error {
	if set.AllNull() {
		return &DataError{
			Kind:    NoMetrics,
			Ticker:  ticker,
			Message: fmt.Sprintf("No metrics available for %s", ticker),
		}
	}
	return nil
}

func nonZero(s models.Section, key string) (float64, bool) {
	v, ok := s.Float(key)
	if !ok || v == 0 {
		return 0, false
	}
	return v, true
}
