package metrics

import (
	"fmt"
	"strings"

	"github.com/guttosm/valuepulse/internal/domain/models"
)

// Critical field names used in data reports.
const (
	FieldMarketCap    = "market cap"
	FieldTotalRevenue = "total revenue"
	FieldTotalDebt    = "total debt"
)

// CriticalFields are the resolved values of the three fields every
// evaluation should have. Nil means missing.
type CriticalFields struct {
	MarketCap    *float64
	TotalRevenue *float64
	TotalDebt    *float64
}

// ResolveCriticalFields looks up market cap in key stats, then price, then
// summary detail; revenue and debt come from financial data.
func ResolveCriticalFields(sections map[string]models.Section) CriticalFields {
	return CriticalFields{
		MarketCap: firstNumber(
			lookup(sections, models.SectionKeyStats, "marketCap"),
			lookup(sections, models.SectionPrice, "marketCap"),
			lookup(sections, models.SectionSummaryDetail, "marketCap"),
		),
		TotalRevenue: firstNumber(lookup(sections, models.SectionFinancialData, "totalRevenue")),
		TotalDebt:    firstNumber(lookup(sections, models.SectionFinancialData, "totalDebt")),
	}
}

// Missing returns the names of unresolved fields.
func (c CriticalFields) Missing() []string {
	var out []string
	if c.MarketCap == nil {
		out = append(out, FieldMarketCap)
	}
	if c.TotalRevenue == nil {
		out = append(out, FieldTotalRevenue)
	}
	if c.TotalDebt == nil {
		out = append(out, FieldTotalDebt)
	}
	return out
}

// EnsureDataAvailable separates unusable data from usable-with-caveats data.
//
// It fails when a core section is empty or every metric is null. Otherwise
// it returns the missing critical fields and null metrics as a report.
func EnsureDataAvailable(ticker string, sections map[string]models.Section, set models.MetricSet) (models.DataReport, error) {
	var missing []string
	for _, name := range models.CoreSections {
		if len(sections[name]) == 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return models.DataReport{}, &DataError{
			Kind:     MissingSections,
			Ticker:   ticker,
			Sections: missing,
			Message:  fmt.Sprintf("No data found for %s: missing sections %s.", ticker, strings.Join(missing, ", ")),
		}
	}

	if set.AllNull() {
		return models.DataReport{}, &DataError{
			Kind:    NoMetrics,
			Ticker:  ticker,
			Message: fmt.Sprintf("No metrics available for %s from Yahoo Finance.", ticker),
		}
	}

	report := models.DataReport{
		MissingFields: ResolveCriticalFields(sections).Missing(),
	}
	for _, m := range set {
		if m.Value.IsNull() {
			report.MissingMetrics = append(report.MissingMetrics, m.Label)
		}
	}
	return report, nil
}

func lookup(sections map[string]models.Section, section, key string) any {
	return sections[section].Get(key)
}

func firstNumber(values ...any) *float64 {
	for _, v := range values {
		if f, ok := models.ToFloat(v); ok {
			return &f
		}
	}
	return nil
}
