package metrics

import (
	"fmt"
	"strings"

	"github.com/guttosm/valuepulse/internal/domain/models"
)

// Verdict cut-offs.
const (
	BuyMinPass  = 12
	SellMinFail = 10
)

// Threshold is a metric's target. Flag thresholds compare by equality.
type Threshold struct {
	Number float64
	Flag   *bool
}

func number(n float64) Threshold { return Threshold{Number: n} }

func flag(b bool) Threshold { return Threshold{Flag: &b} }

// String renders the threshold for display.
func (t Threshold) String() string {
	if t.Flag != nil {
		return fmt.Sprintf("%t", *t.Flag)
	}
	return trimFloat(t.Number)
}

// Thresholds maps each label to its target, expressed in display units.
var Thresholds = map[string]Threshold{
	NetProfitMargin:  number(10),
	ROE:              number(10),
	PERatio:          number(25),
	PBRatio:          number(3),
	PSRatio:          number(3),
	DividendYield:    number(2),
	CurrentRatio:     number(1.5),
	QuickRatio:       number(1),
	CashFlowPerShare: number(0),
	SalesPerShare:    number(0),
	SalesGrowth:      number(5),
	EPSGrowth:        number(5),
	OperatingMargin:  number(10),
	DebtToEquity:     number(100),
	FreeCashFlow:     number(0),
	EBITDAMargin:     number(10),
	ReturnOnAssets:   number(5),
	EVToEBITDA:       number(20),
	PEGRatio:         number(1.5),
	InsiderOwnership: number(5),
	Buybacks:         flag(true),
}

// Tooltips explain a handful of metrics.
var Tooltips = map[string]string{
	NetProfitMargin:  "Should have top 20% profit margin in its industry",
	DividendYield:    "Graham recommends ONLY to invest in well known companies with solid div yields.",
	InsiderOwnership: "Higher is better",
	PERatio:          "Lower is better. P/E less than 5 year avg = good sign",
	Buybacks:         "Indicates if the company is actively buying back shares",
}

var lowerIsBetter = map[string]bool{
	DebtToEquity: true,
	PERatio:      true,
	PEGRatio:     true,
	PBRatio:      true,
	PSRatio:      true,
	EVToEBITDA:   true,
}

// IsPercent reports whether a label's raw value is a fraction shown as a
// percentage.
func IsPercent(label string) bool {
	for _, marker := range []string{"Margin", "%", "Growth", "Yield"} {
		if strings.Contains(label, marker) {
			return true
		}
	}
	return false
}

// DisplayNumber scales fractional metrics to percentages.
func DisplayNumber(label string, v float64) float64 {
	if IsPercent(label) {
		return v * 100
	}
	return v
}

// DisplayValue renders a metric for humans.
func DisplayValue(label string, v models.MetricValue) string {
	switch {
	case v.Flag.Valid:
		if v.Flag.Bool {
			return "Yes"
		}
		return "No"
	case v.Number.Valid:
		n := DisplayNumber(label, v.Number.Float64)
		if label == FreeCashFlow {
			return fmt.Sprintf("%.2fB", n)
		}
		if IsPercent(label) {
			return fmt.Sprintf("%.2f%%", n)
		}
		return fmt.Sprintf("%.2f", n)
	default:
		return "N/A"
	}
}

// FormatBillions renders a raw amount in billions. Non-numeric values pass
// through unchanged.
func FormatBillions(v any) any {
	if f, ok := models.ToFloat(v); ok {
		return fmt.Sprintf("%.2fB", f/1e9)
	}
	return v
}

// Status compares one metric against its threshold.
func Status(label string, v models.MetricValue) string {
	t, ok := Thresholds[label]
	if !ok || v.IsNull() {
		return models.ScoreInfo
	}
	if t.Flag != nil {
		if v.Flag.Valid && v.Flag.Bool == *t.Flag {
			return models.ScorePass
		}
		return models.ScoreFail
	}
	if v.Flag.Valid {
		return models.ScoreInfo
	}
	n := DisplayNumber(label, v.Number.Float64)
	var pass bool
	if lowerIsBetter[label] {
		pass = n <= t.Number
	} else {
		pass = n >= t.Number
	}
	if pass {
		return models.ScorePass
	}
	return models.ScoreFail
}

// Score rates every metric and derives the verdict.
func Score(set models.MetricSet) models.Score {
	out := models.Score{Rows: make([]models.ScoreRow, 0, len(set))}
	for _, m := range set {
		status := Status(m.Label, m.Value)
		switch status {
		case models.ScorePass:
			out.Pass++
		case models.ScoreFail:
			out.Fail++
		}
		row := models.ScoreRow{
			Label:   m.Label,
			Display: DisplayValue(m.Label, m.Value),
			Status:  status,
			Tooltip: Tooltips[m.Label],
		}
		if t, ok := Thresholds[m.Label]; ok {
			row.Threshold = t.String()
		}
		out.Rows = append(out.Rows, row)
	}
	out.Verdict = Verdict(out.Pass, out.Fail)
	return out
}

// Verdict maps pass and fail counts to Buy, Sell or Hold.
func Verdict(pass, fail int) string {
	switch {
	case pass >= BuyMinPass:
		return models.VerdictBuy
	case fail >= SellMinFail:
		return models.VerdictSell
	default:
		return models.VerdictHold
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
