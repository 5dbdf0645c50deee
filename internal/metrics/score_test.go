package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guttosm/valuepulse/internal/domain/models"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		label string
		value models.MetricValue
		want  string
	}{
		{NetProfitMargin, models.NumberValue(0.25), models.ScorePass},
		{NetProfitMargin, models.NumberValue(0.05), models.ScoreFail},
		{PERatio, models.NumberValue(25), models.ScorePass},
		{PERatio, models.NumberValue(30), models.ScoreFail},
		{DebtToEquity, models.NumberValue(150), models.ScoreFail},
		{EVToEBITDA, models.NumberValue(8), models.ScorePass},
		{CurrentRatio, models.NumberValue(1.5), models.ScorePass},
		{FreeCashFlow, models.NumberValue(-0.1), models.ScoreFail},
		{InsiderOwnership, models.NumberValue(0.06), models.ScorePass},
		{Buybacks, models.FlagValue(true), models.ScorePass},
		{Buybacks, models.FlagValue(false), models.ScoreFail},
		{Buybacks, models.MetricValue{}, models.ScoreInfo},
		{ROE, models.MetricValue{}, models.ScoreInfo},
		{"Unknown", models.NumberValue(1), models.ScoreInfo},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.label, tt.value))
		})
	}
}

func TestVerdict(t *testing.T) {
	assert.Equal(t, models.VerdictBuy, Verdict(12, 9))
	assert.Equal(t, models.VerdictBuy, Verdict(12, 10))
	assert.Equal(t, models.VerdictSell, Verdict(11, 10))
	assert.Equal(t, models.VerdictHold, Verdict(11, 9))
	assert.Equal(t, models.VerdictHold, Verdict(0, 0))
}

func TestScore(t *testing.T) {
	set := models.MetricSet{
		{Label: NetProfitMargin, Value: models.NumberValue(0.25)},
		{Label: PERatio, Value: models.NumberValue(40)},
		{Label: ROE},
		{Label: Buybacks, Value: models.FlagValue(true)},
	}
	s := Score(set)

	assert.Equal(t, 2, s.Pass)
	assert.Equal(t, 1, s.Fail)
	assert.Equal(t, models.VerdictHold, s.Verdict)
	if assert.Len(t, s.Rows, 4) {
		assert.Equal(t, "25.00%", s.Rows[0].Display)
		assert.Equal(t, "10", s.Rows[0].Threshold)
		assert.Equal(t, Tooltips[NetProfitMargin], s.Rows[0].Tooltip)
		assert.Equal(t, "N/A", s.Rows[2].Display)
		assert.Equal(t, "Yes", s.Rows[3].Display)
		assert.Equal(t, "true", s.Rows[3].Threshold)
	}
}

func TestThresholdsCoverEveryLabel(t *testing.T) {
	assert.Len(t, Labels, 21)
	for _, l := range Labels {
		_, ok := Thresholds[l]
		assert.True(t, ok, l)
	}
}

func TestDisplayHelpers(t *testing.T) {
	assert.True(t, IsPercent(DividendYield))
	assert.True(t, IsPercent(SalesGrowth))
	assert.False(t, IsPercent(DebtToEquity))
	assert.Equal(t, "1.50", DisplayValue(PEGRatio, models.NumberValue(1.5)))
	assert.Equal(t, "2.50B", DisplayValue(FreeCashFlow, models.NumberValue(2.5)))
	assert.Equal(t, "2.00B", FormatBillions(2e9))
	assert.Equal(t, "n/a", FormatBillions("n/a"))
	assert.Nil(t, FormatBillions(nil))
}
