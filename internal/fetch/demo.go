package fetch

import (
	"github.com/guregu/null/v6"

	"github.com/guttosm/valuepulse/internal/domain/models"
)

// demoBundle returns fixed fundamentals for offline runs. Cached sections,
// if any, take precedence over the canned values.
func (f *Fetcher) demoBundle(ticker string) models.Bundle {
	b := models.NewBundle(ticker)
	b.CacheInfo.CacheDisabled = f.cache.Disabled()
	for name, s := range demoSections(ticker) {
		b.Sections[name] = s
	}
	b.Buybacks = null.BoolFrom(true)

	for _, name := range models.CoreSections {
		if s, ok := f.cache.Section(ticker, name); ok {
			b.Sections[name] = s
			b.CacheInfo.SectionsCached = append(b.CacheInfo.SectionsCached, name)
		}
	}
	if flag, ok := f.cache.Buybacks(ticker); ok {
		b.Buybacks = flag
		b.CacheInfo.SectionsCached = append(b.CacheInfo.SectionsCached, models.SectionBuybacks)
	}
	b.CacheInfo.ServedFromCache = len(b.CacheInfo.SectionsCached) == len(models.CoreSections)+1
	return b
}

func demoSections(ticker string) map[string]models.Section {
	name := ticker + " Demo Corp"
	return map[string]models.Section{
		models.SectionSummaryDetail: {
			"trailingPE":                   18.4,
			"priceToBook":                  2.6,
			"priceToSalesTrailing12Months": 2.1,
			"dividendYield":                0.024,
			"pegRatio":                     1.3,
			"marketCap":                    1.25e11,
		},
		models.SectionFinancialData: {
			"profitMargins":     0.18,
			"returnOnEquity":    0.22,
			"currentRatio":      1.8,
			"quickRatio":        1.2,
			"revenueGrowth":     0.07,
			"earningsGrowth":    0.09,
			"operatingMargins":  0.24,
			"debtToEquity":      65.0,
			"freeCashflow":      8.4e9,
			"ebitdaMargins":     0.31,
			"returnOnAssets":    0.09,
			"operatingCashflow": 1.2e10,
			"totalRevenue":      4.6e10,
			"revenuePerShare":   21.5,
			"totalDebt":         1.9e10,
		},
		models.SectionAssetProfile: {
			"sector":              "Technology",
			"industry":            "Software Infrastructure",
			"website":             "https://example.com",
			"longBusinessSummary": "Demo company returned when running without network access.",
		},
		models.SectionKeyStats: {
			"enterpriseToEbitda":  12.5,
			"pegRatio":            1.1,
			"heldPercentInsiders": 0.06,
			"sharesOutstanding":   2.15e9,
		},
		models.SectionQuoteType: {
			"symbol":    ticker,
			"longName":  name,
			"shortName": name,
			"quoteType": "EQUITY",
		},
		models.SectionPrice: {
			"symbol":             ticker,
			"longName":           name,
			"currency":           "USD",
			"regularMarketPrice": 142.3,
			"marketCap":          1.25e11,
		},
	}
}
