package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"QuoteReport/internal/calculator"
	"QuoteReport/internal/model"
)

const noData = "No data."

// SummaryLines returns one line per symbol with total return, max and min
// close and the number of points.
func SummaryLines(set *model.SeriesSet) []string {
	lines := make([]string, 0, set.Len())
	for _, s := range set.All() {
		closes := s.Closes()
		high, low, err := calculator.CloseRange(closes)
		if err != nil {
			lines = append(lines, fmt.Sprintf("%s: no valid close series.", s.Symbol))
			continue
		}
		total := calculator.TotalReturn(closes[0], closes[len(closes)-1])
		lines = append(lines, fmt.Sprintf("%s: Return = %s | Max = %s | Min = %s | N=%d",
			s.Symbol, formatPercent(total), fixed2(high), fixed2(low), len(closes)))
	}
	return lines
}

// formatPercent renders a ratio as a signed percentage with two decimals.
func formatPercent(ratio float64) string {
	pct := decimal.NewFromFloat(ratio).Shift(2).Round(2)
	sign := " "
	if pct.IsNegative() {
		sign = "-"
		pct = pct.Abs()
	}
	return sign + pct.StringFixed(2) + "%"
}

func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
