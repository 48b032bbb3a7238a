package report

import (
	"math"
	"sort"
	"time"

	"QuoteReport/internal/model"
)

// Comparison aligns every symbol's cumulative return on the union of dates.
// Values[col][row] is NaN until the symbol has its first observation; later
// gaps carry the previous value forward.
type Comparison struct {
	Dates   []time.Time
	Symbols []string
	Values  [][]float64
}

// AlignReturns builds the comparison table for set. Dates on which every
// symbol is still empty are dropped.
func AlignReturns(set *model.SeriesSet) Comparison {
	var cmp Comparison
	seen := make(map[time.Time]struct{})
	lookups := make([]map[time.Time]float64, 0, set.Len())
	for _, s := range set.All() {
		if len(s.RetAcum) != s.Len() {
			continue
		}
		byDate := make(map[time.Time]float64, s.Len())
		for i, p := range s.Points {
			byDate[p.Date] = s.RetAcum[i]
			seen[p.Date] = struct{}{}
		}
		cmp.Symbols = append(cmp.Symbols, s.Symbol)
		lookups = append(lookups, byDate)
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	cols := make([][]float64, len(lookups))
	for c, byDate := range lookups {
		col := make([]float64, len(dates))
		last := math.NaN()
		for r, d := range dates {
			if v, ok := byDate[d]; ok {
				last = v
			}
			col[r] = last
		}
		cols[c] = col
	}

	keep := make([]int, 0, len(dates))
	for r := range dates {
		for c := range cols {
			if !math.IsNaN(cols[c][r]) {
				keep = append(keep, r)
				break
			}
		}
	}
	cmp.Dates = make([]time.Time, len(keep))
	for i, r := range keep {
		cmp.Dates[i] = dates[r]
	}
	cmp.Values = make([][]float64, len(cols))
	for c := range cols {
		cmp.Values[c] = make([]float64, len(keep))
		for i, r := range keep {
			cmp.Values[c][i] = cols[c][r]
		}
	}
	return cmp
}
