// Package normalizer turns raw quote API documents into per-symbol price
// series with rolling means and cumulative return.
package normalizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"QuoteReport/internal/calculator"
	"QuoteReport/internal/model"
)

// Result is the outcome of a successful batch normalization.
type Result struct {
	Series *model.SeriesSet
	// Omitted lists symbols that normalized to no rows, in document order.
	Omitted []string
}

// NormalizeDocument normalizes every item of the document's results list.
// It fails with ErrUpstreamResponse when the document has no non-empty
// results array and with ErrEmptySeries when no symbol produced any rows.
func NormalizeDocument(raw []byte) (Result, error) {
	items, err := ResultItems(raw)
	if err != nil {
		return Result{}, err
	}
	return NormalizeItems(items)
}

// ResultItems extracts the non-empty results array from a raw document.
func ResultItems(raw []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrUpstreamResponse)
	}
	results := gjson.GetBytes(raw, "results")
	if !results.IsArray() {
		return nil, fmt.Errorf("%w: missing 'results' list", ErrUpstreamResponse)
	}
	items := results.Array()
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty 'results' list", ErrUpstreamResponse)
	}
	return items, nil
}

// NormalizeItems folds per-item series into an ordered set. A later item
// with a symbol already present replaces the earlier series in place.
// On ErrEmptySeries the returned Result still lists the omitted symbols.
func NormalizeItems(items []gjson.Result) (Result, error) {
	res := Result{Series: model.NewSeriesSet()}
	for _, item := range items {
		s := NormalizeItem(item)
		if s.Len() == 0 {
			res.Omitted = append(res.Omitted, s.Symbol)
			continue
		}
		res.Series.Set(s)
	}
	if res.Series.Len() == 0 {
		return Result{Omitted: res.Omitted}, fmt.Errorf("%w: %s", ErrEmptySeries, strings.Join(res.Omitted, ", "))
	}
	return res, nil
}

// NormalizeItem builds the enriched series for one raw item. The returned
// series may be empty.
func NormalizeItem(item gjson.Result) *model.Series {
	var s *model.Series
	switch p := Classify(item).(type) {
	case HistoricalSeries:
		s = fromHistory(p)
	case LatestQuoteOnly:
		s = fromLatest(p)
	}
	Enrich(s)
	return s
}

func fromHistory(p HistoricalSeries) *model.Series {
	var dates []nullTime
	switch {
	case anyHas(p.Rows, "date"):
		dates = dateColumn(p.Rows, "date")
	case anyHas(p.Rows, "timestamp"):
		dates = timestampColumn(p.Rows, "timestamp")
	default:
		dates = make([]nullTime, len(p.Rows))
	}

	closes := make([]*float64, len(p.Rows))
	if anyHas(p.Rows, "close") {
		for i, row := range p.Rows {
			closes[i] = numberField(row.Get("close"))
		}
	} else if p.FallbackPrice != nil {
		for i := range closes {
			closes[i] = p.FallbackPrice
		}
	}

	points := make([]model.PricePoint, 0, len(p.Rows))
	for i := range p.Rows {
		if !dates[i].valid || closes[i] == nil {
			continue
		}
		points = append(points, model.PricePoint{Date: dates[i].t, Close: *closes[i]})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return &model.Series{Symbol: p.Symbol, Points: points}
}

func fromLatest(p LatestQuoteOnly) *model.Series {
	s := &model.Series{Symbol: p.Symbol}
	if p.Price == nil {
		return s
	}
	if nt := parseAny(p.Time); nt.valid {
		s.Points = []model.PricePoint{{Date: nt.t, Close: *p.Price}}
	}
	return s
}

// Enrich fills the derived columns of s from its closes.
func Enrich(s *model.Series) {
	closes := s.Closes()
	s.MM20 = calculator.CalculateMM20(closes)
	s.MM50 = calculator.CalculateMM50(closes)
	s.RetAcum = calculator.CumulativeReturn(closes)
}

func anyHas(rows []gjson.Result, field string) bool {
	for _, row := range rows {
		if row.Get(field).Exists() {
			return true
		}
	}
	return false
}
