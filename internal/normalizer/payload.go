package normalizer

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const unknownSymbol = "UNKNOWN"

// Payload is one raw quote item resolved to the shape it was delivered in.
// It is either HistoricalSeries or LatestQuoteOnly.
type Payload interface {
	symbol() string
}

// HistoricalSeries carries a non-empty history array and the item's current
// price, used when the history rows have no close of their own.
type HistoricalSeries struct {
	Symbol        string
	Rows          []gjson.Result
	FallbackPrice *float64
}

// LatestQuoteOnly carries the latest quoted price and its timestamp.
type LatestQuoteOnly struct {
	Symbol string
	Time   gjson.Result
	Price  *float64
}

func (h HistoricalSeries) symbol() string { return h.Symbol }
func (l LatestQuoteOnly) symbol() string  { return l.Symbol }

// Classify resolves a raw item. historicalDataPrice wins over historicalData;
// empty arrays count as absent.
func Classify(item gjson.Result) Payload {
	sym := symbolOf(item)
	price := numberField(item.Get("regularMarketPrice"))
	for _, key := range []string{"historicalDataPrice", "historicalData"} {
		hist := item.Get(key)
		if !hist.IsArray() {
			continue
		}
		if rows := hist.Array(); len(rows) > 0 {
			return HistoricalSeries{Symbol: sym, Rows: rows, FallbackPrice: price}
		}
	}
	ts := item.Get("regularMarketTime")
	if !present(ts) {
		ts = item.Get("updatedAt")
	}
	return LatestQuoteOnly{Symbol: sym, Time: ts, Price: price}
}

func symbolOf(item gjson.Result) string {
	for _, key := range []string{"symbol", "ticker"} {
		if v := item.Get(key); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
			return v.Str
		}
	}
	return unknownSymbol
}

// present reports whether r holds a value other than null, "", 0 or false.
func present(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null:
		return false
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.False:
		return false
	}
	return r.Exists()
}

// numberField reads a JSON number or a numeric string. Non-finite values
// ("NaN", "Inf") are treated as missing.
func numberField(r gjson.Result) *float64 {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return nil
		}
		v = f
	default:
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
