package collector

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"math"
	"sync/atomic"
	"time"

	"QuoteReport/internal/model"
)

// MockFetcher returns synthetic quote documents for development and testing.
type MockFetcher struct {
	// Prices maps a ticker to its base price; unknown tickers get one derived
	// from the ticker name.
	Prices map[string]float64
	// End is the date of the last generated bar. Zero means today.
	End time.Time
	// Document, when set, is returned verbatim.
	Document []byte
	Err      error

	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls reports how many times FetchQuotes ran.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }

func (m *MockFetcher) FetchQuotes(_ context.Context, req Request) ([]byte, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Document != nil {
		return m.Document, nil
	}
	end := m.End
	if end.IsZero() {
		end = time.Now().UTC()
	}
	end = end.Truncate(24 * time.Hour)

	doc := model.QuoteDocument{Results: make([]model.RawQuoteItem, 0, len(req.Tickers))}
	for _, t := range req.Tickers {
		base, ok := m.Prices[t]
		if !ok {
			base = basePriceFor(t)
		}
		bars := generateMockBars(base, barsForRange(req.Range), end)
		doc.Results = append(doc.Results, model.RawQuoteItem{
			Symbol:              t,
			HistoricalDataPrice: bars,
			RegularMarketPrice:  model.Price(bars[len(bars)-1]["close"].(float64)),
			RegularMarketTime:   end.Format(time.RFC3339),
		})
	}
	return json.Marshal(doc)
}

func basePriceFor(ticker string) float64 {
	h := fnv.New32a()
	h.Write([]byte(ticker))
	return 10 + float64(h.Sum32()%9000)/100
}

func barsForRange(rng string) int {
	switch rng {
	case "1d":
		return 1
	case "5d":
		return 5
	case "1mo":
		return 22
	case "3mo":
		return 66
	case "6mo":
		return 126
	case "2y":
		return 504
	case "5y", "10y", "max":
		return 1260
	default:
		return 252
	}
}

func generateMockBars(basePrice float64, count int, end time.Time) []map[string]any {
	bars := make([]map[string]any, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001 + 0.02*math.Sin(float64(i)/9))
		day := end.AddDate(0, 0, -(count - 1 - i))
		bars[i] = map[string]any{
			"date":   day.Unix(),
			"open":   p * 0.999,
			"high":   p * 1.005,
			"low":    p * 0.995,
			"close":  math.Round(p*100) / 100,
			"volume": 1000000,
		}
	}
	return bars
}
