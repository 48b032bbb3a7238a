package model

// RawQuoteItem is one symbol's payload as returned by the quote API.
// Row fields stay untyped because the upstream mixes epoch numbers and
// date strings under the same key.
type RawQuoteItem struct {
	Symbol              string           `json:"symbol,omitempty"`
	Ticker              string           `json:"ticker,omitempty"`
	HistoricalDataPrice []map[string]any `json:"historicalDataPrice,omitempty"`
	HistoricalData      []map[string]any `json:"historicalData,omitempty"`
	RegularMarketPrice  *float64         `json:"regularMarketPrice,omitempty"`
	RegularMarketTime   any              `json:"regularMarketTime,omitempty"`
	UpdatedAt           any              `json:"updatedAt,omitempty"`
}

// QuoteDocument is the top-level quote API response.
type QuoteDocument struct {
	Results []RawQuoteItem `json:"results"`
}

// Price returns a pointer to p, for building RawQuoteItem literals.
func Price(p float64) *float64 { return &p }
