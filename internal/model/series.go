package model

import "time"

// PricePoint is a single normalized observation. Date is timezone-naive and
// always stored in UTC.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// Series holds one symbol's points ordered by date plus derived columns
// aligned index-for-index with Points.
type Series struct {
	Symbol  string
	Points  []PricePoint
	MM20    []float64
	MM50    []float64
	RetAcum []float64
}

func (s *Series) Len() int { return len(s.Points) }

// Closes returns the close column.
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// FirstDate and LastDate return zero times for an empty series.
func (s *Series) FirstDate() time.Time {
	if len(s.Points) == 0 {
		return time.Time{}
	}
	return s.Points[0].Date
}

func (s *Series) LastDate() time.Time {
	if len(s.Points) == 0 {
		return time.Time{}
	}
	return s.Points[len(s.Points)-1].Date
}

// SeriesSet maps symbols to series and remembers insertion order.
type SeriesSet struct {
	order    []string
	bySymbol map[string]*Series
}

func NewSeriesSet() *SeriesSet {
	return &SeriesSet{bySymbol: make(map[string]*Series)}
}

// Set stores s under s.Symbol. Replacing a symbol keeps its first position.
func (ss *SeriesSet) Set(s *Series) {
	if _, ok := ss.bySymbol[s.Symbol]; !ok {
		ss.order = append(ss.order, s.Symbol)
	}
	ss.bySymbol[s.Symbol] = s
}

func (ss *SeriesSet) Get(symbol string) (*Series, bool) {
	s, ok := ss.bySymbol[symbol]
	return s, ok
}

func (ss *SeriesSet) Len() int { return len(ss.order) }

// Symbols returns the symbols in insertion order.
func (ss *SeriesSet) Symbols() []string {
	out := make([]string, len(ss.order))
	copy(out, ss.order)
	return out
}

// All returns the series in insertion order.
func (ss *SeriesSet) All() []*Series {
	out := make([]*Series, 0, len(ss.order))
	for _, sym := range ss.order {
		out = append(out, ss.bySymbol[sym])
	}
	return out
}
