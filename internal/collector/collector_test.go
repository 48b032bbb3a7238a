package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuoteReport/internal/normalizer"
)

var testEnd = time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)

func TestChunkTickers(t *testing.T) {
	tickers := []string{"A", "B", "C", "D", "E"}
	assert.Equal(t, [][]string{{"A", "B"}, {"C", "D"}, {"E"}}, chunkTickers(tickers, 2))
	assert.Equal(t, [][]string{tickers}, chunkTickers(tickers, 0))
	assert.Equal(t, [][]string{tickers}, chunkTickers(tickers, 10))
}

func TestCollect_MergesChunksInRequestOrder(t *testing.T) {
	f := &MockFetcher{End: testEnd}
	c := NewCollector(f, 1, 3)

	res, err := c.Collect(context.Background(), Request{Tickers: []string{"PETR4", "VALE3", "ITUB4"}, Range: "1mo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PETR4", "VALE3", "ITUB4"}, res.Series.Symbols())
	assert.Equal(t, 3, f.Calls())
	for _, s := range res.Series.All() {
		assert.Equal(t, 22, s.Len())
		assert.True(t, s.LastDate().Equal(testEnd))
		assert.Len(t, s.MM20, 22)
	}
}

func TestCollect_OmittedSymbols(t *testing.T) {
	f := &MockFetcher{Document: []byte(`{"results":[
		{"symbol":"PETR4","historicalDataPrice":[{"date":1700000000,"close":30}]},
		{"symbol":"NOPE3"}
	]}`)}
	c := NewCollector(f, 0, 1)

	res, err := c.Collect(context.Background(), Request{Tickers: []string{"PETR4", "NOPE3"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"PETR4"}, res.Series.Symbols())
	assert.Equal(t, []string{"NOPE3"}, res.Omitted)
}

func TestCollect_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name string
		f    *MockFetcher
		want error
	}{
		{name: "empty results", f: &MockFetcher{Document: []byte(`{"results":[]}`)}, want: normalizer.ErrUpstreamResponse},
		{name: "all empty", f: &MockFetcher{Document: []byte(`{"results":[{"symbol":"X"}]}`)}, want: normalizer.ErrEmptySeries},
		{name: "status", f: &MockFetcher{Err: ErrUpstreamStatus}, want: ErrUpstreamStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(tt.f, 0, 1)
			_, err := c.Collect(context.Background(), Request{Tickers: []string{"X"}})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCollect_NoTickers(t *testing.T) {
	c := NewCollector(&MockFetcher{}, 0, 1)
	_, err := c.Collect(context.Background(), Request{})
	assert.Error(t, err)
}

type flakyFetcher struct {
	mu   sync.Mutex
	fail string
	ok   *MockFetcher
}

func (f *flakyFetcher) Name() string { return "flaky" }

func (f *flakyFetcher) FetchQuotes(ctx context.Context, req Request) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range req.Tickers {
		if t == f.fail {
			return []byte(`{"error":"boom"}`), nil
		}
	}
	return f.ok.FetchQuotes(ctx, req)
}

func TestCollect_OneBadChunkFailsBatch(t *testing.T) {
	f := &flakyFetcher{fail: "BAD3", ok: &MockFetcher{End: testEnd}}
	c := NewCollector(f, 1, 2)

	_, err := c.Collect(context.Background(), Request{Tickers: []string{"PETR4", "BAD3"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, normalizer.ErrUpstreamResponse)
	assert.Contains(t, err.Error(), "BAD3")
}

func TestCachedFetcher_ServesWithinTTL(t *testing.T) {
	inner := &MockFetcher{End: testEnd}
	now := testEnd
	cf := NewCachedFetcher(inner, 4, time.Hour)
	cf.now = func() time.Time { return now }
	req := Request{Tickers: []string{"PETR4"}, Range: "5d"}

	first, err := cf.FetchQuotes(context.Background(), req)
	require.NoError(t, err)
	second, err := cf.FetchQuotes(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.Calls())

	now = now.Add(2 * time.Hour)
	_, err = cf.FetchQuotes(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.Calls())

	_, err = cf.FetchQuotes(context.Background(), Request{Tickers: []string{"VALE3"}, Range: "5d"})
	require.NoError(t, err)
	assert.Equal(t, 3, inner.Calls())
	assert.Equal(t, "mock", cf.Name())
}

func TestCachedFetcher_ZeroTTLPassesThrough(t *testing.T) {
	inner := &MockFetcher{End: testEnd}
	cf := NewCachedFetcher(inner, 4, 0)
	req := Request{Tickers: []string{"PETR4"}}

	_, err := cf.FetchQuotes(context.Background(), req)
	require.NoError(t, err)
	_, err = cf.FetchQuotes(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.Calls())
}

func TestCachedFetcher_ErrorsNotCached(t *testing.T) {
	inner := &MockFetcher{Err: errors.New("down")}
	cf := NewCachedFetcher(inner, 4, time.Hour)

	_, err := cf.FetchQuotes(context.Background(), Request{Tickers: []string{"PETR4"}})
	require.Error(t, err)
	inner.Err = nil
	inner.End = testEnd
	_, err = cf.FetchQuotes(context.Background(), Request{Tickers: []string{"PETR4"}})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.Calls())
}

func TestMockFetcher_DeterministicBasePrice(t *testing.T) {
	assert.Equal(t, basePriceFor("PETR4"), basePriceFor("PETR4"))
	assert.GreaterOrEqual(t, basePriceFor("VALE3"), 10.0)
	assert.Equal(t, 252, barsForRange(""))
}

func TestCollect_EmptySeriesKeepsOmittedSymbols(t *testing.T) {
	c := NewCollector(&MockFetcher{Document: []byte(`{"results":[{"symbol":"X"},{"ticker":"Y"}]}`)}, 0, 1)

	res, err := c.Collect(context.Background(), Request{Tickers: []string{"X", "Y"}})
	require.ErrorIs(t, err, normalizer.ErrEmptySeries)
	assert.Equal(t, []string{"X", "Y"}, res.Omitted)
	assert.ErrorContains(t, err, "X, Y")
}
