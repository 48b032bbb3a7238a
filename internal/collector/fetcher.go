package collector

import (
	"context"
	"strings"
)

// Request describes one quote API call.
type Request struct {
	Tickers  []string
	Range    string
	Interval string
	Token    string
}

// Key identifies the request for caching. The token is not part of it.
func (r Request) Key() string {
	return strings.Join(r.Tickers, ",") + "|" + r.Range + "|" + r.Interval
}

// Fetcher retrieves the raw quote document for a request.
type Fetcher interface {
	FetchQuotes(ctx context.Context, req Request) ([]byte, error)
	Name() string
}
