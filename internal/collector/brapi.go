package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBrapiBaseURL is the public brapi.dev quote endpoint.
const DefaultBrapiBaseURL = "https://brapi.dev/api/quote"

// ErrUpstreamStatus is returned when the quote API answers with a non-200 status.
var ErrUpstreamStatus = errors.New("quote api returned unexpected status")

const maxErrorBody = 200

// BrapiFetcher implements Fetcher using the brapi.dev REST API.
type BrapiFetcher struct {
	BaseURL   string
	Token     string
	UserAgent string
	Client    HTTPClient
}

// NewBrapiFetcher creates a new fetcher with optional proxy support.
func NewBrapiFetcher(baseURL, token, proxyURL string, timeout time.Duration) *BrapiFetcher {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultBrapiBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BrapiFetcher{
		BaseURL:   baseURL,
		Token:     token,
		UserAgent: "quote-report/1.0",
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *BrapiFetcher) Name() string { return "brapi" }

// FetchQuotes calls GET {BaseURL}/{T1,T2}?range=&interval=. A token on the
// request takes precedence over the fetcher's own token.
func (f *BrapiFetcher) FetchQuotes(ctx context.Context, req Request) ([]byte, error) {
	if len(req.Tickers) == 0 {
		return nil, errors.New("no tickers requested")
	}
	escaped := make([]string, len(req.Tickers))
	for i, t := range req.Tickers {
		escaped[i] = url.PathEscape(t)
	}
	endpoint := strings.TrimRight(f.BaseURL, "/") + "/" + strings.Join(escaped, ",")
	params := url.Values{}
	if req.Range != "" {
		params.Set("range", req.Range)
	}
	if req.Interval != "" {
		params.Set("interval", req.Interval)
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	token := req.Token
	if token == "" {
		token = f.Token
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if f.UserAgent != "" {
		httpReq.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := f.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read quotes body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		snippet := body
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, fmt.Errorf("%w: HTTP %d calling %s -> %s", ErrUpstreamStatus, resp.StatusCode, endpoint, string(snippet))
	}
	return body, nil
}
