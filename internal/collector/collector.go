package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"QuoteReport/internal/normalizer"
)

// Collector fetches quote documents in chunks and normalizes the merged result.
type Collector struct {
	Fetcher        Fetcher
	ChunkSize      int
	MaxConcurrency int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, chunkSize, maxConcurrency int) *Collector {
	return &Collector{Fetcher: fetcher, ChunkSize: chunkSize, MaxConcurrency: maxConcurrency}
}

// Collect fetches every ticker of req and returns the normalized series in
// request order. Any chunk failing fails the whole call.
func (c *Collector) Collect(ctx context.Context, req Request) (normalizer.Result, error) {
	if len(req.Tickers) == 0 {
		return normalizer.Result{}, errors.New("no tickers requested")
	}
	chunks := chunkTickers(req.Tickers, c.ChunkSize)
	parts := make([][]gjson.Result, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	limit := c.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			sub := req
			sub.Tickers = chunk
			raw, err := c.Fetcher.FetchQuotes(gctx, sub)
			if err != nil {
				return fmt.Errorf("fetch %s from %s: %w", strings.Join(chunk, ","), c.Fetcher.Name(), err)
			}
			items, err := normalizer.ResultItems(raw)
			if err != nil {
				return fmt.Errorf("chunk %s: %w", strings.Join(chunk, ","), err)
			}
			parts[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return normalizer.Result{}, err
	}

	var items []gjson.Result
	for _, p := range parts {
		items = append(items, p...)
	}
	res, err := normalizer.NormalizeItems(items)
	for _, sym := range res.Omitted {
		log.Printf("[WARN] %s: no usable rows, skipping", sym)
	}
	if err != nil {
		return normalizer.Result{Omitted: res.Omitted}, err
	}
	return res, nil
}

func chunkTickers(tickers []string, size int) [][]string {
	if size <= 0 || size >= len(tickers) {
		return [][]string{tickers}
	}
	chunks := make([][]string, 0, (len(tickers)+size-1)/size)
	for start := 0; start < len(tickers); start += size {
		end := start + size
		if end > len(tickers) {
			end = len(tickers)
		}
		chunks = append(chunks, tickers[start:end])
	}
	return chunks
}
