package normalizer

import "errors"

var (
	// ErrUpstreamResponse means the quote document has no usable results list.
	ErrUpstreamResponse = errors.New("upstream response without valid results")
	// ErrEmptySeries means every symbol in the batch normalized to zero rows.
	ErrEmptySeries = errors.New("no historical data returned")
)
