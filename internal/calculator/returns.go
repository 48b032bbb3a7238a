package calculator

// CumulativeReturn returns values[i]/values[0] - 1 for every i. When the
// first value is exactly zero every entry is zero.
func CumulativeReturn(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 || values[0] == 0 {
		return out
	}
	first := values[0]
	for i, v := range values {
		out[i] = v/first - 1
	}
	return out
}

// TotalReturn is last/first - 1, or 0 when first is zero.
func TotalReturn(first, last float64) float64 {
	if first == 0 {
		return 0
	}
	return last/first - 1
}
