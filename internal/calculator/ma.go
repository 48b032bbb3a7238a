package calculator

import "errors"

// RollingMean computes the trailing mean of values over window points. Early
// positions use the points available so far, so out[0] == values[0].
func RollingMean(values []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	out := make([]float64, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		sum := 0.0
		for j := start; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(i-start+1)
	}
	return out, nil
}

// CalculateMM20 returns the 20-point rolling mean.
func CalculateMM20(closes []float64) []float64 {
	out, _ := RollingMean(closes, 20)
	return out
}

// CalculateMM50 returns the 50-point rolling mean.
func CalculateMM50(closes []float64) []float64 {
	out, _ := RollingMean(closes, 50)
	return out
}
