package calculator

import (
	"errors"
	"math"
)

// CloseRange returns the highest and lowest value in closes.
func CloseRange(closes []float64) (high, low float64, err error) {
	if len(closes) == 0 {
		return 0, 0, errors.New("no closes provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, c := range closes {
		if c > high {
			high = c
		}
		if c < low {
			low = c
		}
	}
	return high, low, nil
}
