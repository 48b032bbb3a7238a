package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func naiveMean(values []float64, i, window int) float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, v := range values[start : i+1] {
		sum += v
	}
	return sum / float64(i-start+1)
}

func TestRollingMean_ShortWindowAtStart(t *testing.T) {
	got, err := RollingMean([]float64{30, 31.5}, 20)
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 30.75}, got)
}

func TestRollingMean_MatchesTrailingWindow(t *testing.T) {
	values := make([]float64, 120)
	for i := range values {
		values[i] = 100 + 10*math.Sin(float64(i)/7) + float64(i%5)
	}
	for _, window := range []int{20, 50} {
		got, err := RollingMean(values, window)
		require.NoError(t, err)
		require.Len(t, got, len(values))
		for i := range values {
			assert.InDeltaf(t, naiveMean(values, i, window), got[i], 1e-9, "window=%d i=%d", window, i)
		}
	}
}

func TestRollingMean_InvalidWindow(t *testing.T) {
	_, err := RollingMean([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestRollingMean_Empty(t *testing.T) {
	got, err := RollingMean(nil, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCalculateMM20AndMM50(t *testing.T) {
	closes := []float64{42}
	assert.Equal(t, []float64{42}, CalculateMM20(closes))
	assert.Equal(t, []float64{42}, CalculateMM50(closes))
}

func TestCumulativeReturn(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{name: "empty", values: nil, want: []float64{}},
		{name: "single", values: []float64{42}, want: []float64{0}},
		{name: "rising", values: []float64{30, 31.5, 27}, want: []float64{0, 0.05, -0.1}},
		{name: "zero first close", values: []float64{0, 10, 20}, want: []float64{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CumulativeReturn(tt.values)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-12)
			}
		})
	}
}

func TestTotalReturn(t *testing.T) {
	assert.InDelta(t, 0.05, TotalReturn(30, 31.5), 1e-12)
	assert.Equal(t, 0.0, TotalReturn(0, 31.5))
}

func TestCloseRange(t *testing.T) {
	high, low, err := CloseRange([]float64{31.5, 30, 33.25, 29.9})
	require.NoError(t, err)
	assert.Equal(t, 33.25, high)
	assert.Equal(t, 29.9, low)

	_, _, err = CloseRange(nil)
	assert.Error(t, err)
}
