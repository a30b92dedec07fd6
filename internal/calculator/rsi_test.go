package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateRSI(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		period int
		want   float64
	}{
		{"insufficient data", []float64{1, 2, 3}, 14, 50},
		{"only gains", []float64{1, 2, 3, 4, 5, 6}, 3, 100},
		{"only losses", []float64{6, 5, 4, 3, 2, 1}, 3, 0},
		{"balanced", []float64{10, 11, 10, 11, 10}, 4, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateRSI(closesDataset(t, tt.closes...), tt.period)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, err := CalculateRSI(closesDataset(t, 1, 2), 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestPriceRanges(t *testing.T) {
	ds := barsDataset(t, risingBars(300))

	high, low, err := Calculate52WeekRange(ds)
	require.NoError(t, err)
	assert.Equal(t, 301.0, high)
	assert.Equal(t, 48.0, low)

	high, low, err = Calculate30DayRange(ds)
	require.NoError(t, err)
	assert.Equal(t, 301.0, high)
	assert.Equal(t, 278.0, low)

	pos, err := Calculate52WeekPosition(300, 301, 48)
	require.NoError(t, err)
	assert.InDelta(t, 252.0/253, pos, 1e-12)

	pos, err = Calculate52WeekPosition(5, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, pos)

	_, err = Calculate52WeekPosition(1, 1, 2)
	assert.Error(t, err)
}
