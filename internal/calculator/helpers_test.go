package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"TrendScreener/internal/model"
	"TrendScreener/internal/series"
)

func testDays(n int) []time.Time {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	idx := make([]time.Time, n)
	for i := range idx {
		idx[i] = start.AddDate(0, 0, i)
	}
	return idx
}

func newSeries(t *testing.T, vals ...float64) *series.Series {
	t.Helper()
	s, err := series.New("px", testDays(len(vals)), vals)
	require.NoError(t, err)
	return s
}

// closesDataset builds bars whose every price column equals the close.
func closesDataset(t *testing.T, closes ...float64) *series.Dataset {
	t.Helper()
	idx := testDays(len(closes))
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: idx[i], Open: c, High: c, Low: c, Close: c, AdjClose: c, Volume: 1000}
	}
	ds, err := series.FromBars("TEST", bars)
	require.NoError(t, err)
	return ds
}

func barsDataset(t *testing.T, bars []model.OHLCV) *series.Dataset {
	t.Helper()
	idx := testDays(len(bars))
	for i := range bars {
		bars[i].Time = idx[i]
	}
	ds, err := series.FromBars("TEST", bars)
	require.NoError(t, err)
	return ds
}

// risingBars is a steady uptrend: high = i+2, low = i, close = i+1.
func risingBars(n int) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	for i := range bars {
		f := float64(i)
		bars[i] = model.OHLCV{Open: f + 0.5, High: f + 2, Low: f, Close: f + 1, AdjClose: f + 1, Volume: 100 + f}
	}
	return bars
}

// wavyCloses returns a deterministic non-trivial price path.
func wavyCloses(n int) []float64 {
	out := make([]float64, n)
	v := 100.0
	for i := range out {
		switch i % 7 {
		case 0, 1, 3:
			v += 1.5
		case 2, 5:
			v -= 2.25
		default:
			v += 0.25
		}
		out[i] = v
	}
	return out
}
