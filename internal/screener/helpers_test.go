package screener

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"TrendScreener/internal/model"
	"TrendScreener/internal/series"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func dataset(t *testing.T, symbol string, bars []model.OHLCV) *series.Dataset {
	t.Helper()
	for i := range bars {
		bars[i].Time = day0.AddDate(0, 0, i)
	}
	ds, err := series.FromBars(symbol, bars)
	require.NoError(t, err)
	return ds
}

func flatBars(n int, open, closing, volume float64) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	for i := range bars {
		bars[i] = model.OHLCV{Open: open, High: open + 1, Low: closing - 1, Close: closing, AdjClose: closing, Volume: volume}
	}
	return bars
}

func rampBars(n int, from, step float64) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	for i := range bars {
		p := from + step*float64(i)
		bars[i] = model.OHLCV{Open: p, High: p + 1, Low: p - 1, Close: p, AdjClose: p, Volume: 5000}
	}
	return bars
}

// crossoverBars is 60 bars with close below open followed by one bar that
// closes well above its open on a large volume.
func crossoverBars(spikeVolume float64) []model.OHLCV {
	bars := flatBars(60, 101, 100, 1000)
	return append(bars, model.OHLCV{Open: 100, High: 121, Low: 99, Close: 120, AdjClose: 120, Volume: spikeVolume})
}
