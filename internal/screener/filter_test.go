package screener

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScreener/internal/model"
)

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name string
		bars []model.OHLCV
		want model.Trend
	}{
		{"rising", rampBars(120, 50, 1), model.TrendBullish},
		{"falling", rampBars(120, 200, -1), model.TrendBearish},
		{"flat", flatBars(120, 100, 100, 1000), model.TrendFlat},
		{"short history", rampBars(30, 50, 1), model.TrendFlat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyTrend(dataset(t, "X", tt.bars))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterApply(t *testing.T) {
	ds := dataset(t, "RISE", rampBars(120, 50, 1))

	hit, ok, err := Filter{}.Apply(ds)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "RISE", hit.Scrip.Ticker)
	assert.InDelta(t, 169, hit.LastClose, 1e-9)
	assert.InDelta(t, 5000, hit.AvgVolume, 1e-9)
	assert.Equal(t, model.TrendBullish, hit.Trend)

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"volume met", Filter{MinVolume: 4000}, true},
		{"volume short", Filter{MinVolume: 6000}, false},
		{"volume window too long", Filter{MinVolume: 1, VolumeWindow: 500}, false},
		{"below max price", Filter{MaxPrice: optional.Some(200.0)}, true},
		{"above max price", Filter{MaxPrice: optional.Some(150.0)}, false},
		{"under min price", Filter{MinPrice: optional.Some(170.0)}, false},
		{"trend matches", Filter{Trend: optional.Some(model.TrendBullish)}, true},
		{"trend differs", Filter{Trend: optional.Some(model.TrendBearish)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := tt.filter.Apply(ds)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}
