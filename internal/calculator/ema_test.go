package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScreener/internal/series"
)

func TestEMARecurrence(t *testing.T) {
	s := newSeries(t, 10, 11, 12, 11, 10)
	got, err := EMA(s, 3)
	require.NoError(t, err)

	alpha := 0.5
	want := []float64{10}
	for _, v := range []float64{11, 12, 11, 10} {
		want = append(want, alpha*v+(1-alpha)*want[len(want)-1])
	}
	assert.InDeltaSlice(t, want, got.Values(), 1e-12)
}

func TestEMADeterministic(t *testing.T) {
	s := newSeries(t, wavyCloses(200)...)
	a, err := EMA(s, 26)
	require.NoError(t, err)
	b, err := EMA(s, 26)
	require.NoError(t, err)
	assert.Equal(t, a.Values(), b.Values())
}

func TestEMASeedsAtFirstDefined(t *testing.T) {
	s := newSeries(t, series.Undefined(), series.Undefined(), 4, 8, series.Undefined(), 8)
	got, err := WildersEMA(s, 2)
	require.NoError(t, err)

	assert.True(t, got.At(0).IsNone())
	assert.True(t, got.At(1).IsNone())
	assert.Equal(t, 4.0, got.At(2).Unwrap())
	assert.Equal(t, 6.0, got.At(3).Unwrap())
	assert.True(t, got.At(4).IsNone())
	assert.Equal(t, 7.0, got.At(5).Unwrap(), "state carries over an undefined input")
}

func TestWilderPresets(t *testing.T) {
	ds := closesDataset(t, wavyCloses(60)...)
	wma, err := WildersMovingAverage(ds)
	require.NoError(t, err)
	ema, err := EMA(ds.AdjClose, WilderMAPeriod)
	require.NoError(t, err)
	assert.Equal(t, ema.Values(), wma.Values())

	_, err = EMA(ds.AdjClose, 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
	_, err = WildersEMA(ds.AdjClose, 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
