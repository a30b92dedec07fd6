package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMomentumClampedLookback(t *testing.T) {
	ds := closesDataset(t, 10, 11, 12, 11, 10)

	mom, err := Momentum(ds, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 0, -2}, mom.Values())
	assert.Equal(t, 5, mom.CountDefined(), "clamping leaves no undefined prefix")

	osc, err := MomentumOscillator(ds, 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1.1, 1.2, 1, 10.0 / 12}, osc.Values(), 1e-12)

	_, err = Momentum(ds, 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestMomentumOscillatorZeroBase(t *testing.T) {
	osc, err := MomentumOscillator(closesDataset(t, 0, 1, 2), 1)
	require.NoError(t, err)
	assert.True(t, osc.At(0).IsNone())
	assert.True(t, osc.At(1).IsNone())
	assert.Equal(t, 2.0, osc.At(2).Unwrap())
}

func TestMovingAverages(t *testing.T) {
	ds := closesDataset(t, wavyCloses(80)...)

	bank, err := MultipleMovingAverages(ds)
	require.NoError(t, err)
	assert.Len(t, bank.Short, len(ShortTermWindows))
	assert.Len(t, bank.Long, len(LongTermWindows))
	for _, n := range ShortTermWindows {
		want, err := MovingAverage(ds, n)
		require.NoError(t, err)
		assert.Equal(t, want.Values(), bank.Short[n].Values(), "window %d", n)
	}
	assert.Equal(t, 80-60+1, bank.Long[60].CountDefined())

	mas, err := MovingAverages(ds, 10, 40)
	require.NoError(t, err)
	assert.Equal(t, bank.Short[10].Values(), mas[10].Values())

	ema, err := ExponentialMovingAverage(ds, 8)
	require.NoError(t, err)
	assert.Equal(t, ds.AdjClose.At(0).Unwrap(), ema.At(0).Unwrap())
}

func TestMACD(t *testing.T) {
	ds := closesDataset(t, wavyCloses(100)...)
	res, err := MovingAverageConvergenceDivergence(ds)
	require.NoError(t, err)

	short, err := ExponentialMovingAverage(ds, MACDShortSpan)
	require.NoError(t, err)
	long, err := ExponentialMovingAverage(ds, MACDLongSpan)
	require.NoError(t, err)
	for i := 0; i < ds.Len(); i++ {
		sig := res.Signal.At(i).Unwrap()
		assert.InDelta(t, short.At(i).Unwrap()-long.At(i).Unwrap(), sig, 1e-12)
		assert.InDelta(t, sig-res.Trigger.At(i).Unwrap(), res.Histogram.At(i).Unwrap(), 1e-12)
	}

	flat, err := MovingAverageConvergenceDivergence(closesDataset(t, 7, 7, 7, 7, 7, 7))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0, 0, 0}, flat.Signal.Values(), 1e-12)
}
