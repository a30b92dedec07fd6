package calculator

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"TrendScreener/internal/series"
)

// DefaultChaikinPeriod is the customary Chaikin money flow window.
const DefaultChaikinPeriod = 20

// OnBalanceVolume starts at the first day's volume, then adds the volume of
// every up-close day and subtracts that of every down-close day.
func OnBalanceVolume(ds *series.Dataset) (*series.Series, error) {
	if err := checkDataset(ds); err != nil {
		return nil, err
	}
	closes, vols := ds.Close.Values(), ds.Volume.Values()
	out := make([]float64, len(closes))
	total := vols[0]
	out[0] = total
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			total += vols[i]
		case closes[i] < closes[i-1]:
			total -= vols[i]
		}
		out[i] = total
	}
	return series.Derive(ds.Close, "obv", out)
}

// AccumulationDistribution is the running sum of
// (2*close - low - high) / (high - low) * volume. A day without an intraday
// range contributes nothing.
func AccumulationDistribution(ds *series.Dataset) (*series.Series, error) {
	if err := checkDataset(ds); err != nil {
		return nil, err
	}
	mfv := moneyFlowVolume(ds)
	total := 0.0
	for i, v := range mfv {
		total += v
		mfv[i] = total
	}
	return series.Derive(ds.Close, "acc_dist", mfv)
}

// ChaikinMoneyFlow returns, for every day i > n, the ratio of the trailing
// n-day money-flow volume to the trailing n-day volume. Days up to n are
// undefined, and a window without volume reads 0.
func ChaikinMoneyFlow(ds *series.Dataset, n int) (*series.Series, error) {
	if err := checkDataset(ds); err != nil {
		return nil, err
	}
	if err := checkWindow(n); err != nil {
		return nil, err
	}
	mfv, vols := moneyFlowVolume(ds), ds.Volume.Values()
	out := make([]float64, len(mfv))
	for i := range out {
		if i <= n {
			out[i] = series.Undefined()
			continue
		}
		// equal window lengths, so the ratio of means is the ratio of sums
		flow, vol := floats.Sum(mfv[i-n+1:i+1]), floats.Sum(vols[i-n+1:i+1])
		if vol == 0 {
			out[i] = 0
			continue
		}
		out[i] = flow / vol
	}
	return series.Derive(ds.Close, fmt.Sprintf("cmf_%d", n), out)
}

// moneyFlowVolume returns multiplier*volume per day with the multiplier
// forced to 0 on zero-range days.
func moneyFlowVolume(ds *series.Dataset) []float64 {
	highs, lows, closes, vols := ds.High.Values(), ds.Low.Values(), ds.Close.Values(), ds.Volume.Values()
	out := make([]float64, len(closes))
	for i := range out {
		rng := highs[i] - lows[i]
		if rng == 0 || series.IsUndefined(rng) || series.IsUndefined(closes[i]) {
			continue
		}
		mult := ((closes[i] - lows[i]) - (highs[i] - closes[i])) / rng
		out[i] = mult * vols[i]
	}
	return out
}
