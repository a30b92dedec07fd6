package calculator

import (
	"fmt"

	"TrendScreener/internal/series"
)

// DefaultMomentumPeriod is the customary lookback for Momentum and
// MomentumOscillator.
const DefaultMomentumPeriod = 14

// MACD spans.
const (
	MACDShortSpan   = 12
	MACDLongSpan    = 26
	MACDTriggerSpan = 9
)

// Momentum returns adj[i] - adj[max(i-n, 0)]. The lookback is clamped at
// the first bar, so there is no undefined prefix.
func Momentum(ds *series.Dataset, n int) (*series.Series, error) {
	return lookback(ds, n, fmt.Sprintf("momentum_%d", n), func(cur, base float64) float64 {
		return cur - base
	})
}

// MomentumOscillator returns adj[i] / adj[max(i-n, 0)]. A zero base is
// undefined.
func MomentumOscillator(ds *series.Dataset, n int) (*series.Series, error) {
	return lookback(ds, n, fmt.Sprintf("momentum_osc_%d", n), func(cur, base float64) float64 {
		if base == 0 {
			return series.Undefined()
		}
		return cur / base
	})
}

func lookback(ds *series.Dataset, n int, name string, fn func(cur, base float64) float64) (*series.Series, error) {
	if err := checkDataset(ds); err != nil {
		return nil, err
	}
	if err := checkWindow(n); err != nil {
		return nil, err
	}
	vals := ds.AdjClose.Values()
	out := make([]float64, len(vals))
	for i, v := range vals {
		j := i - n
		if j < 0 {
			j = 0
		}
		out[i] = fn(v, vals[j])
	}
	return series.Derive(ds.AdjClose, name, out)
}

// MACDResult is the convergence/divergence line, its trigger and the gap
// between them.
type MACDResult struct {
	Signal    *series.Series // EMA12 - EMA26
	Trigger   *series.Series // EMA9 of Signal
	Histogram *series.Series // Signal - Trigger
}

// MovingAverageConvergenceDivergence computes MACD over adjusted close.
func MovingAverageConvergenceDivergence(ds *series.Dataset) (*MACDResult, error) {
	short, err := ExponentialMovingAverage(ds, MACDShortSpan)
	if err != nil {
		return nil, err
	}
	long, err := ExponentialMovingAverage(ds, MACDLongSpan)
	if err != nil {
		return nil, err
	}
	signal, err := series.Sub("macd", short, long)
	if err != nil {
		return nil, err
	}
	trigger, err := EMA(signal, MACDTriggerSpan)
	if err != nil {
		return nil, err
	}
	hist, err := series.Sub("macd_hist", signal, trigger)
	if err != nil {
		return nil, err
	}
	return &MACDResult{Signal: signal, Trigger: trigger.WithName("macd_trigger"), Histogram: hist}, nil
}
