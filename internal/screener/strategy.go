// Package screener selects scrips whose recent price action matches a
// strategy.
package screener

import (
	"fmt"

	"TrendScreener/internal/calculator"
	"TrendScreener/internal/series"
)

// Strategy decides whether a dataset matches. Datasets too short for the
// strategy's lookbacks do not match and are not an error.
type Strategy interface {
	Name() string
	Evaluate(ds *series.Dataset) (bool, error)
}

// Volume spurt settings shared by the 8-EMA family.
const (
	spurtWindow      = 50
	spurtMultiplier  = 3
	reversalLookback = 4
)

// valueAt reads s at a negative offset from the end.
func valueAt(s *series.Series, off int) (float64, bool) {
	v := s.At(off)
	if v.IsNone() {
		return 0, false
	}
	return v.Unwrap(), true
}

// EMATrend matches when the short EMA of adjusted close is above the long one.
type EMATrend struct {
	Short, Long int
}

func (s EMATrend) Name() string { return fmt.Sprintf("ema-trend(%d,%d)", s.Short, s.Long) }

func (s EMATrend) Evaluate(ds *series.Dataset) (bool, error) {
	short, err := calculator.ExponentialMovingAverage(ds, s.Short)
	if err != nil {
		return false, err
	}
	long, err := calculator.ExponentialMovingAverage(ds, s.Long)
	if err != nil {
		return false, err
	}
	a, okA := valueAt(short, -1)
	b, okB := valueAt(long, -1)
	return okA && okB && a > b, nil
}

// EMACrossover matches a close-price EMA crossover that happened within
// DaysDiff bars, evaluated DaysDelay bars before the latest one.
type EMACrossover struct {
	Short, Long         int
	DaysDiff, DaysDelay int
}

func (s EMACrossover) Name() string {
	return fmt.Sprintf("ema-crossover(%d,%d,diff=%d,delay=%d)", s.Short, s.Long, s.DaysDiff, s.DaysDelay)
}

func (s EMACrossover) Evaluate(ds *series.Dataset) (bool, error) {
	short, err := calculator.EMA(ds.Close, s.Short)
	if err != nil {
		return false, err
	}
	long, err := calculator.EMA(ds.Close, s.Long)
	if err != nil {
		return false, err
	}
	cur := -1 - s.DaysDelay
	end := cur - s.DaysDiff
	return above(short, long, cur) && atOrBelow(short, long, end), nil
}

// EMA8Crossover looks for the 8-bar EMA of close crossing above the 8-bar
// EMA of open, confirmed by a volume spurt. The optional checks reproduce
// the trend, reversal and delayed variants.
type EMA8Crossover struct {
	Label     string
	DaysDiff  int
	DaysDelay int
	// SpurtBars is how many bars ending at the evaluated one may carry the
	// volume spurt.
	SpurtBars       int
	RequireTrend    bool
	RequireReversal bool
}

func (s EMA8Crossover) Name() string {
	return fmt.Sprintf("%s(diff=%d,delay=%d)", s.Label, s.DaysDiff, s.DaysDelay)
}

func (s EMA8Crossover) Evaluate(ds *series.Dataset) (bool, error) {
	emaClose, err := calculator.EMA(ds.Close, 8)
	if err != nil {
		return false, err
	}
	emaOpen, err := calculator.EMA(ds.Open, 8)
	if err != nil {
		return false, err
	}
	avgVol, err := calculator.RollingMean(ds.Volume, spurtWindow)
	if err != nil {
		return false, err
	}

	cur := -1 - s.DaysDelay
	end := cur - s.DaysDiff
	if !above(emaClose, emaOpen, cur) || !atOrBelow(emaClose, emaOpen, end) {
		return false, nil
	}

	mean, ok := valueAt(avgVol, cur)
	if !ok {
		return false, nil
	}
	spurt := false
	for k := 0; k < max(s.SpurtBars, 1); k++ {
		if v, ok := valueAt(ds.Volume, cur-k); ok && v > spurtMultiplier*mean {
			spurt = true
			break
		}
	}
	if !spurt {
		return false, nil
	}

	if s.RequireTrend {
		ema50, err := calculator.EMA(ds.Close, 50)
		if err != nil {
			return false, err
		}
		if v, ok := valueAt(ema50, cur); !ok || v <= 0 {
			return false, nil
		}
	}

	if s.RequireReversal {
		now, ok1 := valueAt(emaClose, cur)
		prev, ok2 := valueAt(emaClose, cur-1)
		then, ok3 := valueAt(emaClose, end)
		before, ok4 := valueAt(emaClose, end-reversalLookback)
		if !(ok1 && ok2 && ok3 && ok4) || now <= prev || then > before {
			return false, nil
		}
	}
	return true, nil
}

func above(a, b *series.Series, off int) bool {
	x, okX := valueAt(a, off)
	y, okY := valueAt(b, off)
	return okX && okY && x > y
}

func atOrBelow(a, b *series.Series, off int) bool {
	x, okX := valueAt(a, off)
	y, okY := valueAt(b, off)
	return okX && okY && x <= y
}
