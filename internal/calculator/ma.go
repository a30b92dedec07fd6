package calculator

import (
	"TrendScreener/internal/series"
)

// Window banks used by MultipleMovingAverages.
var (
	ShortTermWindows = []int{3, 5, 7, 10, 12, 15}
	LongTermWindows  = []int{30, 35, 40, 45, 50, 60}
)

// MovingAverage is the n-day simple moving average of adjusted close.
func MovingAverage(ds *series.Dataset, n int) (*series.Series, error) {
	if err := checkDataset(ds); err != nil {
		return nil, err
	}
	return RollingMean(ds.AdjClose, n)
}

// ExponentialMovingAverage is the n-day EMA of adjusted close.
func ExponentialMovingAverage(ds *series.Dataset, n int) (*series.Series, error) {
	if err := checkDataset(ds); err != nil {
		return nil, err
	}
	return EMA(ds.AdjClose, n)
}

// WildersMovingAverage is the EMA of adjusted close over the WilderMAPeriod span.
func WildersMovingAverage(ds *series.Dataset) (*series.Series, error) {
	return ExponentialMovingAverage(ds, WilderMAPeriod)
}

// MovingAverageBank holds simple moving averages keyed by window length.
type MovingAverageBank struct {
	Short map[int]*series.Series
	Long  map[int]*series.Series
}

// MultipleMovingAverages computes every window in ShortTermWindows and
// LongTermWindows.
func MultipleMovingAverages(ds *series.Dataset) (*MovingAverageBank, error) {
	bank := &MovingAverageBank{
		Short: make(map[int]*series.Series, len(ShortTermWindows)),
		Long:  make(map[int]*series.Series, len(LongTermWindows)),
	}
	for _, group := range []struct {
		windows []int
		into    map[int]*series.Series
	}{
		{ShortTermWindows, bank.Short},
		{LongTermWindows, bank.Long},
	} {
		for _, n := range group.windows {
			ma, err := MovingAverage(ds, n)
			if err != nil {
				return nil, err
			}
			group.into[n] = ma
		}
	}
	return bank, nil
}

// MovingAverages computes simple moving averages for arbitrary windows.
func MovingAverages(ds *series.Dataset, windows ...int) (map[int]*series.Series, error) {
	out := make(map[int]*series.Series, len(windows))
	for _, n := range windows {
		ma, err := MovingAverage(ds, n)
		if err != nil {
			return nil, err
		}
		out[n] = ma
	}
	return out, nil
}
