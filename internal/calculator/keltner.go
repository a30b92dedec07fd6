package calculator

import (
	"TrendScreener/internal/series"
)

// DefaultKeltnerPeriod is the customary Keltner channel window.
const DefaultKeltnerPeriod = 10

// Keltner is the channel bounds next to the close they frame.
type Keltner struct {
	Upper *series.Series // rolling mean of high
	Lower *series.Series // rolling mean of low
	Close *series.Series
}

// KeltnerChannels computes n-day rolling means of high and low.
func KeltnerChannels(ds *series.Dataset, n int) (*Keltner, error) {
	if err := checkDataset(ds); err != nil {
		return nil, err
	}
	upper, err := RollingMean(ds.High, n)
	if err != nil {
		return nil, err
	}
	lower, err := RollingMean(ds.Low, n)
	if err != nil {
		return nil, err
	}
	return &Keltner{Upper: upper, Lower: lower, Close: ds.Close}, nil
}
