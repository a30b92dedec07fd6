package calculator

import (
	"math"

	"github.com/pkg/errors"

	"TrendScreener/internal/series"
)

// Trading-day lookbacks for the range helpers.
const (
	TradingDaysYear  = 252
	TradingDaysMonth = 22
)

// Calculate52WeekRange scans the most recent 252 trading days and returns the high and low.
func Calculate52WeekRange(ds *series.Dataset) (high, low float64, err error) {
	return priceRange(ds, TradingDaysYear)
}

// Calculate30DayRange scans the most recent 22 trading days and returns the high and low.
func Calculate30DayRange(ds *series.Dataset) (high, low float64, err error) {
	return priceRange(ds, TradingDaysMonth)
}

func priceRange(ds *series.Dataset, days int) (high, low float64, err error) {
	if err := checkDataset(ds); err != nil {
		return 0, 0, err
	}
	highs, lows := ds.High.Tail(days).Values(), ds.Low.Tail(days).Values()
	high, low = math.Inf(-1), math.Inf(1)
	for i := range highs {
		if highs[i] > high {
			high = highs[i]
		}
		if lows[i] < low {
			low = lows[i]
		}
	}
	if math.IsInf(high, 0) || math.IsInf(low, 0) {
		return 0, 0, errors.Wrapf(series.ErrEmptySeries, "%s: no defined high/low in last %d bars", ds.Symbol, days)
	}
	return high, low, nil
}

// Calculate52WeekPosition returns where the current price sits within the 52-week range (0.0~1.0).
func Calculate52WeekPosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	return math.Max(0, math.Min(1, pos)), nil
}
