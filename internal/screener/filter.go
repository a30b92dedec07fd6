package screener

import (
	"github.com/moznion/go-optional"

	"TrendScreener/internal/calculator"
	"TrendScreener/internal/model"
	"TrendScreener/internal/series"
)

// Moving-average bank for trend classification; the trend compares the
// longest of TrendCompare against the shortest.
var (
	TrendWindows = []int{10, 40, 60, 100}
	TrendCompare = [2]int{10, 60}
)

// DefaultVolumeWindow is the averaging window for the liquidity check.
const DefaultVolumeWindow = 100

// ClassifyTrend compares the last 60-day and 10-day means of adjusted close:
// a long mean below the short one is bullish, above it bearish. Too little
// history reads as flat.
func ClassifyTrend(ds *series.Dataset) (model.Trend, error) {
	mas, err := calculator.MovingAverages(ds, TrendWindows...)
	if err != nil {
		return model.TrendFlat, err
	}
	short, okS := valueAt(mas[TrendCompare[0]], -1)
	long, okL := valueAt(mas[TrendCompare[1]], -1)
	switch {
	case !okS || !okL:
		return model.TrendFlat, nil
	case long < short:
		return model.TrendBullish, nil
	case long > short:
		return model.TrendBearish, nil
	}
	return model.TrendFlat, nil
}

// Filter holds the liquidity, price and trend checks applied before a
// strategy runs.
type Filter struct {
	MinVolume    float64
	VolumeWindow int
	MinPrice     optional.Option[float64]
	MaxPrice     optional.Option[float64]
	Trend        optional.Option[model.Trend]
}

// Apply runs the checks and fills the hit's summary fields.
func (f Filter) Apply(ds *series.Dataset) (model.ScreenHit, bool, error) {
	hit := model.ScreenHit{Scrip: model.Scrip{Ticker: ds.Symbol}}

	last, ok := valueAt(ds.Close, -1)
	if !ok {
		return hit, false, nil
	}
	hit.LastClose = last

	window := f.VolumeWindow
	if window <= 0 {
		window = DefaultVolumeWindow
	}
	avgVol, err := calculator.RollingMean(ds.Volume, window)
	if err != nil {
		return hit, false, err
	}
	vol, volOK := valueAt(avgVol, -1)
	hit.AvgVolume = vol
	if f.MinVolume > 0 && (!volOK || vol < f.MinVolume) {
		return hit, false, nil
	}

	if f.MinPrice.IsSome() && last < f.MinPrice.Unwrap() {
		return hit, false, nil
	}
	if f.MaxPrice.IsSome() && last > f.MaxPrice.Unwrap() {
		return hit, false, nil
	}

	trend, err := ClassifyTrend(ds)
	if err != nil {
		return hit, false, err
	}
	hit.Trend = trend
	if f.Trend.IsSome() && f.Trend.Unwrap() != trend {
		return hit, false, nil
	}
	return hit, true, nil
}
