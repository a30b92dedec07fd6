// Package store persists fetched bars and screening history.
package store

import (
	"context"
	"time"

	"TrendScreener/internal/model"
)

// Cache keeps fetched daily bars per symbol together with the date range
// they were fetched for.
type Cache interface {
	// LoadBars returns the cached bars within [start, end]. ok is false
	// when the cached range does not cover the request.
	LoadBars(ctx context.Context, symbol string, start, end time.Time) (bars []model.OHLCV, ok bool, err error)
	SaveBars(ctx context.Context, symbol string, start, end time.Time, bars []model.OHLCV) error
	Close() error
}

// History records screening runs.
type History interface {
	RecordRun(ctx context.Context, run *model.ScreenResult) error
	RecentRuns(ctx context.Context, limit int) ([]model.ScreenResult, error)
	Close() error
}

// coveredRange is the date span a cache entry was fetched for.
type coveredRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r coveredRange) covers(start, end time.Time) bool {
	return !r.Start.After(start) && !r.End.Before(end)
}

// merge widens r by o when the two spans touch, and otherwise replaces it.
func (r coveredRange) merge(o coveredRange) coveredRange {
	if o.Start.After(r.End.AddDate(0, 0, 1)) || o.End.Before(r.Start.AddDate(0, 0, -1)) {
		return o
	}
	if o.Start.Before(r.Start) {
		r.Start = o.Start
	}
	if o.End.After(r.End) {
		r.End = o.End
	}
	return r
}

func within(bars []model.OHLCV, start, end time.Time) []model.OHLCV {
	out := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		if b.Time.Before(start) || b.Time.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}
