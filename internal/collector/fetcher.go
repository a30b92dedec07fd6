package collector

import (
	"context"
	"time"

	"TrendScreener/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDaily returns daily bars in [start, end], oldest first. A zero
	// end means up to the latest session.
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}

// sessionDate maps a bar timestamp to midnight UTC of its trading date,
// given the exchange's offset from UTC in seconds.
func sessionDate(ts int64, gmtOffset int64) time.Time {
	t := time.Unix(ts+gmtOffset, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func clip(bars []model.OHLCV, start, end time.Time) []model.OHLCV {
	out := bars[:0]
	for _, b := range bars {
		if b.Time.Before(start) || (!end.IsZero() && b.Time.After(end)) {
			continue
		}
		out = append(out, b)
	}
	return out
}
