package model

import "time"

// Trend is the direction derived from comparing a short and a long moving average.
type Trend int

const (
	TrendFlat Trend = iota
	TrendBullish
	TrendBearish
)

func (t Trend) String() string {
	switch t {
	case TrendBullish:
		return "bullish"
	case TrendBearish:
		return "bearish"
	default:
		return "flat"
	}
}

// ParseTrend accepts "all", "bullish"/"up"/"1" and "bearish"/"down"/"2".
// ok is false for "all" and the empty string, meaning no trend filter.
func ParseTrend(s string) (trend Trend, ok bool) {
	switch s {
	case "bullish", "up", "1":
		return TrendBullish, true
	case "bearish", "down", "2":
		return TrendBearish, true
	case "flat":
		return TrendFlat, true
	default:
		return TrendFlat, false
	}
}

// ScreenHit is one symbol accepted by a screening run.
type ScreenHit struct {
	Scrip     Scrip
	Trend     Trend
	LastClose float64
	AvgVolume float64
}

// ScreenResult is the outcome of screening a list of scrips with one strategy.
type ScreenResult struct {
	RunID      string
	Strategy   string
	Params     string
	StartedAt  time.Time
	FinishedAt time.Time
	Scanned    int
	Failed     int
	Hits       []ScreenHit
}
