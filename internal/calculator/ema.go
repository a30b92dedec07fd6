package calculator

import (
	"fmt"

	"TrendScreener/internal/series"
)

// Historical Wilder presets. Moving-average callers smooth over a 27-bar
// span, the directional movement system over a 14-bar period.
const (
	WilderMAPeriod  = 27
	WilderDMIPeriod = 14
)

// EMA returns the exponential moving average with alpha = 2/(span+1),
// seeded with the first defined observation.
func EMA(s *series.Series, span int) (*series.Series, error) {
	if err := checkWindow(span); err != nil {
		return nil, err
	}
	return smooth(s, 2/float64(span+1), fmt.Sprintf("ema_%d", span))
}

// WildersEMA applies Wilder smoothing, an EMA with alpha = 1/period.
func WildersEMA(s *series.Series, period int) (*series.Series, error) {
	if err := checkWindow(period); err != nil {
		return nil, err
	}
	return smooth(s, 1/float64(period), fmt.Sprintf("wilder_%d", period))
}

// smooth runs ema[i] = alpha*x[i] + (1-alpha)*ema[i-1]. Undefined inputs
// produce undefined outputs and leave the state untouched.
func smooth(s *series.Series, alpha float64, op string) (*series.Series, error) {
	if err := checkSeries(s); err != nil {
		return nil, err
	}
	vals := s.Values()
	out := make([]float64, len(vals))
	prev, seeded := 0.0, false
	for i, v := range vals {
		if series.IsUndefined(v) {
			out[i] = v
			continue
		}
		if !seeded {
			prev, seeded = v, true
		} else {
			prev = alpha*v + (1-alpha)*prev
		}
		out[i] = prev
	}
	return series.Derive(s, s.Name()+"_"+op, out)
}
