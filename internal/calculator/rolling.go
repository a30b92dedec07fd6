package calculator

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"TrendScreener/internal/series"
)

// RollingMean returns the mean of the trailing n observations at each
// position. Positions before n-1, and windows holding an undefined value,
// are undefined. n larger than the series yields an all-undefined result.
func RollingMean(s *series.Series, n int) (*series.Series, error) {
	return rolling(s, n, "mean", func(w []float64) float64 {
		return stat.Mean(w, nil)
	})
}

// RollingStd returns the sample standard deviation (n-1 denominator) of the
// trailing n observations. A single-observation window has deviation 0.
func RollingStd(s *series.Series, n int) (*series.Series, error) {
	return rolling(s, n, "std", func(w []float64) float64 {
		if len(w) == 1 {
			return 0
		}
		return stat.StdDev(w, nil)
	})
}

func rolling(s *series.Series, n int, op string, kernel func([]float64) float64) (*series.Series, error) {
	if err := checkSeries(s); err != nil {
		return nil, err
	}
	if err := checkWindow(n); err != nil {
		return nil, err
	}
	vals := s.Values()
	out := make([]float64, len(vals))
	for i := range out {
		out[i] = series.Undefined()
		if i < n-1 {
			continue
		}
		w := vals[i-n+1 : i+1]
		if hasUndefined(w) {
			continue
		}
		out[i] = kernel(w)
	}
	return series.Derive(s, fmt.Sprintf("%s_%s_%d", s.Name(), op, n), out)
}

func hasUndefined(w []float64) bool {
	for _, v := range w {
		if series.IsUndefined(v) {
			return true
		}
	}
	return false
}
