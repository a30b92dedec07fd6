package calculator

import (
	"github.com/pkg/errors"

	"TrendScreener/internal/series"
)

// VolatilitySinglePass takes the rolling deviation of adjusted close over n
// bars, then the deviation of that whole result, and returns it.
func VolatilitySinglePass(ds *series.Dataset, n int) (float64, error) {
	if err := checkDataset(ds); err != nil {
		return 0, err
	}
	if err := checkWindow(n); err != nil {
		return 0, err
	}
	first, err := stdPass(ds.AdjClose, n)
	if err != nil {
		return 0, err
	}
	whole, err := stdPass(first, first.Len())
	if err != nil {
		return 0, err
	}
	return whole.Last().Unwrap(), nil
}

// VolatilityMultiPass repeats the n-bar rolling deviation over its own
// output until fewer than n values remain, and returns the last value.
func VolatilityMultiPass(ds *series.Dataset, n int) (float64, error) {
	v, _, err := multiPass(ds, n, false)
	return v, err
}

// VolatilityMultiPassExpanding is VolatilityMultiPass with the window
// doubling after every pass.
func VolatilityMultiPassExpanding(ds *series.Dataset, n int) (float64, error) {
	v, _, err := multiPass(ds, n, true)
	return v, err
}

// multiPass stops when the output is shorter than the (possibly grown)
// window, or when a pass no longer shrinks the series, which only happens
// with a one-bar window. It also reports how many passes ran.
func multiPass(ds *series.Dataset, n int, expanding bool) (float64, int, error) {
	if err := checkDataset(ds); err != nil {
		return 0, 0, err
	}
	if err := checkWindow(n); err != nil {
		return 0, 0, err
	}
	cur := ds.AdjClose
	for pass := 1; ; pass++ {
		next, err := stdPass(cur, n)
		if err != nil {
			return 0, pass, err
		}
		if expanding {
			n *= 2
		}
		if next.Len() < n || next.Len() == cur.Len() {
			return next.Last().Unwrap(), pass, nil
		}
		cur = next
	}
}

// stdPass is one rolling deviation with undefined entries dropped. A window
// longer than the series is clamped to its length. Only the first pass can
// hit the clamp: every later pass runs on a series at least as long as the
// window that continued the loop.
func stdPass(s *series.Series, n int) (*series.Series, error) {
	if n > s.Len() {
		n = s.Len()
	}
	std, err := RollingStd(s, n)
	if err != nil {
		return nil, err
	}
	out := std.DropUndefined()
	if out.Len() == 0 {
		return nil, errors.Wrapf(series.ErrEmptySeries, "%s: no defined deviation over %d bars", s.Name(), n)
	}
	return out, nil
}
