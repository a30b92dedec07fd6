package calculator

import (
	"github.com/pkg/errors"

	"TrendScreener/internal/series"
)

// ErrInvalidWindow is returned for a window or period below 1.
var ErrInvalidWindow = errors.New("window must be positive")

func checkWindow(n int) error {
	if n <= 0 {
		return errors.Wrapf(ErrInvalidWindow, "got %d", n)
	}
	return nil
}

func checkSeries(s *series.Series) error {
	if s == nil || s.Len() == 0 {
		return series.ErrEmptySeries
	}
	return nil
}

func checkDataset(ds *series.Dataset) error {
	if ds == nil || ds.Len() == 0 {
		return series.ErrEmptySeries
	}
	return nil
}
