package calculator

import (
	"fmt"

	"TrendScreener/internal/series"
)

// DefaultAroonPeriod is the customary Aroon lookback.
const DefaultAroonPeriod = 14

// Aroon holds the up and down lines and their difference.
type Aroon struct {
	Up         *series.Series
	Down       *series.Series
	Oscillator *series.Series
}

// AroonOscillator scans the trailing window of up to n bars of adjusted
// close ending at each day. With idx the position of the extreme inside
// that window (oldest is 0, the earliest wins ties), each line reads
// (n-1-idx)/n*100.
func AroonOscillator(ds *series.Dataset, n int) (*Aroon, error) {
	if err := checkDataset(ds); err != nil {
		return nil, err
	}
	if err := checkWindow(n); err != nil {
		return nil, err
	}
	vals := ds.AdjClose.Values()
	up, down, osc := make([]float64, len(vals)), make([]float64, len(vals)), make([]float64, len(vals))
	for i := range vals {
		from := i - n + 1
		if from < 0 {
			from = 0
		}
		hi, lo := extremes(vals[from : i+1])
		up[i] = float64(n-1-hi) / float64(n) * 100
		down[i] = float64(n-1-lo) / float64(n) * 100
		osc[i] = up[i] - down[i]
	}
	like := ds.AdjClose
	result := &Aroon{}
	var err error
	if result.Up, err = series.Derive(like, fmt.Sprintf("aroon_up_%d", n), up); err != nil {
		return nil, err
	}
	if result.Down, err = series.Derive(like, fmt.Sprintf("aroon_down_%d", n), down); err != nil {
		return nil, err
	}
	if result.Oscillator, err = series.Derive(like, fmt.Sprintf("aroon_osc_%d", n), osc); err != nil {
		return nil, err
	}
	return result, nil
}

// extremes returns the first positions of the maximum and minimum of w.
func extremes(w []float64) (hi, lo int) {
	for i, v := range w {
		if v > w[hi] {
			hi = i
		}
		if v < w[lo] {
			lo = i
		}
	}
	return hi, lo
}
