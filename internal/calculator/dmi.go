package calculator

import (
	"fmt"
	"math"

	"TrendScreener/internal/series"
)

// DirectionalMovement is the output of the directional movement system.
type DirectionalMovement struct {
	PlusDI  *series.Series
	MinusDI *series.Series
	ADX     *series.Series
}

// DirectionalMovementSystem computes +DI, -DI and ADX with Wilder smoothing
// over period n (WilderDMIPeriod is the usual choice). The first bar has no
// predecessor and is undefined in every output.
func DirectionalMovementSystem(ds *series.Dataset, n int) (*DirectionalMovement, error) {
	if err := checkDataset(ds); err != nil {
		return nil, err
	}
	if err := checkWindow(n); err != nil {
		return nil, err
	}
	highs, lows, closes := ds.High.Values(), ds.Low.Values(), ds.Close.Values()
	size := len(highs)
	plusDM, minusDM, tr := make([]float64, size), make([]float64, size), make([]float64, size)
	plusDM[0], minusDM[0], tr[0] = series.Undefined(), series.Undefined(), series.Undefined()
	for i := size - 1; i > 0; i-- {
		plusDM[i], minusDM[i] = directionalMove(highs[i]-highs[i-1], lows[i-1]-lows[i])
		tr[i] = math.Max(highs[i]-lows[i],
			math.Max(math.Abs(highs[i]-closes[i-1]), math.Abs(closes[i-1]-lows[i])))
	}

	smoothed := make([][]float64, 3)
	for k, raw := range [][]float64{plusDM, minusDM, tr} {
		s, err := series.Derive(ds.Close, "dm", raw)
		if err != nil {
			return nil, err
		}
		w, err := WildersEMA(s, n)
		if err != nil {
			return nil, err
		}
		smoothed[k] = w.Values()
	}
	sPlus, sMinus, sTR := smoothed[0], smoothed[1], smoothed[2]

	plusDI, minusDI, dx := make([]float64, size), make([]float64, size), make([]float64, size)
	for i := range dx {
		if series.IsUndefined(sTR[i]) {
			plusDI[i], minusDI[i], dx[i] = sTR[i], sTR[i], sTR[i]
			continue
		}
		if sTR[i] != 0 {
			plusDI[i] = 100 * sPlus[i] / sTR[i]
			minusDI[i] = 100 * sMinus[i] / sTR[i]
		}
		if sum := plusDI[i] + minusDI[i]; sum != 0 {
			dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / sum
		}
	}

	result := &DirectionalMovement{}
	var err error
	if result.PlusDI, err = series.Derive(ds.Close, fmt.Sprintf("plus_di_%d", n), plusDI); err != nil {
		return nil, err
	}
	if result.MinusDI, err = series.Derive(ds.Close, fmt.Sprintf("minus_di_%d", n), minusDI); err != nil {
		return nil, err
	}
	dxs, err := series.Derive(ds.Close, "dx", dx)
	if err != nil {
		return nil, err
	}
	adx, err := WildersEMA(dxs, n)
	if err != nil {
		return nil, err
	}
	result.ADX = adx.WithName(fmt.Sprintf("adx_%d", n))
	return result, nil
}

// directionalMove classifies one day's high and low deltas. Both negative,
// or equal, means no directional movement.
func directionalMove(deltaHigh, deltaLow float64) (plus, minus float64) {
	switch {
	case (deltaHigh < 0 && deltaLow < 0) || deltaHigh == deltaLow:
		return 0, 0
	case deltaHigh > deltaLow:
		return deltaHigh, 0
	default:
		return 0, deltaLow
	}
}
