package chart

import (
	"fmt"

	"TrendScreener/internal/calculator"
	"TrendScreener/internal/series"
)

// DashboardWindows are the moving averages drawn over the price panel.
var DashboardWindows = []int{10, 40, 60}

// Dashboard lays out price with moving averages, volume, MACD and the
// directional movement lines for one dataset.
func Dashboard(ds *series.Dataset, width, panelHeight int) (*Figure, error) {
	f := NewFigure(fmt.Sprintf("%s adjusted close", ds.Symbol), width, panelHeight)

	price, err := f.Plot(ds.AdjClose, "adj close", 3, NewPanel)
	if err != nil {
		return nil, err
	}
	mas, err := calculator.MovingAverages(ds, DashboardWindows...)
	if err != nil {
		return nil, err
	}
	for _, n := range DashboardWindows {
		if _, err := f.Plot(mas[n], fmt.Sprintf("ma %d", n), 0, price); err != nil {
			return nil, err
		}
	}

	if _, err := f.Bar(ds.Volume, "volume", 1, NewPanel); err != nil {
		return nil, err
	}

	macd, err := calculator.MovingAverageConvergenceDivergence(ds)
	if err != nil {
		return nil, err
	}
	p, err := f.Plot(macd.Signal, "macd", 1, NewPanel)
	if err != nil {
		return nil, err
	}
	if _, err := f.Plot(macd.Trigger, "trigger", 0, p); err != nil {
		return nil, err
	}

	dmi, err := calculator.DirectionalMovementSystem(ds, calculator.WilderDMIPeriod)
	if err != nil {
		return nil, err
	}
	p, err = f.Plot(dmi.ADX, "adx", 1, NewPanel)
	if err != nil {
		return nil, err
	}
	if _, err := f.Plot(dmi.PlusDI, "+di", 0, p); err != nil {
		return nil, err
	}
	if _, err := f.Plot(dmi.MinusDI, "-di", 0, p); err != nil {
		return nil, err
	}
	return f, nil
}
