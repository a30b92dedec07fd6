package screener

import (
	"time"

	"github.com/moznion/go-optional"

	"TrendScreener/internal/calculator"
	"TrendScreener/internal/model"
	"TrendScreener/internal/series"
)

// Reading is the latest value of one indicator; None when undefined.
type Reading struct {
	Name  string
	Value optional.Option[float64]
}

// Analysis summarises every indicator for a dataset as of its last bar.
type Analysis struct {
	Symbol   string
	AsOf     time.Time
	Trend    model.Trend
	Readings []Reading
}

// Analyze runs the full indicator set with default parameters.
func Analyze(ds *series.Dataset) (*Analysis, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, series.ErrEmptySeries
	}
	a := &Analysis{Symbol: ds.Symbol, AsOf: ds.Index()[ds.Len()-1]}
	last := func(name string, s *series.Series) {
		a.Readings = append(a.Readings, Reading{Name: name, Value: s.Last()})
	}
	scalar := func(name string, v float64) {
		a.Readings = append(a.Readings, Reading{Name: name, Value: optional.Some(v)})
	}

	trend, err := ClassifyTrend(ds)
	if err != nil {
		return nil, err
	}
	a.Trend = trend

	last("close", ds.Close)
	last("adj_close", ds.AdjClose)

	bank, err := calculator.MultipleMovingAverages(ds)
	if err != nil {
		return nil, err
	}
	for _, n := range calculator.ShortTermWindows {
		last(bank.Short[n].Name(), bank.Short[n])
	}
	for _, n := range calculator.LongTermWindows {
		last(bank.Long[n].Name(), bank.Long[n])
	}

	ema, err := calculator.ExponentialMovingAverage(ds, 20)
	if err != nil {
		return nil, err
	}
	last("ema_20", ema)
	wilder, err := calculator.WildersMovingAverage(ds)
	if err != nil {
		return nil, err
	}
	last("wilder_ma", wilder)

	mom, err := calculator.Momentum(ds, calculator.DefaultMomentumPeriod)
	if err != nil {
		return nil, err
	}
	last("momentum", mom)
	momOsc, err := calculator.MomentumOscillator(ds, calculator.DefaultMomentumPeriod)
	if err != nil {
		return nil, err
	}
	last("momentum_osc", momOsc)

	macd, err := calculator.MovingAverageConvergenceDivergence(ds)
	if err != nil {
		return nil, err
	}
	last("macd", macd.Signal)
	last("macd_trigger", macd.Trigger)
	last("macd_hist", macd.Histogram)

	obv, err := calculator.OnBalanceVolume(ds)
	if err != nil {
		return nil, err
	}
	last("obv", obv)
	ad, err := calculator.AccumulationDistribution(ds)
	if err != nil {
		return nil, err
	}
	last("acc_dist", ad)
	cmf, err := calculator.ChaikinMoneyFlow(ds, calculator.DefaultChaikinPeriod)
	if err != nil {
		return nil, err
	}
	last("chaikin_mf", cmf)

	dmi, err := calculator.DirectionalMovementSystem(ds, calculator.WilderDMIPeriod)
	if err != nil {
		return nil, err
	}
	last("plus_di", dmi.PlusDI)
	last("minus_di", dmi.MinusDI)
	last("adx", dmi.ADX)

	aroon, err := calculator.AroonOscillator(ds, calculator.DefaultAroonPeriod)
	if err != nil {
		return nil, err
	}
	last("aroon_up", aroon.Up)
	last("aroon_down", aroon.Down)
	last("aroon_osc", aroon.Oscillator)

	kc, err := calculator.KeltnerChannels(ds, calculator.DefaultKeltnerPeriod)
	if err != nil {
		return nil, err
	}
	last("keltner_upper", kc.Upper)
	last("keltner_lower", kc.Lower)

	for _, v := range []struct {
		name string
		fn   func(*series.Dataset, int) (float64, error)
	}{
		{"volatility_1p", calculator.VolatilitySinglePass},
		{"volatility_mp", calculator.VolatilityMultiPass},
		{"volatility_mpx", calculator.VolatilityMultiPassExpanding},
	} {
		vol, err := v.fn(ds, volatilityWindow)
		if err != nil {
			return nil, err
		}
		scalar(v.name, vol)
	}

	rsi, err := calculator.CalculateRSI(ds, calculator.DefaultRSIPeriod)
	if err != nil {
		return nil, err
	}
	scalar("rsi", rsi)

	hi, lo, err := calculator.Calculate52WeekRange(ds)
	if err != nil {
		return nil, err
	}
	scalar("52w_high", hi)
	scalar("52w_low", lo)
	if c := ds.Close.Last(); c.IsSome() {
		pos, err := calculator.Calculate52WeekPosition(c.Unwrap(), hi, lo)
		if err != nil {
			return nil, err
		}
		scalar("52w_position", pos)
	}
	hi, lo, err = calculator.Calculate30DayRange(ds)
	if err != nil {
		return nil, err
	}
	scalar("30d_high", hi)
	scalar("30d_low", lo)

	return a, nil
}

const volatilityWindow = 20

// Value returns the named reading.
func (a *Analysis) Value(name string) optional.Option[float64] {
	for _, r := range a.Readings {
		if r.Name == name {
			return r.Value
		}
	}
	return optional.None[float64]()
}
