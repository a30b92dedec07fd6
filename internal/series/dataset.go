package series

import (
	"time"

	"github.com/pkg/errors"

	"TrendScreener/internal/model"
)

// Column names one of the dataset's price/volume columns.
type Column string

const (
	Open     Column = "open"
	High     Column = "high"
	Low      Column = "low"
	Close    Column = "close"
	AdjClose Column = "adj_close"
	Volume   Column = "volume"
)

// Dataset is one symbol's daily OHLCV history. All columns share a single
// index.
type Dataset struct {
	Symbol   string
	Open     *Series
	High     *Series
	Low      *Series
	Close    *Series
	AdjClose *Series
	Volume   *Series
}

// NewDataset validates that the columns are present and aligned. adjClose
// may be nil, in which case Close stands in for it.
func NewDataset(symbol string, open, high, low, closing, adjClose, volume *Series) (*Dataset, error) {
	if adjClose == nil && closing != nil {
		adjClose = closing.WithName(string(AdjClose))
	}
	cols := []struct {
		name Column
		s    *Series
	}{
		{Open, open}, {High, high}, {Low, low}, {Close, closing}, {AdjClose, adjClose}, {Volume, volume},
	}
	for _, c := range cols {
		if c.s == nil {
			return nil, errors.Wrapf(ErrMissingColumn, "%s: %s", symbol, c.name)
		}
	}
	if closing.Len() == 0 {
		return nil, errors.Wrapf(ErrEmptySeries, "%s", symbol)
	}
	for _, c := range cols {
		if !c.s.AlignedWith(closing) {
			return nil, errors.Wrapf(ErrMisaligned, "%s: column %s has %d rows, close has %d",
				symbol, c.name, c.s.Len(), closing.Len())
		}
	}
	return &Dataset{
		Symbol:   symbol,
		Open:     open,
		High:     high,
		Low:      low,
		Close:    closing,
		AdjClose: adjClose,
		Volume:   volume,
	}, nil
}

// FromBars builds a Dataset from bars sorted by time. A zero AdjClose on
// every bar means the source had none, and Close is used instead.
func FromBars(symbol string, bars []model.OHLCV) (*Dataset, error) {
	n := len(bars)
	index := make([]time.Time, n)
	o, h, l, c, a, v := make([]float64, n), make([]float64, n), make([]float64, n),
		make([]float64, n), make([]float64, n), make([]float64, n)
	hasAdj := false
	for i, b := range bars {
		index[i] = b.Time
		o[i], h[i], l[i], c[i], a[i], v[i] = b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume
		if b.AdjClose != 0 {
			hasAdj = true
		}
	}
	if !hasAdj {
		a = c
	}

	build := func(col Column, vals []float64) (*Series, error) { return New(string(col), index, vals) }
	closing, err := build(Close, c)
	if err != nil {
		return nil, errors.Wrap(err, symbol)
	}
	// the index was validated once above; the rest cannot fail on ordering
	open, _ := Derive(closing, string(Open), o)
	high, _ := Derive(closing, string(High), h)
	low, _ := Derive(closing, string(Low), l)
	adj, _ := Derive(closing, string(AdjClose), a)
	vol, _ := Derive(closing, string(Volume), v)
	return NewDataset(symbol, open, high, low, closing, adj, vol)
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return d.Close.Len() }

// Index returns a copy of the shared timestamps.
func (d *Dataset) Index() []time.Time { return d.Close.Index() }

// Column returns the named column.
func (d *Dataset) Column(c Column) (*Series, error) {
	switch c {
	case Open:
		return d.Open, nil
	case High:
		return d.High, nil
	case Low:
		return d.Low, nil
	case Close:
		return d.Close, nil
	case AdjClose:
		return d.AdjClose, nil
	case Volume:
		return d.Volume, nil
	}
	return nil, errors.Wrapf(ErrMissingColumn, "%s: unknown column %q", d.Symbol, c)
}

// Bars converts the dataset back into bars.
func (d *Dataset) Bars() []model.OHLCV {
	bars := make([]model.OHLCV, d.Len())
	for i := range bars {
		bars[i] = model.OHLCV{
			Time:     d.Close.index[i],
			Open:     d.Open.values[i],
			High:     d.High.values[i],
			Low:      d.Low.values[i],
			Close:    d.Close.values[i],
			AdjClose: d.AdjClose.values[i],
			Volume:   d.Volume.values[i],
		}
	}
	return bars
}
