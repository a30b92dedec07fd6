package collector

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"TrendScreener/internal/logger"
	"TrendScreener/internal/model"
	"TrendScreener/internal/series"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols without an entry in Bars get a generated series around Price.
type MockFetcher struct {
	Price  float64
	Bars   map[string][]model.OHLCV
	Errors map[string]error

	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times FetchDaily ran.
func (m *MockFetcher) Calls() int64 { return m.calls.Load() }

func (m *MockFetcher) FetchDaily(_ context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	m.calls.Add(1)
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if end.IsZero() {
		end = time.Now()
	}
	if bars, ok := m.Bars[symbol]; ok {
		return clip(append([]model.OHLCV(nil), bars...), start, end), nil
	}
	return GenerateMockBars(m.Price, start, end), nil
}

// GenerateMockBars produces one bar per weekday in [start, end] with a
// gentle oscillating drift.
func GenerateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; !day.After(end); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + 0.001*float64(i) + 0.02*math.Sin(float64(i)/5))
		bars = append(bars, model.OHLCV{
			Time:     day,
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: p,
			Volume:   1000000,
		})
		i++
	}
	return bars
}

// BarCache stores fetched bars per symbol. LoadBars reports ok only when
// the cached range covers [start, end].
type BarCache interface {
	LoadBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, bool, error)
	SaveBars(ctx context.Context, symbol string, start, end time.Time, bars []model.OHLCV) error
}

// Collector fetches bars through an optional cache and turns them into
// datasets.
type Collector struct {
	Fetcher Fetcher
	Cache   BarCache
	Log     *logger.Logger
}

// NewCollector creates a new Collector. cache may be nil.
func NewCollector(fetcher Fetcher, cache BarCache, log *logger.Logger) *Collector {
	if log == nil {
		log = logger.NewNop()
	}
	return &Collector{Fetcher: fetcher, Cache: cache, Log: log}
}

// Bars returns daily bars for symbol, serving from the cache when it covers
// the range. Cache failures are logged and bypassed.
func (c *Collector) Bars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	end = normalizeEnd(end)
	if c.Cache != nil {
		bars, ok, err := c.Cache.LoadBars(ctx, symbol, start, end)
		switch {
		case err != nil:
			c.Log.Warn("cache load failed", zap.String("symbol", symbol), zap.Error(err))
		case ok:
			c.Log.Debug("cache hit", zap.String("symbol", symbol), zap.Int("bars", len(bars)))
			return bars, nil
		}
	}

	bars, err := c.Fetcher.FetchDaily(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", symbol, c.Fetcher.Name(), err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch %s from %s: %w", symbol, c.Fetcher.Name(), series.ErrEmptySeries)
	}
	if c.Cache != nil {
		if err := c.Cache.SaveBars(ctx, symbol, start, end, bars); err != nil {
			c.Log.Warn("cache save failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
	return bars, nil
}

// Dataset returns the validated OHLCV dataset for symbol.
func (c *Collector) Dataset(ctx context.Context, symbol string, start, end time.Time) (*series.Dataset, error) {
	bars, err := c.Bars(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	ds, err := series.FromBars(symbol, bars)
	if err != nil {
		return nil, fmt.Errorf("build dataset %s: %w", symbol, err)
	}
	return ds, nil
}

// normalizeEnd turns a zero end into today's date so cache coverage can be
// compared by day.
func normalizeEnd(end time.Time) time.Time {
	if end.IsZero() {
		end = time.Now()
	}
	return time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
}
