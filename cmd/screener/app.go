package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/moznion/go-optional"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"TrendScreener/internal/collector"
	"TrendScreener/internal/config"
	"TrendScreener/internal/logger"
	"TrendScreener/internal/model"
	"TrendScreener/internal/screener"
	"TrendScreener/internal/scrips"
	"TrendScreener/internal/store"
)

// app holds the dependencies shared by every command.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	cache     store.Cache
	history   store.History
	collector *collector.Collector
	closers   []func() error
}

func newApp(ctx context.Context, cmd *cli.Command) (*app, error) {
	cfgPath := cmd.String("config")
	if cfgPath == "" {
		cfgPath = config.Path()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := cmd.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a := &app{cfg: cfg, log: log}

	fetcher, err := a.fetcher()
	if err != nil {
		return nil, err
	}
	if err := a.openStores(ctx); err != nil {
		a.close()
		return nil, err
	}
	a.collector = collector.NewCollector(fetcher, a.cache, log)
	log.Debug("app ready",
		zap.String("config", cfgPath),
		zap.String("data_source", fetcher.Name()),
		zap.String("cache", cfg.Cache.Backend))
	return a, nil
}

func (a *app) fetcher() (collector.Fetcher, error) {
	ds := a.cfg.DataSource
	switch ds.Provider {
	case "polygon":
		f, err := collector.NewPolygonFetcher(ds.PolygonAPIKey, ds.RequestsPerSecond)
		if err != nil {
			return nil, fmt.Errorf("init polygon fetcher: %w", err)
		}
		return f, nil
	case "mock":
		return &collector.MockFetcher{Price: 100}, nil
	default:
		return collector.NewYahooFetcher(a.cfg.Proxy, ds.RequestsPerSecond), nil
	}
}

// openStores wires the bar cache and the run history. SQLite backs the
// history whenever caching is enabled; Redis replaces it as bar cache only.
func (a *app) openStores(ctx context.Context) error {
	c := a.cfg.Cache
	if c.Backend == "none" {
		a.history = store.NewNoop()
		return nil
	}

	if dir := filepath.Dir(c.SQLitePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	sqlite, err := store.NewSQLiteStore(c.SQLitePath, a.log)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, sqlite.Close)
	a.history = sqlite
	a.cache = sqlite

	if c.Backend == "redis" {
		rc, err := store.NewRedisCache(ctx, store.RedisConfig{Addr: c.RedisAddr, DB: c.RedisDB, TTL: c.TTL})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, rc.Close)
		a.cache = rc
	}
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

// dateRange resolves --start/--end against the configured window.
func (a *app) dateRange(cmd *cli.Command) (time.Time, time.Time, error) {
	start, end, err := a.cfg.ScreenRange()
	if err != nil {
		return start, end, err
	}
	if cmd.IsSet("start") {
		start = cmd.Timestamp("start")
	}
	if cmd.IsSet("end") {
		end = cmd.Timestamp("end")
	}
	return start, end, nil
}

// scripList resolves the symbols for a command: positional arguments win,
// otherwise the description file filtered by --filter.
func (a *app) scripList(cmd *cli.Command) ([]model.Scrip, error) {
	if args := cmd.Args().Slice(); len(args) > 0 {
		out := make([]model.Scrip, len(args))
		for i, t := range args {
			out[i] = model.Scrip{Ticker: scrips.Rename(t)}
		}
		return out, nil
	}
	path := a.cfg.Screen.Scrips
	if cmd.IsSet("scrips") {
		path = cmd.String("scrips")
	}
	list, err := scrips.Load(path)
	if err != nil {
		return nil, err
	}
	pattern := a.cfg.Screen.Filter
	if cmd.IsSet("filter") {
		pattern = cmd.String("filter")
	}
	return scrips.Filter(list, pattern)
}

// runner builds a screener.Runner from config overridden by flags.
func (a *app) runner(cmd *cli.Command, obs screener.Observer) (*screener.Runner, error) {
	sc := a.cfg.Screen
	name := sc.Strategy
	if cmd.IsSet("strategy") {
		name = cmd.String("strategy")
	}
	params := screener.Params{
		Short:     int(cmd.Int("short")),
		Long:      int(cmd.Int("long")),
		DaysDiff:  int(cmd.Int("days-diff")),
		DaysDelay: int(cmd.Int("days-delay")),
	}
	strategy, err := screener.New(name, params)
	if err != nil {
		return nil, err
	}

	filter := screener.Filter{MinVolume: sc.MinVolume, VolumeWindow: sc.VolumeWindow}
	if cmd.IsSet("min-volume") {
		filter.MinVolume = cmd.Float("min-volume")
	}
	if sc.MinPrice > 0 {
		filter.MinPrice = optional.Some(sc.MinPrice)
	}
	if sc.MaxPrice > 0 {
		filter.MaxPrice = optional.Some(sc.MaxPrice)
	}
	trendName := sc.Trend
	if cmd.IsSet("trend") {
		trendName = cmd.String("trend")
	}
	if trend, ok := model.ParseTrend(trendName); ok {
		filter.Trend = optional.Some(trend)
	}

	start, end, err := a.dateRange(cmd)
	if err != nil {
		return nil, err
	}
	workers := sc.Workers
	if cmd.IsSet("workers") {
		workers = int(cmd.Int("workers"))
	}
	desc := fmt.Sprintf("min_volume=%g trend=%s volume_window=%d start=%s",
		filter.MinVolume, trendName, filter.VolumeWindow, start.Format("2006-01-02"))
	return &screener.Runner{
		Source:   a.collector,
		Strategy: strategy,
		Filter:   filter,
		Workers:  workers,
		Start:    start,
		End:      end,
		Params:   desc,
		Log:      a.log,
		Observer: obs,
		Progress: !cmd.Bool("no-progress"),
	}, nil
}

// withApp adapts a command body that needs the shared dependencies.
func withApp(fn func(ctx context.Context, cmd *cli.Command, a *app) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(ctx, cmd, a)
	}
}
