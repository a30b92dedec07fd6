package screener

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"TrendScreener/internal/logger"
	"TrendScreener/internal/model"
	"TrendScreener/internal/series"
)

// Symbol outcomes reported to an Observer.
const (
	OutcomeHit      = "hit"
	OutcomeMiss     = "miss"
	OutcomeFiltered = "filtered"
	OutcomeError    = "error"
)

// DefaultWorkers bounds concurrent symbol evaluations.
const DefaultWorkers = 4

// DatasetSource loads a validated dataset for a symbol.
type DatasetSource interface {
	Dataset(ctx context.Context, symbol string, start, end time.Time) (*series.Dataset, error)
}

// Observer receives per-symbol and per-run measurements.
type Observer interface {
	ObserveSymbol(strategy, outcome string, elapsed time.Duration)
	ObserveRun(result *model.ScreenResult)
}

type nopObserver struct{}

func (nopObserver) ObserveSymbol(string, string, time.Duration) {}
func (nopObserver) ObserveRun(*model.ScreenResult)              {}

// Runner screens a list of scrips with one strategy.
type Runner struct {
	Source   DatasetSource
	Strategy Strategy
	Filter   Filter
	Workers  int
	Start    time.Time
	End      time.Time
	Params   string
	Log      *logger.Logger
	Observer Observer
	Progress bool
}

// Run evaluates every scrip. The returned result is always usable; the
// error aggregates per-symbol failures and reports cancellation.
func (r *Runner) Run(ctx context.Context, scrips []model.Scrip) (*model.ScreenResult, error) {
	if r.Strategy == nil {
		return nil, errors.New("screener: no strategy")
	}
	log := r.Log
	if log == nil {
		log = logger.NewNop()
	}
	obs := r.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	workers := r.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	result := &model.ScreenResult{
		RunID:     uuid.NewString(),
		Strategy:  r.Strategy.Name(),
		Params:    r.Params,
		StartedAt: time.Now(),
	}

	var bar *progressbar.ProgressBar
	if r.Progress {
		bar = progressbar.NewOptions(len(scrips),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription(fmt.Sprintf("Screening %s", r.Strategy.Name())),
			progressbar.OptionShowCount())
	}

	var (
		mu      sync.Mutex
		symErrs error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, scrip := range scrips {
		scrip := scrip
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			began := time.Now()
			hit, outcome, err := r.evaluate(gctx, scrip)
			obs.ObserveSymbol(r.Strategy.Name(), outcome, time.Since(began))

			mu.Lock()
			defer mu.Unlock()
			if bar != nil {
				_ = bar.Add(1)
			}
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				result.Failed++
				symErrs = multierr.Append(symErrs, fmt.Errorf("%s: %w", scrip.Ticker, err))
				log.Warn("screen symbol failed", zap.String("symbol", scrip.Ticker), zap.Error(err))
				return nil
			}
			result.Scanned++
			if outcome == OutcomeHit {
				result.Hits = append(result.Hits, hit)
			}
			return nil
		})
	}
	waitErr := g.Wait()
	if waitErr == nil {
		waitErr = ctx.Err()
	}
	if bar != nil {
		_ = bar.Finish()
	}

	sort.Slice(result.Hits, func(i, j int) bool {
		return result.Hits[i].Scrip.Ticker < result.Hits[j].Scrip.Ticker
	})
	result.FinishedAt = time.Now()
	obs.ObserveRun(result)

	log.Info("screen finished",
		zap.String("run_id", result.RunID),
		zap.String("strategy", result.Strategy),
		zap.Int("scanned", result.Scanned),
		zap.Int("failed", result.Failed),
		zap.Int("hits", len(result.Hits)),
		zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)))

	return result, multierr.Append(waitErr, symErrs)
}

func (r *Runner) evaluate(ctx context.Context, scrip model.Scrip) (model.ScreenHit, string, error) {
	ds, err := r.Source.Dataset(ctx, scrip.Ticker, r.Start, r.End)
	if err != nil {
		return model.ScreenHit{}, OutcomeError, err
	}
	hit, ok, err := r.Filter.Apply(ds)
	if err != nil {
		return hit, OutcomeError, err
	}
	hit.Scrip = scrip
	if !ok {
		return hit, OutcomeFiltered, nil
	}
	matched, err := r.Strategy.Evaluate(ds)
	if err != nil {
		return hit, OutcomeError, err
	}
	if !matched {
		return hit, OutcomeMiss, nil
	}
	return hit, OutcomeHit, nil
}
