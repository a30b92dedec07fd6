package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"TrendScreener/internal/logger"
	"TrendScreener/internal/model"
	"TrendScreener/internal/notifier"
	"TrendScreener/internal/store"
)

// ErrRunInProgress is returned when a screen is triggered while one runs.
var ErrRunInProgress = errors.New("screen already running")

// Screener runs one screening pass over a scrip list.
type Screener interface {
	Run(ctx context.Context, scrips []model.Scrip) (*model.ScreenResult, error)
}

// ScripSource loads the scrips to screen; it is called on every run so
// edits to the description file are picked up.
type ScripSource func() ([]model.Scrip, error)

// Sender delivers reports.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages periodic screening.
type Scheduler struct {
	Cron     *cron.Cron
	Screener Screener
	Scrips   ScripSource
	Notifier Sender
	History  store.History
	Log      *logger.Logger
	Ctx      context.Context

	running atomic.Bool
}

// NewScheduler creates a new Scheduler. notifier may be nil.
func NewScheduler(ctx context.Context, sc Screener, scrips ScripSource, tn Sender, history store.History, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.NewNop()
	}
	if history == nil {
		history = store.NewNoop()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Screener: sc,
		Scrips:   scrips,
		Notifier: tn,
		History:  history,
		Log:      log,
		Ctx:      ctx,
	}
}

// Register adds the screening task on the given six-field cron spec.
func (s *Scheduler) Register(screenCron string) error {
	if _, err := s.Cron.AddFunc(screenCron, s.screenTask); err != nil {
		return fmt.Errorf("register screen task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunNow screens immediately, records the run and sends the report.
func (s *Scheduler) RunNow() (*model.ScreenResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)

	scrips, err := s.Scrips()
	if err != nil {
		s.trySend(fmt.Sprintf("❌ loading scrips failed: %v", err))
		return nil, fmt.Errorf("load scrips: %w", err)
	}

	res, runErr := s.Screener.Run(s.Ctx, scrips)
	if res == nil {
		s.trySend(fmt.Sprintf("❌ screen failed: %v", runErr))
		return nil, runErr
	}
	if runErr != nil {
		s.Log.Warn("screen finished with errors",
			zap.String("run_id", res.RunID),
			zap.Int("errors", len(multierr.Errors(runErr))))
	}

	if err := s.History.RecordRun(s.Ctx, res); err != nil {
		s.Log.Error("record screen run", zap.String("run_id", res.RunID), zap.Error(err))
	}
	s.trySend(notifier.FormatScreenReport(res))
	return res, runErr
}

func (s *Scheduler) screenTask() {
	s.Log.Info("running scheduled screen")
	if _, err := s.RunNow(); err != nil {
		s.Log.Warn("scheduled screen", zap.Error(err))
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/screen":
		if s.running.Load() {
			return "A screen is already running."
		}
		go s.screenTask()
		return "Screen started, the report follows when it finishes."
	case "/last":
		runs, err := s.History.RecentRuns(ctx, 1)
		if err != nil {
			return fmt.Sprintf("❌ reading history: %v", err)
		}
		if len(runs) == 0 {
			return notifier.FormatRunHistory(nil)
		}
		return notifier.FormatScreenReport(&runs[0])
	case "/history":
		runs, err := s.History.RecentRuns(ctx, 5)
		if err != nil {
			return fmt.Sprintf("❌ reading history: %v", err)
		}
		return notifier.FormatRunHistory(runs)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.Error("send notification", zap.Error(err))
	}
}
