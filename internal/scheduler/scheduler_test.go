package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"TrendScreener/internal/model"
	"TrendScreener/internal/store"
)

type fakeScreener struct {
	err   error
	gate  chan struct{}
	calls int
}

func (f *fakeScreener) Run(_ context.Context, scrips []model.Scrip) (*model.ScreenResult, error) {
	f.calls++
	if f.gate != nil {
		<-f.gate
	}
	now := time.Now()
	return &model.ScreenResult{
		RunID:      "run-1",
		Strategy:   "ema-trend(8,50)",
		StartedAt:  now.Add(-time.Second),
		FinishedAt: now,
		Scanned:    len(scrips),
		Hits:       []model.ScreenHit{{Scrip: scrips[0], LastClose: 10}},
	}, f.err
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func fixedScrips() ([]model.Scrip, error) {
	return []model.Scrip{{Ticker: "TCS.NS", Name: "Tata Consultancy Services"}, {Ticker: "INFY.NS"}}, nil
}

func newHistory(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestRunNowRecordsAndReports(t *testing.T) {
	ctx := context.Background()
	history := newHistory(t)
	sender := &fakeSender{}
	partial := multierr.Append(errors.New("INFY.NS: timeout"), nil)
	s := NewScheduler(ctx, &fakeScreener{err: partial}, fixedScrips, sender, history, nil)

	res, err := s.RunNow()
	assert.ErrorContains(t, err, "INFY.NS")
	require.NotNil(t, res)

	runs, err := history.RecentRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].RunID)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "TCS.NS")

	assert.Contains(t, s.HandleCommand(ctx, "/last"), "TCS.NS")
	assert.Contains(t, s.HandleCommand(ctx, "/history"), "1/2 hits")
	assert.Contains(t, s.HandleCommand(ctx, "/help"), "/screen")
}

func TestRunNowScripError(t *testing.T) {
	sender := &fakeSender{}
	sc := &fakeScreener{}
	s := NewScheduler(context.Background(), sc, func() ([]model.Scrip, error) {
		return nil, errors.New("no such file")
	}, sender, nil, nil)

	_, err := s.RunNow()
	require.Error(t, err)
	assert.Zero(t, sc.calls)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "no such file")
}

func TestRunNowRejectsOverlap(t *testing.T) {
	sc := &fakeScreener{gate: make(chan struct{})}
	s := NewScheduler(context.Background(), sc, fixedScrips, nil, nil, nil)

	done := make(chan struct{})
	go func() {
		_, _ = s.RunNow()
		close(done)
	}()
	require.Eventually(t, s.running.Load, time.Second, 5*time.Millisecond)

	_, err := s.RunNow()
	assert.ErrorIs(t, err, ErrRunInProgress)
	assert.Equal(t, "A screen is already running.", s.HandleCommand(context.Background(), "/screen"))

	close(sc.gate)
	<-done
}

func TestLastWithoutHistory(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeScreener{}, fixedScrips, nil, nil, nil)
	assert.Equal(t, "No screening runs recorded yet.", s.HandleCommand(context.Background(), "/last"))
}

func TestRegister(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeScreener{}, fixedScrips, nil, nil, nil)
	require.NoError(t, s.Register("0 30 16 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)
	assert.Error(t, s.Register("not a cron"))
}
