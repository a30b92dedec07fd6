package store

import (
	"context"
	"time"

	"TrendScreener/internal/model"
)

// Noop is a no-op implementation used when no backend is configured.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (n *Noop) LoadBars(_ context.Context, _ string, _, _ time.Time) ([]model.OHLCV, bool, error) {
	return nil, false, nil
}
func (n *Noop) SaveBars(_ context.Context, _ string, _, _ time.Time, _ []model.OHLCV) error {
	return nil
}
func (n *Noop) RecordRun(_ context.Context, _ *model.ScreenResult) error { return nil }
func (n *Noop) RecentRuns(_ context.Context, _ int) ([]model.ScreenResult, error) {
	return nil, nil
}
func (n *Noop) Close() error { return nil }
