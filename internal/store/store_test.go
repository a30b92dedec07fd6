package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"TrendScreener/internal/model"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func barsFor(days ...int) []model.OHLCV {
	out := make([]model.OHLCV, len(days))
	for i, d := range days {
		p := float64(100 + d)
		out[i] = model.OHLCV{Time: day(d), Open: p, High: p + 1, Low: p - 1, Close: p, AdjClose: p, Volume: 1000}
	}
	return out
}

func TestCoveredRange(t *testing.T) {
	r := coveredRange{Start: day(5), End: day(20)}
	assert.True(t, r.covers(day(5), day(20)))
	assert.True(t, r.covers(day(6), day(10)))
	assert.False(t, r.covers(day(4), day(10)))
	assert.False(t, r.covers(day(6), day(21)))

	assert.Equal(t, coveredRange{Start: day(1), End: day(20)}, r.merge(coveredRange{Start: day(1), End: day(4)}), "adjacent spans join")
	assert.Equal(t, coveredRange{Start: day(5), End: day(25)}, r.merge(coveredRange{Start: day(10), End: day(25)}))
	assert.Equal(t, coveredRange{Start: day(25), End: day(30)}, r.merge(coveredRange{Start: day(25), End: day(30)}), "disjoint span replaces")
}

func TestMergeBars(t *testing.T) {
	prev := barsFor(1, 2, 3)
	next := barsFor(3, 4)
	next[0].Close = 999

	merged := mergeBars(prev, next)
	assert.Len(t, merged, 4)
	assert.Equal(t, 999.0, merged[2].Close)
	assert.Equal(t, day(4), merged[3].Time)
}

func TestWithin(t *testing.T) {
	got := within(barsFor(1, 2, 3, 4, 5), day(2), day(4))
	assert.Len(t, got, 3)
	assert.Equal(t, day(2), got[0].Time)
}

func TestNoop(t *testing.T) {
	n := NewNoop()
	var (
		_ Cache   = n
		_ History = n
	)
	_, ok, err := n.LoadBars(context.Background(), "X", day(1), day(2))
	assert.NoError(t, err)
	assert.False(t, ok)
}
