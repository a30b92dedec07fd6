package chart

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScreener/internal/collector"
	"TrendScreener/internal/series"
)

func wave(t *testing.T, name string, n int, undefinedHead int) *series.Series {
	t.Helper()
	idx := make([]time.Time, n)
	vals := make([]float64, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range idx {
		idx[i] = start.AddDate(0, 0, i)
		vals[i] = 100 + 10*math.Sin(float64(i)/7)
		if i < undefinedHead {
			vals[i] = series.Undefined()
		}
	}
	s, err := series.New(name, idx, vals)
	require.NoError(t, err)
	return s
}

func TestFigurePanels(t *testing.T) {
	f := NewFigure("TEST.NS", 400, 100)
	price := wave(t, "close", 60, 0)

	p, err := f.Plot(price, "close", 2, NewPanel)
	require.NoError(t, err)
	assert.Equal(t, 0, p)

	p, err = f.Plot(wave(t, "ma_10", 60, 9), "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, p)

	p, err = f.Bar(wave(t, "volume", 60, 0), "volume", 1, NewPanel)
	require.NoError(t, err)
	assert.Equal(t, 1, p)
	assert.Equal(t, 2, f.Panels())

	_, err = f.Plot(price, "x", 1, 5)
	assert.True(t, errors.Is(err, ErrPanelOutOfRange))
	_, err = f.Bar(price, "x", 1, -2)
	assert.True(t, errors.Is(err, ErrPanelOutOfRange))

	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestFigureUndefinedOnlyPanel(t *testing.T) {
	f := NewFigure("", 300, 80)
	_, err := f.Plot(wave(t, "close", 30, 0), "close", 1, NewPanel)
	require.NoError(t, err)
	_, err = f.Plot(wave(t, "ma_50", 30, 30), "ma_50", 1, NewPanel)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dy())
}

func TestFigureSave(t *testing.T) {
	f := NewFigure("saved", 0, 0)
	_, err := f.Plot(wave(t, "close", 40, 0), "close", 1, NewPanel)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, f.Save(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestFigureEmpty(t *testing.T) {
	assert.Error(t, NewFigure("", 0, 0).Render(&bytes.Buffer{}))
	_, err := NewFigure("", 0, 0).Plot(nil, "", 1, NewPanel)
	assert.Error(t, err)
}

func TestDashboard(t *testing.T) {
	bars := collector.GenerateMockBars(250,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC))
	ds, err := series.FromBars("MOCK.NS", bars)
	require.NoError(t, err)

	f, err := Dashboard(ds, 600, 60)
	require.NoError(t, err)
	assert.Equal(t, 4, f.Panels())

	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 6*60, img.Bounds().Dy())
}
