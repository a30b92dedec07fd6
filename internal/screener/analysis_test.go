package screener

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScreener/internal/model"
)

func TestAnalyze(t *testing.T) {
	a, err := Analyze(dataset(t, "RISE", rampBars(300, 50, 1)))
	require.NoError(t, err)

	assert.Equal(t, "RISE", a.Symbol)
	assert.Equal(t, model.TrendBullish, a.Trend)
	assert.InDelta(t, 349, a.Value("close").Unwrap(), 1e-9)
	assert.InDelta(t, 100, a.Value("rsi").Unwrap(), 1e-9)
	assert.InDelta(t, 350, a.Value("52w_high").Unwrap(), 1e-9)
	assert.InDelta(t, 327, a.Value("30d_low").Unwrap(), 1e-9)
	for _, name := range []string{"macd", "obv", "adx", "aroon_osc", "keltner_upper", "volatility_mp"} {
		assert.True(t, a.Value(name).IsSome(), name)
	}
	assert.True(t, a.Value("missing").IsNone())
}

func TestAnalyzeEmpty(t *testing.T) {
	_, err := Analyze(nil)
	assert.Error(t, err)
}

func TestRenderAnalysis(t *testing.T) {
	a, err := Analyze(dataset(t, "RISE", rampBars(40, 50, 1)))
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderAnalysis(&buf, a)
	out := buf.String()
	assert.Contains(t, out, "RISE")
	assert.Contains(t, out, "adj_close_mean_50")
	assert.True(t, a.Value("adj_close_mean_50").IsNone())
}

func TestRenderResult(t *testing.T) {
	res := &model.ScreenResult{
		Strategy:   "ema-trend(8,50)",
		FinishedAt: time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC),
		Scanned:    10,
		Hits: []model.ScreenHit{
			{Scrip: model.Scrip{Ticker: "ABC.NS", Name: "Abc Ltd"}, Trend: model.TrendBullish, LastClose: 123.456, AvgVolume: 98765},
		},
	}
	var buf bytes.Buffer
	RenderResult(&buf, res)
	out := strings.ToLower(buf.String())
	assert.Contains(t, out, "abc.ns")
	assert.Contains(t, out, "abc ltd")
	assert.Contains(t, out, "bullish")
	assert.Contains(t, out, "123.46")
	assert.Contains(t, out, "1 hits")
}
