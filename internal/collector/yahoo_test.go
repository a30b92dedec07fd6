package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-02, 2024-01-03 (null bar), 2024-01-04, all at 09:15 IST.
const chartJSON = `{"chart":{"result":[{
  "meta":{"gmtoffset":19800},
  "timestamp":[1704167100,1704253500,1704339900],
  "indicators":{
    "quote":[{"open":[100,null,102],"high":[105,null,106],"low":[99,null,101],"close":[104,null,103],"volume":[1000,null,1500]}],
    "adjclose":[{"adjclose":[52,null,51.5]}]
  }}],"error":null}}`

func newTestYahoo(url string) *YahooFetcher {
	f := NewYahooFetcher("", 0)
	f.BaseURL = url
	return f
}

func TestYahooFetchDaily(t *testing.T) {
	var gotPath, gotInterval string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInterval = r.URL.Query().Get("interval")
		_, _ = w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	bars, err := newTestYahoo(srv.URL).FetchDaily(context.Background(), "INFY.NS", start, end)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/INFY.NS", gotPath)
	assert.Equal(t, "1d", gotInterval)
	require.Len(t, bars, 2, "null bar is skipped")
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.Equal(t, 104.0, bars[0].Close)
	assert.Equal(t, 52.0, bars[0].AdjClose)
	assert.Equal(t, 1500.0, bars[1].Volume)
}

func TestYahooSymbolMap(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	_, err := newTestYahoo(srv.URL).FetchDaily(context.Background(), "NIFTY", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/^NSEI", gotPath)
}

func TestYahooRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	bars, err := newTestYahoo(srv.URL).FetchDaily(context.Background(), "INFY.NS", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, bars, 2)
	assert.Equal(t, int32(3), hits.Load())
}

func TestYahooClientErrorIsPermanent(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	_, err := newTestYahoo(srv.URL).FetchDaily(context.Background(), "NOPE.NS", time.Time{}, time.Time{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "status 404"))
	assert.Equal(t, int32(1), hits.Load())
}

func TestParseChartAPIError(t *testing.T) {
	_, err := parseChart([]byte(`{"chart":{"result":[],"error":{"code":"x","description":"boom"}}}`))
	assert.ErrorContains(t, err, "boom")

	_, err = parseChart([]byte(`{"chart":{"result":[],"error":null}}`))
	assert.ErrorContains(t, err, "no data")
}
