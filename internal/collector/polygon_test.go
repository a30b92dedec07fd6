package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"
)

type mockAggsIterator struct {
	aggs  []models.Agg
	index int
	err   error
}

func (m *mockAggsIterator) Next() bool {
	if m.err != nil || m.index >= len(m.aggs) {
		return false
	}
	m.index++
	return true
}

func (m *mockAggsIterator) Item() models.Agg { return m.aggs[m.index-1] }

func (m *mockAggsIterator) Err() error { return m.err }

type mockAggsClient struct {
	raw, adjusted []models.Agg
	err           error
	calls         []*models.ListAggsParams
}

func (m *mockAggsClient) ListAggs(_ context.Context, params *models.ListAggsParams, _ ...models.RequestOption) AggsIterator {
	m.calls = append(m.calls, params)
	if params.Adjusted != nil && *params.Adjusted {
		return &mockAggsIterator{aggs: m.adjusted, err: m.err}
	}
	return &mockAggsIterator{aggs: m.raw, err: m.err}
}

type PolygonFetcherTestSuite struct {
	suite.Suite
}

func TestPolygonFetcherSuite(t *testing.T) {
	suite.Run(t, new(PolygonFetcherTestSuite))
}

func nyMidnight(y int, m time.Month, d int) models.Millis {
	return models.Millis(time.Date(y, m, d, 0, 0, 0, 0, newYork))
}

func (suite *PolygonFetcherTestSuite) TestNewPolygonFetcherRequiresKey() {
	_, err := NewPolygonFetcher("", 0)
	suite.Error(err)

	f, err := NewPolygonFetcher("test-api-key", 0)
	suite.NoError(err)
	suite.Equal("polygon", f.Name())
}

func (suite *PolygonFetcherTestSuite) TestJoinsAdjustedClose() {
	client := &mockAggsClient{
		raw: []models.Agg{
			{Timestamp: nyMidnight(2024, 6, 10), Open: 1000, High: 1010, Low: 990, Close: 1005, Volume: 50},
			{Timestamp: nyMidnight(2024, 6, 11), Open: 1005, High: 1020, Low: 1000, Close: 1200, Volume: 60},
		},
		adjusted: []models.Agg{
			{Timestamp: nyMidnight(2024, 6, 10), Close: 100.5},
			{Timestamp: nyMidnight(2024, 6, 11), Close: 120},
		},
	}
	f := NewPolygonFetcherWithClient(client, 0)

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchDaily(context.Background(), "NVDA", start, end)
	suite.Require().NoError(err)
	suite.Require().Len(bars, 2)

	suite.Equal(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), bars[0].Time)
	suite.Equal(1005.0, bars[0].Close)
	suite.Equal(100.5, bars[0].AdjClose)
	suite.Equal(120.0, bars[1].AdjClose)

	suite.Require().Len(client.calls, 2)
	suite.Equal("NVDA", client.calls[0].Ticker)
	suite.Equal(models.Day, client.calls[0].Timespan)
	suite.False(*client.calls[0].Adjusted)
	suite.True(*client.calls[1].Adjusted)
}

func (suite *PolygonFetcherTestSuite) TestIteratorError() {
	f := NewPolygonFetcherWithClient(&mockAggsClient{err: errors.New("quota exceeded")}, 0)
	_, err := f.FetchDaily(context.Background(), "NVDA", time.Now().AddDate(0, -1, 0), time.Time{})
	suite.ErrorContains(err, "quota exceeded")
}
