package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"golang.org/x/time/rate"

	"TrendScreener/internal/model"
)

// AggsIterator is the subset of the polygon iterator the fetcher reads.
type AggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// AggsClient lists aggregate bars.
type AggsClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) AggsIterator
}

var newYork = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}()

type restAggsClient struct {
	client *polygon.Client
}

func (c restAggsClient) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) AggsIterator {
	return c.client.ListAggs(ctx, params, options...)
}

// PolygonFetcher implements Fetcher with Polygon.io daily aggregates.
type PolygonFetcher struct {
	client  AggsClient
	limiter *rate.Limiter
}

// NewPolygonFetcher creates a fetcher for the given API key. The free tier
// allows five requests a minute; requestsPerSecond <= 0 leaves it unthrottled.
func NewPolygonFetcher(apiKey string, requestsPerSecond float64) (*PolygonFetcher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("polygon: api key is required")
	}
	return NewPolygonFetcherWithClient(restAggsClient{client: polygon.New(apiKey)}, requestsPerSecond), nil
}

// NewPolygonFetcherWithClient wires an existing aggregates client.
func NewPolygonFetcherWithClient(client AggsClient, requestsPerSecond float64) *PolygonFetcher {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &PolygonFetcher{client: client, limiter: rate.NewLimiter(limit, 1)}
}

func (f *PolygonFetcher) Name() string { return "polygon" }

// FetchDaily lists the range twice: unadjusted for prices and volume, then
// split-adjusted for AdjClose, joined on the session date.
func (f *PolygonFetcher) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if end.IsZero() {
		end = time.Now()
	}
	raw, err := f.list(ctx, symbol, start, end, false)
	if err != nil {
		return nil, err
	}
	adjusted, err := f.list(ctx, symbol, start, end, true)
	if err != nil {
		return nil, err
	}
	adjClose := make(map[time.Time]float64, len(adjusted))
	for _, agg := range adjusted {
		adjClose[aggDate(agg)] = agg.Close
	}

	bars := make([]model.OHLCV, 0, len(raw))
	for _, agg := range raw {
		day := aggDate(agg)
		a, ok := adjClose[day]
		if !ok {
			a = agg.Close
		}
		bars = append(bars, model.OHLCV{
			Time:     day,
			Open:     agg.Open,
			High:     agg.High,
			Low:      agg.Low,
			Close:    agg.Close,
			AdjClose: a,
			Volume:   agg.Volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return clip(bars, sessionDate(start.Unix(), 0), end), nil
}

func (f *PolygonFetcher) list(ctx context.Context, symbol string, start, end time.Time, adjusted bool) ([]models.Agg, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithAdjusted(adjusted).WithLimit(50000)

	iter := f.client.ListAggs(ctx, params)
	var aggs []models.Agg
	for iter.Next() {
		aggs = append(aggs, iter.Item())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("polygon aggs %s: %w", symbol, err)
	}
	return aggs, nil
}

// aggDate converts the aggregate's millisecond timestamp (midnight New York)
// to a UTC session date.
func aggDate(agg models.Agg) time.Time {
	t := time.Time(agg.Timestamp).In(newYork)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
