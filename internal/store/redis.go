package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"TrendScreener/internal/model"
)

// RedisConfig configures the Redis bar cache.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration
	Namespace string
}

// RedisCache keeps one JSON document per symbol, expiring after TTL.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	namespace string
}

type redisEntry struct {
	Range coveredRange  `json:"range"`
	Bars  []model.OHLCV `json:"bars"`
}

// NewRedisCache connects and pings the server.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = "trendscreener"
	}
	return &RedisCache{client: client, ttl: cfg.TTL, namespace: ns}, nil
}

func (c *RedisCache) key(symbol string) string {
	return c.namespace + ":bars:" + symbol
}

func (c *RedisCache) LoadBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, bool, error) {
	data, err := c.client.Get(ctx, c.key(symbol)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", symbol, err)
	}
	var entry redisEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("decode cached %s: %w", symbol, err)
	}
	if !entry.Range.covers(start, end) {
		return nil, false, nil
	}
	bars := within(entry.Bars, start, end)
	return bars, len(bars) > 0, nil
}

// SaveBars replaces the entry unless the cached range touches the new one,
// in which case the bars are merged by date.
func (c *RedisCache) SaveBars(ctx context.Context, symbol string, start, end time.Time, bars []model.OHLCV) error {
	entry := redisEntry{Range: coveredRange{Start: start.UTC(), End: end.UTC()}, Bars: bars}

	if data, err := c.client.Get(ctx, c.key(symbol)).Bytes(); err == nil {
		var prev redisEntry
		if json.Unmarshal(data, &prev) == nil {
			merged := prev.Range.merge(entry.Range)
			if merged != entry.Range {
				entry = redisEntry{Range: merged, Bars: mergeBars(prev.Bars, bars)}
			}
		}
	} else if err != redis.Nil {
		return fmt.Errorf("redis get %s: %w", symbol, err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key(symbol), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", symbol, err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// mergeBars combines two date-sorted slices; bars from next win on equal
// dates.
func mergeBars(prev, next []model.OHLCV) []model.OHLCV {
	out := make([]model.OHLCV, 0, len(prev)+len(next))
	i, j := 0, 0
	for i < len(prev) && j < len(next) {
		switch {
		case prev[i].Time.Before(next[j].Time):
			out = append(out, prev[i])
			i++
		case next[j].Time.Before(prev[i].Time):
			out = append(out, next[j])
			j++
		default:
			out = append(out, next[j])
			i++
			j++
		}
	}
	out = append(out, prev[i:]...)
	return append(out, next[j:]...)
}
