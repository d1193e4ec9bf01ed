// Package cache mirrors the most recent snapshot of each coin into Redis.
//
// Keys (with the configured prefix):
//   - <prefix>:coin:<coin_id>  hash of the latest row, expiring after ttl
//   - <prefix>:rank            sorted set of coin ids scored by market cap rank
//   - <prefix>:capture_time    capture time of the latest batch
//
// The database remains the system of record; the mirror is best effort.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rickgao/crypto-snapshots/internal/config"
	"github.com/rickgao/crypto-snapshots/internal/model"
)

// RedisPublisher writes the latest batch to Redis.
type RedisPublisher struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisPublisher wraps an existing client.
func NewRedisPublisher(client *redis.Client, prefix string, ttl time.Duration, logger *slog.Logger) *RedisPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPublisher{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

// Connect creates a client from config and verifies it with PING.
func Connect(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisPublisher(client, cfg.KeyPrefix, cfg.TTL, logger), nil
}

func (p *RedisPublisher) coinKey(coinID string) string {
	return fmt.Sprintf("%s:coin:%s", p.prefix, coinID)
}

func (p *RedisPublisher) rankKey() string {
	return p.prefix + ":rank"
}

func (p *RedisPublisher) captureTimeKey() string {
	return p.prefix + ":capture_time"
}

// PublishLatest replaces the mirrored state with rows in one pipeline.
func (p *RedisPublisher) PublishLatest(ctx context.Context, rows []model.SnapshotRow) error {
	if len(rows) == 0 {
		return nil
	}

	pipe := p.client.TxPipeline()

	pipe.Del(ctx, p.rankKey())
	for _, r := range rows {
		key := p.coinKey(r.CoinID)
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, snapshotFields(r))
		pipe.Expire(ctx, key, p.ttl)

		if r.MarketCapRank != nil {
			pipe.ZAdd(ctx, p.rankKey(), redis.Z{Score: float64(*r.MarketCapRank), Member: r.CoinID})
		}
	}
	pipe.Expire(ctx, p.rankKey(), p.ttl)
	pipe.Set(ctx, p.captureTimeKey(), rows[0].CaptureTime, p.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish latest snapshots: %w", err)
	}

	p.logger.Debug("published latest snapshots", "coins", len(rows))
	return nil
}

// Ping checks the connection to the Redis server.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the client.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// snapshotFields renders a row as hash fields. NULL columns are omitted.
func snapshotFields(r model.SnapshotRow) map[string]any {
	fields := map[string]any{
		"coin_id":      r.CoinID,
		"coin_name":    r.CoinName,
		"symbol":       r.Symbol,
		"capture_time": r.CaptureTime,
	}
	putFloat(fields, "current_price_usd", r.CurrentPriceUSD)
	putFloat(fields, "market_cap_usd", r.MarketCapUSD)
	putFloat(fields, "volume_24h_usd", r.Volume24hUSD)
	putFloat(fields, "price_change_24h_pct", r.PriceChange24hPct)
	if r.MarketCapRank != nil {
		fields["market_cap_rank"] = strconv.FormatInt(*r.MarketCapRank, 10)
	}
	return fields
}

func putFloat(fields map[string]any, name string, v *float64) {
	if v != nil {
		fields[name] = strconv.FormatFloat(*v, 'f', -1, 64)
	}
}
