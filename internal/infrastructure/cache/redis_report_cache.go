package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appfinance "github.com/retailops/backend/internal/application/finance"
	"github.com/retailops/backend/internal/domain/finance"
)

const (
	trialBalanceKeyPrefix = "report:trial_balance:"
	trialBalanceTTL       = 5 * time.Minute
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisReportCache caches rendered financial reports in Redis. Suitable
// for distributed deployments where multiple instances serve reports.
// Cache failures are logged and treated as misses.
type RedisReportCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisReportCache creates a Redis-backed report cache
func NewRedisReportCache(cfg RedisConfig, logger *zap.Logger) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisReportCache{client: client, logger: logger}, nil
}

// NewRedisReportCacheWithClient creates a cache with an existing Redis client
func NewRedisReportCacheWithClient(client *redis.Client, logger *zap.Logger) *RedisReportCache {
	return &RedisReportCache{client: client, logger: logger}
}

var _ appfinance.ReportCache = (*RedisReportCache)(nil)

func trialBalanceKey(from, to time.Time) string {
	return fmt.Sprintf("%s%s:%s", trialBalanceKeyPrefix,
		from.UTC().Format("20060102T150405"), to.UTC().Format("20060102T150405"))
}

// GetTrialBalance looks up a cached trial balance for the period
func (c *RedisReportCache) GetTrialBalance(ctx context.Context, from, to time.Time) (*finance.TrialBalance, bool) {
	payload, err := c.client.Get(ctx, trialBalanceKey(from, to)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("trial balance cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var tb finance.TrialBalance
	if err := json.Unmarshal(payload, &tb); err != nil {
		c.logger.Warn("trial balance cache payload corrupt", zap.Error(err))
		return nil, false
	}
	return &tb, true
}

// SetTrialBalance caches a trial balance for the period
func (c *RedisReportCache) SetTrialBalance(ctx context.Context, from, to time.Time, tb *finance.TrialBalance) {
	payload, err := json.Marshal(tb)
	if err != nil {
		c.logger.Warn("trial balance cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, trialBalanceKey(from, to), payload, trialBalanceTTL).Err(); err != nil {
		c.logger.Warn("trial balance cache write failed", zap.Error(err))
	}
}

// InvalidateTrialBalance drops all cached trial balances. Called after
// ledger postings so stale balances never outlive a refund completion.
func (c *RedisReportCache) InvalidateTrialBalance(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, trialBalanceKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("trial balance cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("trial balance cache invalidation failed", zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}
