// Package redis implements Redis-backed caching for derived progress
// reports. The domain recomputes metrics on demand; this cache only saves
// repeat work between mutations and is always safe to drop.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studyhub/study-progress-hub/internal/application/query"
	"github.com/studyhub/study-progress-hub/pkg/logger"
)

// Config holds Redis connection configuration.
type Config struct {
	// URL is a redis:// connection string. Takes precedence over Addr.
	URL string

	// Addr is the host:port address.
	Addr string

	// Password is the authentication password (empty if no auth).
	Password string

	// DB is the Redis database number.
	DB int

	// TTL is how long cached reports stay valid.
	TTL time.Duration
}

// DefaultTTL is used when the config does not set one.
const DefaultTTL = 5 * time.Minute

// ReportCache implements query.ReportCache on Redis.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewReportCache connects to Redis and returns the cache.
func NewReportCache(ctx context.Context, cfg Config, log *logger.Logger) (*ReportCache, error) {
	if log == nil {
		log = logger.NewNop()
	}

	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("redis: failed to parse URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: failed to ping: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ReportCache{client: client, ttl: ttl, log: log}, nil
}

// redisKey namespaces a query cache key. Query keys start with the program
// name and a pipe, which keeps per-program invalidation a pattern match.
func redisKey(cacheKey string) string {
	return "report:" + cacheKey
}

// Get returns the cached report for a query key, if present and fresh.
func (c *ReportCache) Get(ctx context.Context, key string) (*query.ProgressReport, bool) {
	data, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn(ctx, "report cache read failed", logger.Err(err))
		return nil, false
	}

	var report query.ProgressReport
	if err := json.Unmarshal(data, &report); err != nil {
		c.log.Warn(ctx, "report cache entry corrupt, dropping", logger.Err(err))
		_ = c.client.Del(ctx, redisKey(key)).Err()
		return nil, false
	}
	return &report, true
}

// Set stores a report with the configured TTL. Cache failures are logged
// and swallowed: the report is already computed.
func (c *ReportCache) Set(ctx context.Context, key string, report *query.ProgressReport) {
	data, err := json.Marshal(report)
	if err != nil {
		c.log.Warn(ctx, "report cache marshal failed", logger.Err(err))
		return
	}
	if err := c.client.Set(ctx, redisKey(key), data, c.ttl).Err(); err != nil {
		c.log.Warn(ctx, "report cache write failed", logger.Err(err))
	}
}

// Invalidate drops every cached report for a program, whatever alert inputs
// it was computed with. Called by command handlers after mutations.
func (c *ReportCache) Invalidate(ctx context.Context, programName string) {
	pattern := redisKey(programName) + "|*"
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn(ctx, "report cache invalidate failed", logger.Err(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn(ctx, "report cache invalidate scan failed", logger.Err(err))
	}
}

// Close closes the Redis client.
func (c *ReportCache) Close() error {
	return c.client.Close()
}
