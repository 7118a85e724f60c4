// Package ratelimit provides the counter stores behind the auth endpoint rate limiter.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"catalog/config"
	"catalog/internal/domain/lifecycle"
	"catalog/internal/errors"

	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"golang.org/x/time/rate"
)

const (
	window         = time.Minute
	keyPrefix      = "rate_limit:"
	memoryStoreTTL = 3 * time.Minute
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New returns the store configured under rateLimit. It is nil when rate limiting is disabled.
// Without a redis address the counters live in process memory.
func New(params Params) (middleware.RateLimiterStore, error) {
	cfg := params.Config.RateLimit
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	if cfg.Redis == nil || cfg.Redis.Addr == "" {
		params.Logger.Info("Rate limiter uses the in-memory store", slog.Int("requestsPerMinute", cfg.RequestsPerMinute))

		return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(cfg.RequestsPerMinute) / window.Seconds()),
			Burst:     cfg.RequestsPerMinute,
			ExpiresIn: memoryStoreTTL,
		}), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				// Requests are still served; the store fails open until redis answers.
				params.Logger.Warn("Failed to connect to Redis", slog.String("addr", cfg.Redis.Addr), slog.Any("error", err))

				return nil
			}
			params.Logger.Info("Rate limiter uses redis", slog.String("addr", cfg.Redis.Addr))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return errors.Wrap(client.Close(), "failed to close redis client")
		},
	})

	return NewRedisStore(client, cfg.RequestsPerMinute, params.Logger), nil
}

// redisStore counts requests per identifier in fixed one-minute windows.
type redisStore struct {
	client  redis.Cmdable
	limit   int64
	timeout time.Duration
	logger  *slog.Logger
}

// NewRedisStore creates a store allowing limit requests per identifier per minute.
func NewRedisStore(client redis.Cmdable, limit int, logger *slog.Logger) middleware.RateLimiterStore {
	return &redisStore{
		client:  client,
		limit:   int64(limit),
		timeout: time.Second,
		logger:  logger,
	}
}

// Allow increments the identifier's counter. The first hit of a window sets its expiry.
// Redis failures let the request through.
func (s *redisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := keyPrefix + identifier

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		s.logger.Warn("Rate limiter store unavailable", slog.String("key", key), slog.Any("error", err))

		return true, nil
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			s.logger.Warn("Failed to set rate limit window", slog.String("key", key), slog.Any("error", err))
		}
	}

	return count <= s.limit, nil
}
