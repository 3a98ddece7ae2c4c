package utils

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// DefaultLoginRate allows five login attempts per client per minute.
const DefaultLoginRate = "5-M"

const loginLimiterPrefix = "cashplus:login"

func parseRate(formatted string) limiter.Rate {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		slog.Warn("Invalid rate limit format, using default",
			slog.String("rate", formatted), slog.String("default", DefaultLoginRate))
		rate, _ = limiter.NewRateFromFormatted(DefaultLoginRate)
	}
	return rate
}

// NewMemoryLimiter builds a limiter whose counters live in this process.
func NewMemoryLimiter(formatted string) *limiter.Limiter {
	return limiter.New(memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          loginLimiterPrefix,
		CleanUpInterval: time.Minute,
	}), parseRate(formatted))
}

// NewRedisLimiter builds a limiter shared by every instance behind the same Redis.
// The returned client must be closed by the caller.
func NewRedisLimiter(ctx context.Context, redisURL, formatted string) (*limiter.Limiter, *redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("unable to reach redis: %w", err)
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: loginLimiterPrefix})
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("unable to create redis limiter store: %w", err)
	}
	return limiter.New(store, parseRate(formatted)), client, nil
}
