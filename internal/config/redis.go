package config

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ConnectRedis opens the catalog cache connection. It returns a nil client
// when no address is configured.
func ConnectRedis(ctx context.Context, cfg RedisConfig, log zerolog.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		log.Info().Msg("redis disabled, loan type catalog is not cached")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().Str("addr", cfg.Addr).Msg("redis connected")
	return rdb, nil
}
