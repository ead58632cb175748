package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-boxoffice/internal/config"
	"ms-boxoffice/internal/logger"
)

// InitializeRedis connects to redis and checks that it accepts writes.
func InitializeRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := client.Ping(pingCtx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}

	testKey := cfg.Prefix + ":healthcheck"
	if err := client.Set(pingCtx, testKey, "ok", 5*time.Second).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("write test value to redis: %w", err)
	}

	log.Info("REDIS", fmt.Sprintf("Redis cache ready at %s (DB: %d)", cfg.Addr, cfg.DB))
	return client, nil
}
