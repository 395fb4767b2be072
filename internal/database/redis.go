package database

import (
	"context"

	"vaultbank-backend/config"

	"github.com/go-redis/redis/v8"
)

// Ctx is the background context used for redis calls; nothing in the
// request path needs per-call cancellation of cache operations.
var Ctx = context.Background()

func ConnectRedis(cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisFullAddr(),
		Password: cfg.RedisPassword,
		DB:       0, // use default DB
	})

	if _, err := rdb.Ping(Ctx).Result(); err != nil {
		return nil, err
	}
	return rdb, nil
}
