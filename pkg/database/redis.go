package database

import (
	"context"
	"fmt"
	"time"

	"movie-discovery/pkg/utils"

	goredis "github.com/redis/go-redis/v9"
)

// InitRedis returns nil, nil when no address is configured. Callers treat a
// nil client as "cache and rate limiting disabled".
func InitRedis(config utils.RedisConfig) (*goredis.Client, error) {
	if config.Addr == "" {
		return nil, nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", config.Addr, err)
	}

	return client, nil
}
