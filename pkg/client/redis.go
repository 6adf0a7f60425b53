package client

import (
	"context"
	"time"

	"roomly/pkg/logger"

	"github.com/go-redis/redis/v8"
)

func (c *Client) SetRedis(log *logger.Logger, addr, password string, db int) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Redis backs only the display-info cache; the service degrades to
		// direct lookups without it.
		log.Warn("Redis connection failed, identity cache disabled", "error", err, "addr", addr)
		return
	}

	log.Info("Successfully connected to Redis")
	c.Redis = client
	c.log = log
}
