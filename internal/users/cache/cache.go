package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"roomly/pkg/model"

	"github.com/go-redis/redis/v8"
)

// Cache holds display-only user info. Entries are TTL-bounded; staleness is
// acceptable because nothing correctness-bearing reads from here.
type Cache interface {
	Get(ctx context.Context, userID string) (*model.UserInfo, bool)
	Set(ctx context.Context, info *model.UserInfo)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{
		client: client,
		ttl:    ttl,
	}
}

func key(userID string) string {
	return "user_info:" + userID
}

func (c *redisCache) Get(ctx context.Context, userID string) (*model.UserInfo, bool) {
	data, err := c.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// Treat any Redis failure as a miss.
			return nil, false
		}
		return nil, false
	}

	var info model.UserInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, false
	}
	return &info, true
}

func (c *redisCache) Set(ctx context.Context, info *model.UserInfo) {
	data, err := json.Marshal(info)
	if err != nil {
		return
	}
	c.client.Set(ctx, key(info.ID), data, c.ttl)
}

// NoopCache is used when Redis is unavailable; every lookup goes to the
// store.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, userID string) (*model.UserInfo, bool) { return nil, false }
func (NoopCache) Set(ctx context.Context, info *model.UserInfo)                  {}
