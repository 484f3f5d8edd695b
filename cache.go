package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// resultCache stores serialized calculator responses by request key.
type resultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// redisCache is a resultCache backed by Redis with a fixed TTL.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// newRedisCache connects to Redis and verifies the connection. Callers treat
// an error as "run without a cache".
func newRedisCache(ctx context.Context, cfg RedisConfig) (*redisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return &redisCache{client: client, ttl: cfg.TTL}, nil
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
