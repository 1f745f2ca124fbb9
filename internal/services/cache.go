package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foxxcyber/vitrine/internal/models"
)

const poolKeyPrefix = "vitrine:pool:"

// PoolCache stores fetched property pools by scope
type PoolCache interface {
	Get(ctx context.Context, scope models.PropertyScope) ([]*models.Property, bool, error)
	Set(ctx context.Context, scope models.PropertyScope, pool []*models.Property) error
	Invalidate(ctx context.Context) error
}

// RedisPoolCache keeps pools as JSON documents with a TTL
type RedisPoolCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient creates a client and checks the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func NewRedisPoolCache(client *redis.Client, ttl time.Duration) *RedisPoolCache {
	return &RedisPoolCache{client: client, ttl: ttl}
}

// poolCacheKey hashes the scope so user supplied ids never end up raw in a key
func poolCacheKey(scope models.PropertyScope) string {
	hash := md5.Sum([]byte(scope.Key()))
	return poolKeyPrefix + hex.EncodeToString(hash[:])
}

func (c *RedisPoolCache) Get(ctx context.Context, scope models.PropertyScope) ([]*models.Property, bool, error) {
	data, err := c.client.Get(ctx, poolCacheKey(scope)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var pool []*models.Property
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, false, err
	}
	return pool, true, nil
}

func (c *RedisPoolCache) Set(ctx context.Context, scope models.PropertyScope, pool []*models.Property) error {
	data, err := json.Marshal(pool)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, poolCacheKey(scope), data, c.ttl).Err()
}

// Invalidate drops every cached pool
func (c *RedisPoolCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, poolKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
