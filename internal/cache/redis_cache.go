package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	keyFidelidad = "config:fidelidad"
	keyCashback  = "config:cashback"
)

type RedisConfigCache struct {
	client *redis.Client
}

func NewRedisConfigCache(client *redis.Client) *RedisConfigCache {
	return &RedisConfigCache{client: client}
}

func (c *RedisConfigCache) GetFidelidad(ctx context.Context) (*model.ConfigFidelidad, bool, error) {
	var cfg model.ConfigFidelidad
	ok, err := c.get(ctx, keyFidelidad, &cfg)
	if !ok || err != nil {
		return nil, false, err
	}
	return &cfg, true, nil
}

func (c *RedisConfigCache) SetFidelidad(ctx context.Context, cfg *model.ConfigFidelidad, ttl time.Duration) error {
	return c.set(ctx, keyFidelidad, cfg, ttl)
}

func (c *RedisConfigCache) GetCashback(ctx context.Context) (*model.ConfigCashback, bool, error) {
	var cfg model.ConfigCashback
	ok, err := c.get(ctx, keyCashback, &cfg)
	if !ok || err != nil {
		return nil, false, err
	}
	return &cfg, true, nil
}

func (c *RedisConfigCache) SetCashback(ctx context.Context, cfg *model.ConfigCashback, ttl time.Duration) error {
	return c.set(ctx, keyCashback, cfg, ttl)
}

func (c *RedisConfigCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, keyFidelidad, keyCashback).Err()
}

func (c *RedisConfigCache) get(ctx context.Context, key string, dst any) (bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisConfigCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
