package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dev-event-hub/internal/model"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 快取中沒有該活動
var ErrCacheMiss = errors.New("cache miss")

type EventCache interface {
	// 讀取：依 slug 取得活動詳情
	Get(ctx context.Context, slug string) (*model.Event, error)
	// 寫入：以活動的 slug 為 key 寫入，並設定 TTL
	Set(ctx context.Context, event *model.Event) error
	// 失效：刪除一或多個 slug 的快取
	Invalidate(ctx context.Context, slugs ...string) error
}

type RedisEventCacheImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisEventCache(client *redis.Client, ttl time.Duration) EventCache {
	return &RedisEventCacheImpl{
		client: client,
		ttl:    ttl,
	}
}

// 活動詳情 key
func eventKey(slug string) string {
	return fmt.Sprintf("event:slug:%s", slug)
}

func (c *RedisEventCacheImpl) Get(ctx context.Context, slug string) (*model.Event, error) {
	data, err := c.client.Get(ctx, eventKey(slug)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var event model.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decode cached event: %w", err)
	}
	return &event, nil
}

func (c *RedisEventCacheImpl) Set(ctx context.Context, event *model.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return c.client.Set(ctx, eventKey(event.Slug), data, c.ttl).Err()
}

func (c *RedisEventCacheImpl) Invalidate(ctx context.Context, slugs ...string) error {
	if len(slugs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		keys = append(keys, eventKey(slug))
	}
	return c.client.Del(ctx, keys...).Err()
}
