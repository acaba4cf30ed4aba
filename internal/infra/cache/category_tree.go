package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shop/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const categoryTreeKey = "shop:category:tree"

// RedisCategoryTreeCache はツリー全体をJSONで1キーに置く
type RedisCategoryTreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCategoryTreeCache(client *redis.Client, ttl time.Duration) *RedisCategoryTreeCache {
	return &RedisCategoryTreeCache{client: client, ttl: ttl}
}

// NewRedisClient はREDIS_URLからクライアントを作って疎通確認する
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (c *RedisCategoryTreeCache) Get(ctx context.Context) ([]model.CategoryNode, bool, error) {
	raw, err := c.client.Get(ctx, categoryTreeKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var tree []model.CategoryNode
	if err := json.Unmarshal(raw, &tree); err != nil {
		// 壊れた値はミス扱い
		return nil, false, nil
	}
	return tree, true, nil
}

func (c *RedisCategoryTreeCache) Set(ctx context.Context, tree []model.CategoryNode) error {
	raw, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, categoryTreeKey, raw, c.ttl).Err()
}

func (c *RedisCategoryTreeCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, categoryTreeKey).Err()
}

// NopCategoryTreeCache はREDIS_URL未設定時に使う。常にミス
type NopCategoryTreeCache struct{}

func (NopCategoryTreeCache) Get(context.Context) ([]model.CategoryNode, bool, error) {
	return nil, false, nil
}
func (NopCategoryTreeCache) Set(context.Context, []model.CategoryNode) error { return nil }
func (NopCategoryTreeCache) Invalidate(context.Context) error                { return nil }
