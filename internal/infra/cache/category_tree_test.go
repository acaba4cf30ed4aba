package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"shop/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopCategoryTreeCache_AlwaysMisses(t *testing.T) {
	var c NopCategoryTreeCache
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, []model.CategoryNode{{Category: model.Category{ID: 1}}}))
	tree, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, tree)
	assert.NoError(t, c.Invalidate(ctx))
}

// TEST_REDIS_URL が無ければスキップ
func TestRedisCategoryTreeCache_RoundTrip(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL is not set")
	}
	ctx := context.Background()

	client, err := NewRedisClient(ctx, url)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	c := NewRedisCategoryTreeCache(client, time.Minute)
	require.NoError(t, c.Invalidate(ctx))

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	tree := []model.CategoryNode{{
		Category: model.Category{ID: 1, Name: "top", IsShow: true},
		Children: []model.CategoryNode{{Category: model.Category{ID: 2, ParentID: 1, Name: "child", IsShow: true}}},
	}}
	require.NoError(t, c.Set(ctx, tree))

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "top", got[0].Name)
	require.Len(t, got[0].Children, 1)
	assert.Equal(t, int64(2), got[0].Children[0].ID)

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}
