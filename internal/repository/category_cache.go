package repository

import (
	"context"

	"shop/internal/domain/model"
)

// 公開カテゴリツリーのキャッシュ。ヒットしなければfalse
type CategoryTreeCache interface {
	Get(ctx context.Context) ([]model.CategoryNode, bool, error)
	Set(ctx context.Context, tree []model.CategoryNode) error
	Invalidate(ctx context.Context) error
}
