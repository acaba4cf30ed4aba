package repository

import (
	"context"

	"shop/internal/domain/model"
)

type CategoryRepository interface {
	// is_show=true のみ、sort_order順
	ListVisible(ctx context.Context) ([]model.Category, error)
	ListAll(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, id int64) error
	CountChildren(ctx context.Context, id int64) (int64, error)
}
