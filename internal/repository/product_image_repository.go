package repository

import (
	"context"

	"shop/internal/domain/model"
)

type ProductImageRepository interface {
	Create(ctx context.Context, img model.ProductImage) (model.ProductImage, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error)
	FindByID(ctx context.Context, id int64) (model.ProductImage, error)
	CountByProductID(ctx context.Context, productID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}
