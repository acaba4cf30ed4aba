package repository

import (
	"context"

	"shop/internal/domain/model"
)

type CartItemRepository interface {
	// 新しい順。Productをpreloadして返す
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	// 同一(user, product)は数量を加算
	Upsert(ctx context.Context, userID int64, productID int64, addQty int64) (model.CartItem, error)
	// 他人の明細はErrNotFound
	UpdateQuantity(ctx context.Context, userID int64, itemID int64, qty int64) error
	DeleteByID(ctx context.Context, userID int64, itemID int64) error
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
}
