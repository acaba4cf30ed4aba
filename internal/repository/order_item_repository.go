package repository

import (
	"context"

	"shop/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	// 一覧表示用にまとめて取る
	ListByOrderIDs(ctx context.Context, orderIDs []int64) ([]model.OrderItem, error)
	CountByProductID(ctx context.Context, productID int64) (int64, error)
}
