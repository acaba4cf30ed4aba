package repository

import (
	"context"
	"time"

	"shop/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page          int
	PageSize      int
	Status        *model.OrderStatus
	OrderNo       string
	ReceiverPhone string
	UserID        *int64
	From          *time.Time
	To            *time.Time
}

// ゲスト照会。指定された項目は全て一致
type OrderLookup struct {
	OrderNo       string
	ReceiverPhone string
}

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (model.Order, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, pageSize int) ([]model.Order, int64, error)
	FindByLookup(ctx context.Context, q OrderLookup) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
