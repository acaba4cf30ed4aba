package repository

import (
	"context"

	"shop/internal/domain/model"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

func (r *OrderItemGormRepository) ListByOrderIDs(ctx context.Context, orderIDs []int64) ([]model.OrderItem, error) {
	if len(orderIDs) == 0 {
		return []model.OrderItem{}, nil
	}
	var items []model.OrderItem
	err := r.db.WithContext(ctx).Where("order_id IN ?", orderIDs).Order("order_id asc").Order("id asc").Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

// 商品削除前の参照チェック
func (r *OrderItemGormRepository) CountByProductID(ctx context.Context, productID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).Where("product_id = ?", productID).Count(&n).Error
	return n, err
}
