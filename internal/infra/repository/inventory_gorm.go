package repository

import (
	"context"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

// 在庫はproducts.stockを直接更新する
type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

func (r *InventoryGormRepository) products(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Product{})
}

func (r *InventoryGormRepository) SetStock(ctx context.Context, productID int64, newStock int64) error {
	res := r.products(ctx).Where("id = ?", productID).Update("stock", newStock)
	return affectedOne(res)
}

// WHERE stock >= qty の条件付きUPDATE。0行ならfalse
func (r *InventoryGormRepository) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	res := r.products(ctx).
		Where("id = ? AND stock >= ?", productID, qty).
		Updates(map[string]interface{}{
			"stock":       gorm.Expr("stock - ?", qty),
			"sales_count": gorm.Expr("sales_count + ?", qty),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *InventoryGormRepository) RestoreStock(ctx context.Context, productID int64, qty int64) error {
	res := r.products(ctx).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"stock":       gorm.Expr("stock + ?", qty),
			"sales_count": gorm.Expr("GREATEST(sales_count - ?, 0)", qty),
		})
	return affectedOne(res)
}

func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	return translate(r.db.WithContext(ctx).Create(&adj).Error)
}

// 対象行が無ければErrNotFound
func affectedOne(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
