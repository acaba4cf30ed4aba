package repository

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// カート明細を一覧取得（商品つき、新しい順）
func (r *CartItemGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

// 同一商品は数量加算。(user_id, product_id)の一意制約でINSERT ... ON CONFLICTにする
func (r *CartItemGormRepository) Upsert(ctx context.Context, userID int64, productID int64, addQty int64) (model.CartItem, error) {
	if addQty <= 0 {
		return model.CartItem{}, errors.New("invalid quantity")
	}

	now := time.Now()
	item := model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  addQty,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
			"updated_at": now,
		}),
	}).Create(&item).Error
	if err != nil {
		return model.CartItem{}, translate(err)
	}

	// 加算後の数量を読み直す
	var saved model.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&saved).Error; err != nil {
		return model.CartItem{}, translate(err)
	}
	return saved, nil
}

// 明細の数量を更新（自分の明細だけ）
func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, userID int64, itemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartItemGormRepository) DeleteByID(ctx context.Context, userID int64, itemID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&model.CartItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// カートを空にする。消した件数を返す
func (r *CartItemGormRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{})
	return res.RowsAffected, res.Error
}
