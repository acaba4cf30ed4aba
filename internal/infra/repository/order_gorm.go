package repository

import (
	"context"
	"strings"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (model.Order, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return model.Order{}, translate(err)
	}
	return order, nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

// ステータス変更時に使う
func (r *OrderGormRepository) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, page int, pageSize int) ([]model.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

// 指定された条件は全て一致させる。空の条件は使わない
func (r *OrderGormRepository) FindByLookup(ctx context.Context, q repo.OrderLookup) ([]model.Order, error) {
	orderNo := strings.TrimSpace(q.OrderNo)
	phone := strings.TrimSpace(q.ReceiverPhone)
	if orderNo == "" && phone == "" {
		return []model.Order{}, nil
	}

	tx := r.db.WithContext(ctx).Model(&model.Order{})
	if orderNo != "" {
		tx = tx.Where("order_no = ?", orderNo)
	}
	if phone != "" {
		tx = tx.Where("receiver_phone = ?", phone)
	}

	var items []model.Order
	if err := tx.Order("created_at desc").Order("id desc").Find(&items).Error; err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})

	//status 絞り込み
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if s := strings.TrimSpace(f.OrderNo); s != "" {
		q = q.Where("order_no = ?", s)
	}
	if s := strings.TrimSpace(f.ReceiverPhone); s != "" {
		q = q.Where("receiver_phone = ?", s)
	}

	//user_id 絞り込み
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}

	//期間絞り込み
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	q = q.Order("id desc")
	// PageSize<=0 はエクスポート用に全件
	if f.PageSize > 0 {
		q = q.Limit(f.PageSize).Offset(offset(f.Page, f.PageSize))
	}

	var items []model.Order
	if err := q.Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}
