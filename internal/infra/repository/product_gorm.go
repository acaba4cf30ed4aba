package repository

import (
	"context"
	"strings"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 検索/カテゴリ/価格ソート/ページング付きで返す。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if !q.IncludeInactive {
		tx = tx.Where("status = ?", model.ProductStatusOnShelf)
	}
	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}
	// 商品名・サブタイトルの部分一致
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("name ILIKE ? OR subtitle ILIKE ?", like, like)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	switch q.PriceOrder {
	case repo.PriceOrderAsc:
		tx = tx.Order("price asc").Order("id asc")
	case repo.PriceOrderDesc:
		tx = tx.Order("price desc").Order("id desc")
	default:
		tx = tx.Order("sort_order desc").Order("created_at desc").Order("id desc")
	}

	if err := tx.Offset(offset(q.Page, q.PageSize)).Limit(q.PageSize).Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}
	return products, total, nil
}

func (r *ProductGormRepository) Search(ctx context.Context, keyword string, limit int) ([]model.Product, error) {
	var products []model.Product
	like := "%" + strings.TrimSpace(keyword) + "%"

	err := r.db.WithContext(ctx).
		Where("status = ?", model.ProductStatusOnShelf).
		Where("name ILIKE ? OR subtitle ILIKE ?", like, like).
		Order("sort_order desc").Order("created_at desc").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) FindActiveByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, model.ProductStatusOnShelf).
		First(&p).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// 注文確定時に使う。id昇順でロックを取ってデッドロックを避ける
func (r *ProductGormRepository) FindActiveByIDsForUpdate(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	var products []model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ? AND status = ?", ids, model.ProductStatusOnShelf).
		Order("id asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

func (r *ProductGormRepository) IncrementViewCount(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// 商品の更新（在庫・販売数は別の経路で更新する）
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"category_id":    p.CategoryID,
		"name":           p.Name,
		"subtitle":       p.Subtitle,
		"detail":         p.Detail,
		"price":          p.Price,
		"original_price": p.OriginalPrice,
		"status":         p.Status,
		"sort_order":     p.SortOrder,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) UpdateMainImage(ctx context.Context, id int64, url string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Update("main_image_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 注文明細から参照されていればErrReferenced
func (r *ProductGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) CountByCategoryID(ctx context.Context, categoryID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Count(&n).Error
	return n, err
}
