package repository

import (
	"context"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type ProductImageGormRepository struct {
	db *gorm.DB
}

func NewProductImageGormRepository(db *gorm.DB) *ProductImageGormRepository {
	return &ProductImageGormRepository{db: db}
}

func (r *ProductImageGormRepository) Create(ctx context.Context, img model.ProductImage) (model.ProductImage, error) {
	if err := r.db.WithContext(ctx).Create(&img).Error; err != nil {
		return model.ProductImage{}, translate(err)
	}
	return img, nil
}

// 並び順
func (r *ProductImageGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	var list []model.ProductImage
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sort_order asc").Order("id asc").
		Find(&list).Error; err != nil {
		return []model.ProductImage{}, err
	}
	return list, nil
}

func (r *ProductImageGormRepository) FindByID(ctx context.Context, id int64) (model.ProductImage, error) {
	var img model.ProductImage
	if err := r.db.WithContext(ctx).First(&img, id).Error; err != nil {
		return model.ProductImage{}, translate(err)
	}
	return img, nil
}

func (r *ProductImageGormRepository) CountByProductID(ctx context.Context, productID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ProductImage{}).Where("product_id = ?", productID).Count(&n).Error
	return n, err
}

func (r *ProductImageGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.ProductImage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
