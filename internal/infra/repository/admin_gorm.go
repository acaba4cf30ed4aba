package repository

import (
	"context"
	"time"

	"shop/internal/domain/model"
	domainrepo "shop/internal/repository"

	"gorm.io/gorm"
)

type adminGormRepository struct {
	db *gorm.DB
}

func NewAdminGormRepository(db *gorm.DB) domainrepo.AdminRepository {
	return &adminGormRepository{db: db}
}

func (r *adminGormRepository) Create(ctx context.Context, admin *model.Admin) error {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *adminGormRepository) FindByID(ctx context.Context, id int64) (*model.Admin, error) {
	var a model.Admin
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *adminGormRepository) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *adminGormRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}
