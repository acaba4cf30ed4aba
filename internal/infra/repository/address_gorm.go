package repository

import (
	"context"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type addressGormRepository struct {
	db *gorm.DB
}

// DI
func NewAddressGormRepository(db *gorm.DB) repo.AddressRepository {
	return &addressGormRepository{db: db}
}

// 住所を作成。デフォルト指定なら既存のデフォルトを外す
func (r *addressGormRepository) Create(ctx context.Context, address model.UserAddress) (model.UserAddress, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := clearDefault(tx, address.UserID); err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		return model.UserAddress{}, translate(err)
	}
	return address, nil
}

// ユーザーの住所一覧を返す
func (r *addressGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.UserAddress, error) {
	var list []model.UserAddress
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").Order("created_at DESC").Order("id DESC").
		Find(&list).Error; err != nil {
		return []model.UserAddress{}, err
	}
	return list, nil
}

// 自分の住所だけ取れる。他人の住所はErrNotFound
func (r *addressGormRepository) FindByIDForUser(ctx context.Context, addressID int64, userID int64) (model.UserAddress, error) {
	var a model.UserAddress
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&a).Error; err != nil {
		return model.UserAddress{}, translate(err)
	}
	return a, nil
}

// 住所を更新
func (r *addressGormRepository) Update(ctx context.Context, address model.UserAddress) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := clearDefault(tx, address.UserID); err != nil {
				return err
			}
		}

		result := tx.
			Model(&model.UserAddress{}).
			Where("id = ? AND user_id = ?", address.ID, address.UserID).
			Select(
				"receiver_name",
				"receiver_phone",
				"province",
				"city",
				"district",
				"address",
				"postal_code",
				"is_default",
			).
			Updates(address)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

// 住所を削除
func (r *addressGormRepository) Delete(ctx context.Context, addressID int64, userID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&model.UserAddress{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// デフォルト住所を切り替える
func (r *addressGormRepository) SetDefault(ctx context.Context, userID, addressID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//指定住所がこのユーザーのものか確認
		var count int64
		if err := tx.Model(&model.UserAddress{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return repo.ErrNotFound
		}

		if err := clearDefault(tx, userID); err != nil {
			return err
		}

		//指定住所だけ true
		return tx.Model(&model.UserAddress{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true).Error
	})
}

//そのユーザーのdefaultを全て false
func clearDefault(tx *gorm.DB, userID int64) error {
	return tx.Model(&model.UserAddress{}).
		Where("user_id = ? AND is_default = TRUE", userID).
		Update("is_default", false).Error
}
