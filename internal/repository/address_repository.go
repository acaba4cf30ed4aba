package repository

import (
	"context"

	"shop/internal/domain/model"
)

// 住所(UserAddress)を保存・取得する窓口。所有者のuserIDで必ず絞る
type AddressRepository interface {
	//is_default=trueなら既存のデフォルトを外してから作る
	Create(ctx context.Context, address model.UserAddress) (model.UserAddress, error)
	//デフォルト→新しい順
	ListByUserID(ctx context.Context, userID int64) ([]model.UserAddress, error)
	FindByIDForUser(ctx context.Context, addressID int64, userID int64) (model.UserAddress, error)
	Update(ctx context.Context, address model.UserAddress) error
	Delete(ctx context.Context, addressID int64, userID int64) error
	SetDefault(ctx context.Context, userID int64, addressID int64) error
}
