package repository

import (
	"context"
	"time"

	"shop/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（usernameの重複はErrDuplicate）
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
	UpdateProfile(ctx context.Context, userID int64, nickname string, avatarURL string) error
}
