package repository

import (
	"context"
	"time"

	"shop/internal/domain/model"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	FindByID(ctx context.Context, adminID int64) (*model.Admin, error)
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	UpdateLastLogin(ctx context.Context, adminID int64, at time.Time) error
}
