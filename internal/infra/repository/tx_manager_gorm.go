package repository

import (
	"context"

	"shop/internal/logger"
	repo "shop/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// tx束縛のrepo群。使われたものだけ作る
type txScope struct {
	tx *gorm.DB
}

func (s txScope) Orders() repo.OrderRepository         { return NewOrderGormRepository(s.tx) }
func (s txScope) OrderItems() repo.OrderItemRepository { return NewOrderItemGormRepository(s.tx) }
func (s txScope) CartItems() repo.CartItemRepository   { return NewCartItemGormRepository(s.tx) }
func (s txScope) Inventory() repo.InventoryRepository  { return NewInventoryGormRepository(s.tx) }
func (s txScope) Products() repo.ProductRepository     { return NewProductGormRepository(s.tx) }
func (s txScope) AuditLogs() repo.AuditLogRepository   { return NewAuditLogGormRepository(s.tx) }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがerrorを返すかpanicしたらrollback
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	err := tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txScope{tx: tx})
	})
	if err != nil {
		logger.FromContext(ctx).Debug("transaction rolled back", zap.Error(err))
	}
	return err
}
