package repository

import (
	"context"

	"shop/internal/domain/model"
)

const (
	PriceOrderAsc  = "asc"
	PriceOrderDesc = "desc"
)

// 一覧検索
type ProductListQuery struct {
	Page       int
	PageSize   int
	CategoryID *int64
	Search     string // name / subtitle の部分一致
	PriceOrder string // "" / asc / desc
	// 管理画面は下架も含める
	IncludeInactive bool
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	// 公開商品のキーワード検索（上限件数つき）
	Search(ctx context.Context, keyword string, limit int) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindActiveByID(ctx context.Context, id int64) (model.Product, error)
	// 下架も含めて行ロック付きで取得（在庫の手動調整）
	FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error)
	// 公開商品を行ロック付きで取得（id昇順）。存在しない/下架のidは結果に含まれない
	FindActiveByIDsForUpdate(ctx context.Context, ids []int64) ([]model.Product, error)
	IncrementViewCount(ctx context.Context, id int64) error
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	UpdateMainImage(ctx context.Context, id int64, url string) error
	Delete(ctx context.Context, id int64) error
	CountByCategoryID(ctx context.Context, categoryID int64) (int64, error)
}
