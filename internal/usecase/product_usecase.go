package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"shop/internal/config"
	"shop/internal/domain/model"
	"shop/internal/logger"
	repo "shop/internal/repository"
	"shop/internal/storage"

	"go.uber.org/zap"
)

const searchLimit = 20

type ProductUsecase struct {
	tx         repo.TransactionManager
	products   repo.ProductRepository
	images     repo.ProductImageRepository
	categories repo.CategoryRepository
	orderItems repo.OrderItemRepository
	auditRepo  repo.AuditLogRepository
	store      storage.ImageStore
	paging     config.PagingConfig
	clock      Clock
}

// DI
func NewProductUsecase(
	tx repo.TransactionManager,
	products repo.ProductRepository,
	images repo.ProductImageRepository,
	categories repo.CategoryRepository,
	orderItems repo.OrderItemRepository,
	auditRepo repo.AuditLogRepository,
	store storage.ImageStore,
	paging config.PagingConfig,
	clock Clock,
) *ProductUsecase {
	return &ProductUsecase{
		tx:         tx,
		products:   products,
		images:     images,
		categories: categories,
		orderItems: orderItems,
		auditRepo:  auditRepo,
		store:      store,
		paging:     paging,
		clock:      clock,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page       int
	PageSize   int
	CategoryID *int64
	Search     string
	PriceOrder string
}

type ProductListOutput struct {
	Items    []model.Product `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// 商品詳細（画像つき）
type ProductDetailOutput struct {
	model.Product
	Images []model.ProductImage `json:"images"`
}

var errProductNotFound = NewHTTPError(http.StatusNotFound, "product not found")

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	return u.list(ctx, in, false)
}

// 管理画面は下架も含める
func (u *ProductUsecase) AdminList(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	return u.list(ctx, in, true)
}

func (u *ProductUsecase) list(ctx context.Context, in ListProductsInput, includeInactive bool) (ProductListOutput, error) {
	if utf8.RuneCountInString(in.Search) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "search too long")
	}
	switch in.PriceOrder {
	case "", repo.PriceOrderAsc, repo.PriceOrderDesc:
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "price_order must be asc or desc")
	}
	page, pageSize := normalizePage(in.Page, in.PageSize, u.paging)

	items, total, err := u.products.List(ctx, repo.ProductListQuery{
		Page:            page,
		PageSize:        pageSize,
		CategoryID:      in.CategoryID,
		Search:          strings.TrimSpace(in.Search),
		PriceOrder:      in.PriceOrder,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		return ProductListOutput{}, internalError(ctx, "list products", err)
	}

	return ProductListOutput{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// 公開商品のみ。閲覧数を加算する
func (u *ProductUsecase) Get(ctx context.Context, productID int64) (ProductDetailOutput, error) {
	p, err := u.products.FindActiveByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDetailOutput{}, errProductNotFound
	}
	if err != nil {
		return ProductDetailOutput{}, internalError(ctx, "find product", err)
	}

	if err := u.products.IncrementViewCount(ctx, productID); err != nil {
		logger.FromContext(ctx).Warn("increment view count failed", zap.Int64("product_id", productID), zap.Error(err))
	} else {
		p.ViewCount++
	}

	images, err := u.images.ListByProductID(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, internalError(ctx, "list product images", err)
	}
	return ProductDetailOutput{Product: p, Images: images}, nil
}

func (u *ProductUsecase) AdminGet(ctx context.Context, productID int64) (ProductDetailOutput, error) {
	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDetailOutput{}, errProductNotFound
	}
	if err != nil {
		return ProductDetailOutput{}, internalError(ctx, "find product", err)
	}
	images, err := u.images.ListByProductID(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, internalError(ctx, "list product images", err)
	}
	return ProductDetailOutput{Product: p, Images: images}, nil
}

// キーワードは必須。最大20件
func (u *ProductUsecase) Search(ctx context.Context, keyword string) ([]model.Product, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "keyword is required")
	}
	if utf8.RuneCountInString(keyword) > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "keyword too long")
	}

	items, err := u.products.Search(ctx, keyword, searchLimit)
	if err != nil {
		return nil, internalError(ctx, "search products", err)
	}
	return items, nil
}

type ProductInput struct {
	CategoryID    int64
	Name          string
	Subtitle      string
	Detail        string
	Price         model.Money
	OriginalPrice *model.Money
	Stock         int64
	Status        model.ProductStatus
	SortOrder     int
}

func (u *ProductUsecase) AdminCreate(ctx context.Context, adminID int64, in ProductInput) (model.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Stock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if err := u.validate(ctx, in); err != nil {
		return model.Product{}, err
	}

	p, err := u.products.Create(ctx, model.Product{
		CategoryID:    in.CategoryID,
		Name:          in.Name,
		Subtitle:      strings.TrimSpace(in.Subtitle),
		Detail:        in.Detail,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Stock:         in.Stock,
		Status:        in.Status,
		SortOrder:     in.SortOrder,
	})
	if err != nil {
		return model.Product{}, internalError(ctx, "create product", err)
	}

	u.audit(ctx, model.AuditLog{
		ActorAdminID: adminID,
		Action:       model.AuditActionCreateProduct,
		ResourceID:   p.ID,
		AfterJSON:    toAuditJSON(p),
	})
	return p, nil
}

// 在庫はAdminUpdateStockで変える
func (u *ProductUsecase) AdminUpdate(ctx context.Context, adminID int64, productID int64, in ProductInput) (model.Product, error) {
	before, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, errProductNotFound
	}
	if err != nil {
		return model.Product{}, internalError(ctx, "find product", err)
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := u.validate(ctx, in); err != nil {
		return model.Product{}, err
	}

	after := before
	after.CategoryID = in.CategoryID
	after.Name = in.Name
	after.Subtitle = strings.TrimSpace(in.Subtitle)
	after.Detail = in.Detail
	after.Price = in.Price
	after.OriginalPrice = in.OriginalPrice
	after.Status = in.Status
	after.SortOrder = in.SortOrder

	err = u.products.Update(ctx, after)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, errProductNotFound
	}
	if err != nil {
		return model.Product{}, internalError(ctx, "update product", err)
	}

	u.audit(ctx, model.AuditLog{
		ActorAdminID: adminID,
		Action:       model.AuditActionUpdateProduct,
		ResourceID:   productID,
		BeforeJSON:   toAuditJSON(before),
		AfterJSON:    toAuditJSON(after),
	})
	return after, nil
}

// 注文明細から参照されている商品は消せない
func (u *ProductUsecase) AdminDelete(ctx context.Context, adminID int64, productID int64) error {
	referenced := NewHTTPError(http.StatusBadRequest, "product is referenced by orders and cannot be deleted")

	before, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return errProductNotFound
	}
	if err != nil {
		return internalError(ctx, "find product", err)
	}

	n, err := u.orderItems.CountByProductID(ctx, productID)
	if err != nil {
		return internalError(ctx, "count order items", err)
	}
	if n > 0 {
		return referenced
	}

	images, err := u.images.ListByProductID(ctx, productID)
	if err != nil {
		return internalError(ctx, "list product images", err)
	}

	err = u.products.Delete(ctx, productID)
	if errors.Is(err, repo.ErrReferenced) {
		return referenced
	}
	if errors.Is(err, repo.ErrNotFound) {
		return errProductNotFound
	}
	if err != nil {
		return internalError(ctx, "delete product", err)
	}

	// 行はCASCADEで消える。ファイルだけ消す
	for _, img := range images {
		if err := u.store.Delete(ctx, img.ImageURL); err != nil {
			logger.FromContext(ctx).Warn("delete image file failed", zap.String("url", img.ImageURL), zap.Error(err))
		}
	}

	u.audit(ctx, model.AuditLog{
		ActorAdminID: adminID,
		Action:       model.AuditActionDeleteProduct,
		ResourceID:   productID,
		BeforeJSON:   toAuditJSON(before),
	})
	return nil
}

// 在庫の現在値を設定し、差分履歴と監査ログを同じTxで残す
func (u *ProductUsecase) AdminUpdateStock(ctx context.Context, adminID int64, productID int64, newStock int64, reason string) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return NewHTTPError(http.StatusBadRequest, "reason required")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前の在庫（before）。行ロックで取る
		p, err := r.Products().FindByIDForUpdate(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return errProductNotFound
		}
		if err != nil {
			return err
		}

		if err := r.Inventory().SetStock(ctx, productID, newStock); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errProductNotFound
			}
			return err
		}

		now := u.clock.Now()
		//履歴を作成（差分）
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID: productID,
			AdminID:   adminID,
			Delta:     newStock - p.Stock,
			Reason:    reason,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		//監査ログを作成（在庫更新）
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorAdminID: adminID,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   fmt.Sprintf(`{"stock":%d}`, p.Stock),
			AfterJSON:    fmt.Sprintf(`{"stock":%d}`, newStock),
			CreatedAt:    now,
		})
	})
	if err != nil {
		return txError(ctx, "update stock", err)
	}
	return nil
}

func (u *ProductUsecase) validate(ctx context.Context, in ProductInput) error {
	if in.Name == "" || utf8.RuneCountInString(in.Name) > 200 {
		return NewHTTPError(http.StatusBadRequest, "name must be 1-200 characters")
	}
	if utf8.RuneCountInString(in.Subtitle) > 200 {
		return NewHTTPError(http.StatusBadRequest, "subtitle must be at most 200 characters")
	}
	if in.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.OriginalPrice != nil && in.OriginalPrice.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "original_price must be >= 0")
	}
	if in.Status != model.ProductStatusOnShelf && in.Status != model.ProductStatusOffShelf {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	_, err := u.categories.FindByID(ctx, in.CategoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusBadRequest, "category does not exist")
	}
	if err != nil {
		return internalError(ctx, "find category", err)
	}
	return nil
}

func (u *ProductUsecase) audit(ctx context.Context, entry model.AuditLog) {
	entry.ResourceType = model.AuditResourceProduct
	entry.CreatedAt = u.clock.Now()
	if err := u.auditRepo.Create(ctx, entry); err != nil {
		logger.FromContext(ctx).Error("create audit log", zap.Error(err))
	}
}
