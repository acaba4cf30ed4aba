package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shop/internal/auth"
	"shop/internal/domain/model"
	"shop/internal/metrics"
	repo "shop/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
// ログインユーザーのみ。在庫チェックは注文確定時だけ行う
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	metrics      *metrics.ShopMetrics
}

func NewCartUsecase(
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	m *metrics.ShopMetrics,
) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		metrics:      m,
	}
}

// 明細と、その時点の商品情報
type CartItemResponse struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"product_id"`
	ProductName   string          `json:"product_name"`
	ProductImage  string          `json:"product_image"`
	Price         model.Money     `json:"price"`
	Stock         int64           `json:"stock"`
	ProductActive bool            `json:"product_active"`
	Quantity      int64           `json:"quantity"`
	Subtotal      model.Money     `json:"subtotal"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CartResponse struct {
	Items         []CartItemResponse `json:"items"`
	TotalQuantity int64              `json:"total_quantity"`
	TotalAmount   model.Money        `json:"total_amount"`
}

var errCartItemNotFound = NewHTTPError(http.StatusNotFound, "cart item not found")

// 新しい順
func (u *CartUsecase) List(ctx context.Context, ac auth.Context) (CartResponse, error) {
	userID, ok := ac.UserID()
	if !ok {
		return CartResponse{}, errLoginRequired
	}

	items, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, internalError(ctx, "list cart", err)
	}

	out := CartResponse{Items: make([]CartItemResponse, 0, len(items)), TotalAmount: model.Money{}}
	for _, it := range items {
		res := CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			CreatedAt: it.CreatedAt,
		}
		if it.Product != nil {
			res.ProductName = it.Product.Name
			res.ProductImage = it.Product.MainImageURL
			res.Price = it.Product.Price
			res.Stock = it.Product.Stock
			res.ProductActive = it.Product.IsActive()
			res.Subtotal = model.NewMoney(it.Product.Price.Mul(decimal.NewFromInt(it.Quantity)))
		}
		out.TotalQuantity += it.Quantity
		out.TotalAmount = model.NewMoney(out.TotalAmount.Add(res.Subtotal.Decimal))
		out.Items = append(out.Items, res)
	}
	return out, nil
}

// 同じ商品なら数量を加算
func (u *CartUsecase) Add(ctx context.Context, ac auth.Context, productID int64, quantity int64) (model.CartItem, error) {
	userID, ok := ac.UserID()
	if !ok {
		return model.CartItem{}, errLoginRequired
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "quantity must be greater than 0")
	}

	if _, err := u.productRepo.FindActiveByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "product does not exist or is inactive")
		}
		return model.CartItem{}, internalError(ctx, "find product", err)
	}

	item, err := u.cartItemRepo.Upsert(ctx, userID, productID, quantity)
	if err != nil {
		return model.CartItem{}, internalError(ctx, "upsert cart item", err)
	}
	u.metrics.CartAdded()
	return item, nil
}

func (u *CartUsecase) UpdateQuantity(ctx context.Context, ac auth.Context, itemID int64, quantity int64) error {
	userID, ok := ac.UserID()
	if !ok {
		return errLoginRequired
	}
	if quantity < 1 {
		return NewHTTPError(http.StatusBadRequest, "quantity must be greater than 0")
	}

	err := u.cartItemRepo.UpdateQuantity(ctx, userID, itemID, quantity)
	if errors.Is(err, repo.ErrNotFound) {
		return errCartItemNotFound
	}
	if err != nil {
		return internalError(ctx, "update cart item", err)
	}
	return nil
}

func (u *CartUsecase) Remove(ctx context.Context, ac auth.Context, itemID int64) error {
	userID, ok := ac.UserID()
	if !ok {
		return errLoginRequired
	}

	err := u.cartItemRepo.DeleteByID(ctx, userID, itemID)
	if errors.Is(err, repo.ErrNotFound) {
		return errCartItemNotFound
	}
	if err != nil {
		return internalError(ctx, "delete cart item", err)
	}
	return nil
}

// カートを空にする
func (u *CartUsecase) Clear(ctx context.Context, ac auth.Context) error {
	userID, ok := ac.UserID()
	if !ok {
		return errLoginRequired
	}
	if _, err := u.cartItemRepo.DeleteByUserID(ctx, userID); err != nil {
		return internalError(ctx, "clear cart", err)
	}
	return nil
}
