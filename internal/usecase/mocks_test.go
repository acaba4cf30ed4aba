package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	cartItems  repo.CartItemRepository
	inventory  repo.InventoryRepository
	products   repo.ProductRepository
	auditLogs  repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *TxReposMock) CartItems() repo.CartItemRepository   { return r.cartItems }
func (r *TxReposMock) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.products }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }

// =====================
// Repository mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) Search(ctx context.Context, keyword string, limit int) ([]model.Product, error) {
	args := m.Called(ctx, keyword, limit)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindActiveByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindActiveByIDsForUpdate(ctx context.Context, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) IncrementViewCount(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *ProductRepoMock) UpdateMainImage(ctx context.Context, id int64, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ProductRepoMock) CountByCategoryID(ctx context.Context, categoryID int64) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	return m.Called(ctx, productID, newStock).Error(0)
}

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) RestoreStock(ctx context.Context, productID int64, qty int64) error {
	return m.Called(ctx, productID, qty).Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	return m.Called(ctx, adj).Error(0)
}

type ProductImageRepoMock struct{ mock.Mock }

func (m *ProductImageRepoMock) Create(ctx context.Context, img model.ProductImage) (model.ProductImage, error) {
	args := m.Called(ctx, img)
	if fn, ok := args.Get(0).(func(model.ProductImage) model.ProductImage); ok {
		return fn(img), args.Error(1)
	}
	out, _ := args.Get(0).(model.ProductImage)
	return out, args.Error(1)
}

func (m *ProductImageRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	args := m.Called(ctx, productID)
	items, _ := args.Get(0).([]model.ProductImage)
	return items, args.Error(1)
}

func (m *ProductImageRepoMock) FindByID(ctx context.Context, id int64) (model.ProductImage, error) {
	args := m.Called(ctx, id)
	img, _ := args.Get(0).(model.ProductImage)
	return img, args.Error(1)
}

func (m *ProductImageRepoMock) CountByProductID(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductImageRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) ListVisible(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Category)
	return items, args.Error(1)
}

func (m *CategoryRepoMock) ListAll(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Category)
	return items, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Category)
	return out, args.Error(1)
}

func (m *CategoryRepoMock) Update(ctx context.Context, c model.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CategoryRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CategoryRepoMock) CountChildren(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type CategoryCacheMock struct{ mock.Mock }

func (m *CategoryCacheMock) Get(ctx context.Context) ([]model.CategoryNode, bool, error) {
	args := m.Called(ctx)
	tree, _ := args.Get(0).([]model.CategoryNode)
	return tree, args.Bool(1), args.Error(2)
}

func (m *CategoryCacheMock) Set(ctx context.Context, tree []model.CategoryNode) error {
	return m.Called(ctx, tree).Error(0)
}

func (m *CategoryCacheMock) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) Upsert(ctx context.Context, userID int64, productID int64, addQty int64) (model.CartItem, error) {
	args := m.Called(ctx, userID, productID, addQty)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, userID int64, itemID int64, qty int64) error {
	return m.Called(ctx, userID, itemID, qty).Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, userID int64, itemID int64) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func (m *CartItemRepoMock) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, o model.Order) (model.Order, error) {
	args := m.Called(ctx, o)
	if fn, ok := args.Get(0).(func(model.Order) model.Order); ok {
		return fn(o), args.Error(1)
	}
	out, _ := args.Get(0).(model.Order)
	return out, args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, pageSize int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) FindByLookup(ctx context.Context, q repo.OrderLookup) ([]model.Order, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	return m.Called(ctx, orderID, status).Error(0)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	return m.Called(ctx, orderID, items).Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) ListByOrderIDs(ctx context.Context, orderIDs []int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderIDs)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) CountByProductID(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 1
	}
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return m.Called(ctx, userID, at).Error(0)
}

func (m *UserRepoMock) UpdateProfile(ctx context.Context, userID int64, nickname string, avatarURL string) error {
	return m.Called(ctx, userID, nickname, avatarURL).Error(0)
}

type AdminRepoMock struct{ mock.Mock }

func (m *AdminRepoMock) Create(ctx context.Context, a *model.Admin) error {
	return m.Called(ctx, a).Error(0)
}

func (m *AdminRepoMock) FindByID(ctx context.Context, id int64) (*model.Admin, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.Admin)
	return a, args.Error(1)
}

func (m *AdminRepoMock) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	args := m.Called(ctx, username)
	a, _ := args.Get(0).(*model.Admin)
	return a, args.Error(1)
}

func (m *AdminRepoMock) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, a model.UserAddress) (model.UserAddress, error) {
	args := m.Called(ctx, a)
	out, _ := args.Get(0).(model.UserAddress)
	return out, args.Error(1)
}

func (m *AddressRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.UserAddress, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.UserAddress)
	return items, args.Error(1)
}

func (m *AddressRepoMock) FindByIDForUser(ctx context.Context, addressID int64, userID int64) (model.UserAddress, error) {
	args := m.Called(ctx, addressID, userID)
	a, _ := args.Get(0).(model.UserAddress)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Update(ctx context.Context, a model.UserAddress) error {
	return m.Called(ctx, a).Error(0)
}

func (m *AddressRepoMock) Delete(ctx context.Context, addressID int64, userID int64) error {
	return m.Called(ctx, addressID, userID).Error(0)
}

func (m *AddressRepoMock) SetDefault(ctx context.Context, userID int64, addressID int64) error {
	return m.Called(ctx, userID, addressID).Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]model.AuditLog)
	return items, args.Error(1)
}

// =====================
// Helpers
// =====================

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)

// HTTPErrorのステータスとメッセージを確認
func assertHTTPError(t *testing.T, err error, status int, wantSubstr string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if !assert.True(t, ok, "want HTTPError, got %v", err) {
		return
	}
	assert.Equal(t, status, he.Status)
	assert.True(t, strings.Contains(he.Message, wantSubstr), "message=%q want contains %q", he.Message, wantSubstr)
}
