package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/storage"
	"shop/internal/usecase"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	tx         *TxManagerMock
	products   *ProductRepoMock
	inventory  *InventoryRepoMock
	images     *ProductImageRepoMock
	categories *CategoryRepoMock
	orderItems *OrderItemRepoMock
	audit      *AuditRepoMock
	fs         afero.Fs
	uc         *usecase.ProductUsecase
}

func newProductFixture() *productFixture {
	f := &productFixture{
		products:   new(ProductRepoMock),
		inventory:  new(InventoryRepoMock),
		images:     new(ProductImageRepoMock),
		categories: new(CategoryRepoMock),
		orderItems: new(OrderItemRepoMock),
		audit:      new(AuditRepoMock),
		fs:         afero.NewMemMapFs(),
	}
	f.tx = &TxManagerMock{Repos: &TxReposMock{
		products:  f.products,
		inventory: f.inventory,
		auditLogs: f.audit,
	}}
	f.tx.On("WithinTx", mock.Anything).Return()
	f.uc = usecase.NewProductUsecase(f.tx, f.products, f.images, f.categories, f.orderItems, f.audit,
		storage.NewImageStoreOnFs(f.fs, "/media"), testPaging, fixedClock{t: testNow})
	return f
}

func TestProductList_PublicQuery(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	cat := int64(2)
	f.products.On("List", ctx, repo.ProductListQuery{
		Page: 2, PageSize: 100, CategoryID: &cat, Search: "mug", PriceOrder: repo.PriceOrderAsc,
	}).Return([]model.Product{{ID: 1}}, int64(101), nil)

	out, err := f.uc.List(ctx, usecase.ListProductsInput{Page: 2, PageSize: 1000, CategoryID: &cat, Search: " mug ", PriceOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(101), out.Total)
	assert.Equal(t, 100, out.PageSize)
}

func TestProductList_AdminIncludesInactive(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	f.products.On("List", ctx, mock.MatchedBy(func(q repo.ProductListQuery) bool { return q.IncludeInactive })).
		Return([]model.Product{}, int64(0), nil)

	_, err := f.uc.AdminList(ctx, usecase.ListProductsInput{})
	require.NoError(t, err)
	f.products.AssertExpectations(t)
}

func TestProductList_BadPriceOrder(t *testing.T) {
	f := newProductFixture()
	_, err := f.uc.List(context.Background(), usecase.ListProductsInput{PriceOrder: "sideways"})
	assertHTTPError(t, err, http.StatusBadRequest, "price_order must be asc or desc")
}

func TestProductGet(t *testing.T) {
	ctx := context.Background()

	t.Run("inactive is not found", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("FindActiveByID", ctx, int64(1)).Return(model.Product{}, repo.ErrNotFound)

		_, err := f.uc.Get(ctx, 1)
		assertHTTPError(t, err, http.StatusNotFound, "product not found")
	})

	t.Run("increments views and attaches images", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("FindActiveByID", ctx, int64(1)).Return(model.Product{ID: 1, ViewCount: 4}, nil)
		f.products.On("IncrementViewCount", ctx, int64(1)).Return(nil)
		f.images.On("ListByProductID", ctx, int64(1)).Return([]model.ProductImage{{ID: 1}, {ID: 2}}, nil)

		out, err := f.uc.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(5), out.ViewCount)
		assert.Len(t, out.Images, 2)
	})

	t.Run("view counter failure is tolerated", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("FindActiveByID", ctx, int64(1)).Return(model.Product{ID: 1, ViewCount: 4}, nil)
		f.products.On("IncrementViewCount", ctx, int64(1)).Return(errors.New("timeout"))
		f.images.On("ListByProductID", ctx, int64(1)).Return([]model.ProductImage{}, nil)

		out, err := f.uc.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(4), out.ViewCount)
	})
}

func TestProductSearch(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	_, err := f.uc.Search(ctx, "   ")
	assertHTTPError(t, err, http.StatusBadRequest, "keyword is required")

	f.products.On("Search", ctx, "lamp", 20).Return([]model.Product{{ID: 1}}, nil)
	items, err := f.uc.Search(ctx, " lamp ")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestProductAdminCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("off shelf product keeps status zero", func(t *testing.T) {
		f := newProductFixture()
		f.categories.On("FindByID", ctx, int64(2)).Return(model.Category{ID: 2}, nil)
		f.products.On("Create", ctx, mock.MatchedBy(func(p model.Product) bool {
			return p.Status == model.ProductStatusOffShelf && p.Stock == 3 && p.Name == "Mug"
		})).Return(model.Product{ID: 9, Name: "Mug"}, nil)
		f.audit.On("Create", ctx, mock.MatchedBy(func(l model.AuditLog) bool {
			return l.Action == model.AuditActionCreateProduct && l.ResourceType == model.AuditResourceProduct && l.ResourceID == 9
		})).Return(nil)

		p, err := f.uc.AdminCreate(ctx, 1, usecase.ProductInput{
			CategoryID: 2, Name: " Mug ", Price: model.MustMoney("9.99"), Stock: 3, Status: model.ProductStatusOffShelf,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(9), p.ID)
		f.audit.AssertExpectations(t)
	})

	t.Run("negative price", func(t *testing.T) {
		f := newProductFixture()
		_, err := f.uc.AdminCreate(ctx, 1, usecase.ProductInput{CategoryID: 2, Name: "Mug", Price: model.MustMoney("-1")})
		assertHTTPError(t, err, http.StatusBadRequest, "price must be >= 0")
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newProductFixture()
		f.categories.On("FindByID", ctx, int64(2)).Return(model.Category{}, repo.ErrNotFound)
		_, err := f.uc.AdminCreate(ctx, 1, usecase.ProductInput{CategoryID: 2, Name: "Mug", Price: model.MustMoney("1")})
		assertHTTPError(t, err, http.StatusBadRequest, "category does not exist")
	})
}

func TestProductAdminUpdate_LeavesStock(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	f.products.On("FindByID", ctx, int64(9)).Return(model.Product{ID: 9, Name: "Old", Stock: 7, CategoryID: 2}, nil)
	f.categories.On("FindByID", ctx, int64(2)).Return(model.Category{ID: 2}, nil)
	f.products.On("Update", ctx, mock.MatchedBy(func(p model.Product) bool {
		return p.Stock == 7 && p.Name == "New"
	})).Return(nil)
	f.audit.On("Create", ctx, mock.Anything).Return(nil)

	p, err := f.uc.AdminUpdate(ctx, 1, 9, usecase.ProductInput{
		CategoryID: 2, Name: "New", Price: model.MustMoney("3"), Stock: 999, Status: model.ProductStatusOnShelf,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.Stock)
}

func TestProductAdminDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("referenced by orders", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("FindByID", ctx, int64(9)).Return(model.Product{ID: 9}, nil)
		f.orderItems.On("CountByProductID", ctx, int64(9)).Return(int64(2), nil)

		err := f.uc.AdminDelete(ctx, 1, 9)
		assertHTTPError(t, err, http.StatusBadRequest, "product is referenced by orders and cannot be deleted")
		f.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("removes image files", func(t *testing.T) {
		f := newProductFixture()
		require.NoError(t, afero.WriteFile(f.fs, "products/9/a.png", []byte("x"), 0o644))

		f.products.On("FindByID", ctx, int64(9)).Return(model.Product{ID: 9}, nil)
		f.orderItems.On("CountByProductID", ctx, int64(9)).Return(int64(0), nil)
		f.images.On("ListByProductID", ctx, int64(9)).Return([]model.ProductImage{{ImageURL: "/media/products/9/a.png"}}, nil)
		f.products.On("Delete", ctx, int64(9)).Return(nil)
		f.audit.On("Create", ctx, mock.Anything).Return(nil)

		require.NoError(t, f.uc.AdminDelete(ctx, 1, 9))
		exists, _ := afero.Exists(f.fs, "products/9/a.png")
		assert.False(t, exists)
	})
}

func TestProductAdminUpdateStock(t *testing.T) {
	ctx := context.Background()

	t.Run("records delta and audit in one transaction", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("FindByIDForUpdate", ctx, int64(9)).Return(model.Product{ID: 9, Stock: 10, Status: model.ProductStatusOffShelf}, nil)
		f.inventory.On("SetStock", ctx, int64(9), int64(4)).Return(nil)
		f.inventory.On("CreateAdjustment", ctx, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
			return a.ProductID == 9 && a.AdminID == 1 && a.Delta == -6 && a.Reason == "stocktake"
		})).Return(nil)
		f.audit.On("Create", ctx, mock.MatchedBy(func(l model.AuditLog) bool {
			return l.Action == model.AuditActionUpdateStock && l.BeforeJSON == `{"stock":10}` && l.AfterJSON == `{"stock":4}`
		})).Return(nil)

		require.NoError(t, f.uc.AdminUpdateStock(ctx, 1, 9, 4, " stocktake "))
		f.tx.AssertNumberOfCalls(t, "WithinTx", 1)
		f.inventory.AssertExpectations(t)
		f.audit.AssertExpectations(t)
	})

	t.Run("validation", func(t *testing.T) {
		f := newProductFixture()
		assertHTTPError(t, f.uc.AdminUpdateStock(ctx, 1, 9, -1, "x"), http.StatusBadRequest, "stock must be >= 0")
		assertHTTPError(t, f.uc.AdminUpdateStock(ctx, 1, 9, 1, " "), http.StatusBadRequest, "reason required")
		f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("FindByIDForUpdate", ctx, int64(9)).Return(model.Product{}, repo.ErrNotFound)
		assertHTTPError(t, f.uc.AdminUpdateStock(ctx, 1, 9, 1, "x"), http.StatusNotFound, "product not found")
	})
}
