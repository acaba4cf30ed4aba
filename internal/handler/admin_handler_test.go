package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"shop/internal/config"
	"shop/internal/domain/model"
	"shop/internal/middleware"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

// AdminAuthの代わりに管理者IDだけ入れる
func withAdmin(id int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.CtxAdminIDKey, id)
			return next(c)
		}
	}
}

func newAdminOrderEcho(t *testing.T) (*echo.Echo, *orderRepoMock, *orderItemRepoMock) {
	t.Helper()
	orders := &orderRepoMock{}
	items := &orderItemRepoMock{}
	uc := usecase.NewAdminOrderUsecase(nil, orders, items, config.PagingConfig{DefaultPageSize: 10, MaxPageSize: 100}, usecase.SystemClock{})

	e := newTestEcho(t)
	NewAdminOrderHandler(uc, nil).RegisterRoutes(e.Group("/admin", withAdmin(7)))
	return e, orders, items
}

func TestAdminOrderList_FilterFromQuery(t *testing.T) {
	e, orders, items := newAdminOrderEcho(t)

	status := model.OrderStatusPendingShipment
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	want := repo.AdminOrderListFilter{
		Page:          2,
		PageSize:      20,
		Status:        &status,
		ReceiverPhone: "090",
		From:          &from,
	}
	orders.On("ListAdmin", mock.Anything, want).Return([]model.Order{sampleOrder(3, "ORD3")}, int64(21), nil)
	items.On("ListByOrderIDs", mock.Anything, []int64{3}).Return([]model.OrderItem{}, nil)

	rec := doRequest(e, http.MethodGet, "/admin/orders?page=2&page_size=20&status=2&receiver_phone=090&from=2024-05-01", nil, "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	orders.AssertExpectations(t)
}

func TestAdminOrderList_BadQuery(t *testing.T) {
	cases := map[string]string{
		"/admin/orders?status=x":                             "status must be an integer",
		"/admin/orders?from=yesterday":                       "invalid datetime: yesterday",
		"/admin/orders?from=2024-05-02&to=2024-05-01":        "from must be before to",
		"/admin/orders?status=9":                             "invalid status",
		"/admin/orders/export?from=2024-05-02&to=2024-05-01": "from must be before to",
	}
	for path, msg := range cases {
		t.Run(path, func(t *testing.T) {
			e, _, _ := newAdminOrderEcho(t)
			rec := doRequest(e, http.MethodGet, path, nil, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, msg, decodeEnvelope(t, rec).Message)
		})
	}
}

func TestAdminOrderExport(t *testing.T) {
	e, orders, items := newAdminOrderEcho(t)
	orders.On("ListAdmin", mock.Anything, mock.Anything).Return([]model.Order{sampleOrder(1, "ORD1")}, int64(1), nil)
	items.On("ListByOrderIDs", mock.Anything, []int64{1}).
		Return([]model.OrderItem{{OrderID: 1, ProductName: "Pen", Quantity: 2}}, nil)

	rec := doRequest(e, http.MethodGet, "/admin/orders/export", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="orders_20240501120000.xlsx"`, rec.Header().Get(echo.HeaderContentDisposition))

	f, err := xlsx.OpenBinary(rec.Body.Bytes())
	require.NoError(t, err)
	sheet, ok := f.Sheet["Orders"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "ORD1", sheet.Rows[1].Cells[0].Value)
}

func TestAdminOrderUpdateStatus_Validation(t *testing.T) {
	e, _, _ := newAdminOrderEcho(t)

	rec := doJSON(e, http.MethodPut, "/admin/orders/1/update_status", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "status is required", decodeEnvelope(t, rec).Message)

	rec = doJSON(e, http.MethodPatch, "/admin/orders/1/update_status", `{"status":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Message, "invalid order status")
}

func TestAdminUploadImage_RequiresFile(t *testing.T) {
	e := newTestEcho(t)
	NewAdminCatalogHandler(nil, nil, nil, 2<<20).RegisterRoutes(e.Group("/admin", withAdmin(7)))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("note", "x"))
	require.NoError(t, w.Close())

	rec := doRequest(e, http.MethodPost, "/admin/products/1/upload_image", &body, w.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file is required", decodeEnvelope(t, rec).Message)

	rec = doRequest(e, http.MethodPost, "/admin/products/abc/upload_image", nil, "")
	assert.Equal(t, "invalid id", decodeEnvelope(t, rec).Message)
}

func TestAdminCatalog_RequestValidation(t *testing.T) {
	e := newTestEcho(t)
	NewAdminCatalogHandler(nil, nil, nil, 2<<20).RegisterRoutes(e.Group("/admin", withAdmin(7)))

	cases := []struct {
		method, path, body, msg string
	}{
		{http.MethodPost, "/admin/categories", `{}`, "name is required"},
		{http.MethodPost, "/admin/products", `{"name":"Pen"}`, "category_id is required"},
		{http.MethodPost, "/admin/products", `{"category_id":1,"name":"Pen","status":3}`, "status must be one of [0 1]"},
		{http.MethodPut, "/admin/products/1/stock", `{"reason":"count"}`, "stock is required"},
		{http.MethodPut, "/admin/products/1/set_main_image", `{}`, "image_id is required"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := doJSON(e, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.msg, decodeEnvelope(t, rec).Message)
		})
	}
}
