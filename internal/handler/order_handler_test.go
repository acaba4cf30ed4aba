package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"shop/internal/config"
	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderEcho(t *testing.T) (*echo.Echo, *orderRepoMock, *orderItemRepoMock) {
	t.Helper()
	orders := &orderRepoMock{}
	items := &orderItemRepoMock{}
	uc := usecase.NewOrderUsecase(nil, orders, items, nil, usecase.SystemClock{}, config.PagingConfig{DefaultPageSize: 10, MaxPageSize: 100})

	e := newTestEcho(t)
	NewOrderHandler(uc).RegisterRoutes(e.Group("/api/v1"))
	return e, orders, items
}

func sampleOrder(id int64, no string) model.Order {
	return model.Order{
		ID:            id,
		OrderNo:       no,
		Status:        model.OrderStatusPendingPayment,
		TotalAmount:   model.MustMoney("10.00"),
		PayAmount:     model.MustMoney("10.00"),
		ReceiverName:  "Taro",
		ReceiverPhone: "09000000000",
	}
}

func TestOrderQuery_SingleMatchReturnsObject(t *testing.T) {
	e, orders, items := newOrderEcho(t)
	orders.On("FindByLookup", mock.Anything, repo.OrderLookup{OrderNo: "ORD1"}).
		Return([]model.Order{sampleOrder(1, "ORD1")}, nil)
	items.On("ListByOrderIDs", mock.Anything, []int64{1}).
		Return([]model.OrderItem{{ID: 9, OrderID: 1, ProductName: "Pen", Quantity: 2}}, nil)

	rec := doRequest(e, http.MethodGet, "/api/v1/orders/query?order_no=ORD1", nil, "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "success", env.Message)
	assert.Contains(t, string(env.Data), `"pay_amount":"10.00"`)

	var got usecase.OrderOutput
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "ORD1", got.OrderNo)
	assert.Equal(t, "pending_payment", got.StatusText)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Pen", got.Items[0].ProductName)
	assert.Equal(t, "10.00", got.PayAmount.StringFixed(2))
}

func TestOrderQuery_MultipleMatchesReturnList(t *testing.T) {
	e, orders, items := newOrderEcho(t)
	orders.On("FindByLookup", mock.Anything, repo.OrderLookup{ReceiverPhone: "09000000000"}).
		Return([]model.Order{sampleOrder(2, "ORD2"), sampleOrder(1, "ORD1")}, nil)
	items.On("ListByOrderIDs", mock.Anything, []int64{2, 1}).Return([]model.OrderItem{}, nil)

	rec := doJSON(e, http.MethodPost, "/api/v1/orders/query", `{"receiver_phone":"09000000000"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "found 2 orders", env.Message)

	var got []usecase.OrderOutput
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "ORD2", got[0].OrderNo)
}

func TestOrderQuery_Errors(t *testing.T) {
	t.Run("no criteria", func(t *testing.T) {
		e, _, _ := newOrderEcho(t)
		rec := doRequest(e, http.MethodGet, "/api/v1/orders/query", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "order_no or receiver_phone is required", decodeEnvelope(t, rec).Message)
	})

	t.Run("no match", func(t *testing.T) {
		e, orders, _ := newOrderEcho(t)
		orders.On("FindByLookup", mock.Anything, mock.Anything).Return([]model.Order{}, nil)
		rec := doRequest(e, http.MethodGet, "/api/v1/orders/query?order_no=NOPE", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOrderCreate_BadBody(t *testing.T) {
	e, _, _ := newOrderEcho(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/orders", `{"items":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decodeEnvelope(t, rec).Message)
}

func TestOrderList_AnonymousIsEmpty(t *testing.T) {
	e, orders, _ := newOrderEcho(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/orders", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got usecase.OrderListOutput
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
	assert.Empty(t, got.Items)
	assert.Equal(t, int64(0), got.Total)
	orders.AssertNotCalled(t, "ListByUserID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
