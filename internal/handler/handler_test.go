package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type envelopeBody struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	prev := now
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() { now = prev })

	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Validator = validator.New()
	return e
}

func doRequest(e *echo.Echo, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	return doRequest(e, method, path, strings.NewReader(body), echo.MIMEApplicationJSON)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var env envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

// OrderRepositoryのmock

type orderRepoMock struct{ mock.Mock }

func (m *orderRepoMock) Create(ctx context.Context, o model.Order) (model.Order, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *orderRepoMock) FindByID(ctx context.Context, id int64) (model.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *orderRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *orderRepoMock) ListByUserID(ctx context.Context, userID int64, page, pageSize int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *orderRepoMock) FindByLookup(ctx context.Context, q repo.OrderLookup) ([]model.Order, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *orderRepoMock) UpdateStatus(ctx context.Context, id int64, s model.OrderStatus) error {
	return m.Called(ctx, id, s).Error(0)
}

func (m *orderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

type orderItemRepoMock struct{ mock.Mock }

func (m *orderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	return m.Called(ctx, orderID, items).Error(0)
}

func (m *orderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]model.OrderItem), args.Error(1)
}

func (m *orderItemRepoMock) ListByOrderIDs(ctx context.Context, ids []int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]model.OrderItem), args.Error(1)
}

func (m *orderItemRepoMock) CountByProductID(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}
