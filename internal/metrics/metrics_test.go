package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetrics_RecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "shop")

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/products/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/1", nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("shop", "GET", "/products/:id", "200")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.statusCategory.WithLabelValues("shop", "2xx")))
}

func TestHTTPMetrics_HandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "shop")
	m.requests.WithLabelValues("shop", "GET", "/x", "200").Inc()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}

func TestShopMetrics_Counters(t *testing.T) {
	m := NewShopMetrics(prometheus.NewRegistry())

	m.OrderPlaced(decimal.RequireFromString("200.00"))
	m.OrderRejected("insufficient_stock")
	m.CartAdded()
	m.ImageUploaded(false)
	m.AuthResolved("anonymous")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ordersPlaced))
	assert.Equal(t, float64(200), testutil.ToFloat64(m.orderAmount))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ordersRejected.WithLabelValues("insufficient_stock")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cartAdditions))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.imageUploads.WithLabelValues("rejected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.authResults.WithLabelValues("anonymous")))
}

func TestShopMetrics_NilSafe(t *testing.T) {
	var m *ShopMetrics
	assert.NotPanics(t, func() {
		m.OrderPlaced(decimal.Zero)
		m.OrderRejected("x")
		m.CartAdded()
		m.ImageUploaded(true)
		m.AuthResolved("x")
	})
}
