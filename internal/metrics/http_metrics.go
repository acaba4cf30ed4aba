package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics holds the collectors for HTTP request metrics
type HTTPMetrics struct {
	serviceName string

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	statusCategory *prometheus.CounterVec
}

// NewHTTPMetrics はregに登録したHTTPメトリクスを返す
func NewHTTPMetrics(reg prometheus.Registerer, serviceName string) *HTTPMetrics {
	f := promauto.With(reg)
	return &HTTPMetrics{
		serviceName: serviceName,
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		statusCategory: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"service", "category"},
		),
	}
}

func statusCategory(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return ""
	}
}

// Middleware records request metrics after the handler returns
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			method := c.Request().Method
			// ルートのパターン（/products/:id）でラベルを作る
			path := c.Path()
			statusStr := strconv.Itoa(status)

			m.requests.WithLabelValues(m.serviceName, method, path, statusStr).Inc()
			m.duration.WithLabelValues(m.serviceName, method, path, statusStr).Observe(time.Since(start).Seconds())
			if cat := statusCategory(status); cat != "" {
				m.statusCategory.WithLabelValues(m.serviceName, cat).Inc()
			}
			return err
		}
	}
}

// Handler は/metrics用のハンドラ
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
