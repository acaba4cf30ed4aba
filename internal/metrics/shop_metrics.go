package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// ShopMetrics は注文・カート・画像などの業務メトリクス。
// nilレシーバでも呼べる（テストや未設定時）
type ShopMetrics struct {
	ordersPlaced   prometheus.Counter
	ordersRejected *prometheus.CounterVec
	orderAmount    prometheus.Counter
	cartAdditions  prometheus.Counter
	imageUploads   *prometheus.CounterVec
	authResults    *prometheus.CounterVec
}

func NewShopMetrics(reg prometheus.Registerer) *ShopMetrics {
	f := promauto.With(reg)
	return &ShopMetrics{
		ordersPlaced: f.NewCounter(prometheus.CounterOpts{
			Name: "shop_orders_placed_total",
			Help: "Total number of committed orders",
		}),
		ordersRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shop_orders_rejected_total",
			Help: "Total number of rejected checkouts by reason",
		}, []string{"reason"}),
		orderAmount: f.NewCounter(prometheus.CounterOpts{
			Name: "shop_order_amount_total",
			Help: "Sum of pay_amount of committed orders",
		}),
		cartAdditions: f.NewCounter(prometheus.CounterOpts{
			Name: "shop_cart_additions_total",
			Help: "Total number of add-to-cart operations",
		}),
		imageUploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shop_image_uploads_total",
			Help: "Total number of product image uploads by result",
		}, []string{"result"}),
		authResults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shop_auth_results_total",
			Help: "Bearer token resolution results",
		}, []string{"result"}),
	}
}

func (m *ShopMetrics) OrderPlaced(payAmount decimal.Decimal) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	f, _ := payAmount.Float64()
	m.orderAmount.Add(f)
}

// reason: invalid_request / product_unavailable / insufficient_stock / storage
func (m *ShopMetrics) OrderRejected(reason string) {
	if m == nil {
		return
	}
	m.ordersRejected.WithLabelValues(reason).Inc()
}

func (m *ShopMetrics) CartAdded() {
	if m == nil {
		return
	}
	m.cartAdditions.Inc()
}

func (m *ShopMetrics) ImageUploaded(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "rejected"
	}
	m.imageUploads.WithLabelValues(result).Inc()
}

// result: authenticated / anonymous / invalid
func (m *ShopMetrics) AuthResolved(result string) {
	if m == nil {
		return
	}
	m.authResults.WithLabelValues(result).Inc()
}
