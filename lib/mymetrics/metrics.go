package mymetrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the counters that the services report on.
type Metrics struct {
	CartMutations   *prometheus.CounterVec
	OrdersPlaced    *prometheus.CounterVec
	GatewayFailures *prometheus.CounterVec
	RequestLatency  *prometheus.HistogramVec
}

func New() *Metrics {
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "cart_mutations_total",
		Help:      "Total number of cart mutations.",
	}, []string{"operation"})
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "orders_placed_total",
		Help:      "Total number of successfully placed orders.",
	}, []string{"payment_method"})
	gatewayFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "gateway_failures_total",
		Help:      "Total number of failed payment-gateway calls.",
	}, []string{"operation"})
	requestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})

	prometheus.MustRegister(cartMutations, ordersPlaced, gatewayFailures, requestLatency)

	return &Metrics{
		CartMutations:   cartMutations,
		OrdersPlaced:    ordersPlaced,
		GatewayFailures: gatewayFailures,
		RequestLatency:  requestLatency,
	}
}

// NewUnregistered is for tests that construct multiple services in one process.
func NewUnregistered() *Metrics {
	return &Metrics{
		CartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cart_mutations_total"}, []string{"operation"}),
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_placed_total"}, []string{"payment_method"}),
		GatewayFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_failures_total"}, []string{"operation"}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "http_request_duration_ms"}, []string{"handler"}),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
