// Package metrics описывает метрики Prometheus сервиса.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "flood_monitor"

// Metrics - счетчики обращений к облаку EZVIZ.
// Методы безопасно вызывать на nil.
type Metrics struct {
	vendorRequests *prometheus.CounterVec
	vendorDuration *prometheus.HistogramVec
	tokenRefresh   *prometheus.CounterVec
}

// New создает и регистрирует метрики
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		vendorRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vendor_requests_total",
			Help:      "Requests to the EZVIZ cloud API grouped by endpoint and result.",
		}, []string{"endpoint", "result"}),
		vendorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vendor_request_duration_seconds",
			Help:      "Latency of EZVIZ cloud API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		tokenRefresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refresh_total",
			Help:      "Access token refreshes grouped by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.vendorRequests, m.vendorDuration, m.tokenRefresh)
	return m
}

// ObserveVendorCall учитывает один запрос к облаку
func (m *Metrics) ObserveVendorCall(endpoint string, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.vendorRequests.WithLabelValues(endpoint, result(err)).Inc()
	m.vendorDuration.WithLabelValues(endpoint).Observe(took.Seconds())
}

// ObserveTokenRefresh учитывает попытку обновления токена
func (m *Metrics) ObserveTokenRefresh(err error) {
	if m == nil {
		return
	}
	m.tokenRefresh.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RegisterFeedSubscriptions регистрирует gauge числа открытых websocket-подписок
func RegisterFeedSubscriptions(reg prometheus.Registerer, count func() int) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "feed_subscriptions",
		Help:      "Open live feed websocket subscriptions.",
	}, func() float64 {
		return float64(count())
	}))
}
