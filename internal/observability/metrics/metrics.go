package metrics

import "github.com/prometheus/client_golang/prometheus"

// GatewayMetrics exposes counters/histograms for the booking gateway.
type GatewayMetrics struct {
	upstreamTotal   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	checkoutTotal   *prometheus.CounterVec
}

func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	m := &GatewayMetrics{
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rkbeauty",
			Subsystem: "gateway",
			Name:      "upstream_requests_total",
			Help:      "Total requests to the booking API by operation",
		}, []string{"operation", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rkbeauty",
			Subsystem: "gateway",
			Name:      "upstream_latency_seconds",
			Help:      "Latency of booking API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		checkoutTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rkbeauty",
			Subsystem: "gateway",
			Name:      "checkout_total",
			Help:      "Checkout submissions by flow and outcome",
		}, []string{"flow", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.upstreamTotal, m.upstreamLatency, m.checkoutTotal)
	return m
}

func (m *GatewayMetrics) ObserveUpstream(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamTotal.WithLabelValues(operation, status).Inc()
	m.upstreamLatency.WithLabelValues(operation).Observe(seconds)
}

func (m *GatewayMetrics) ObserveCheckout(flow, outcome string) {
	if m == nil {
		return
	}
	m.checkoutTotal.WithLabelValues(flow, outcome).Inc()
}
