package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	BookingTransitions *prometheus.CounterVec
	Settlements        *prometheus.CounterVec
	GatewayAcks        *prometheus.CounterVec
	InvoicesGenerated  prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		BookingTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotel_booking_transitions_total",
			Help: "Booking status transitions by source and target status",
		}, []string{"from", "to"}),

		Settlements: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotel_settlements_total",
			Help: "Settlements initiated by payment method",
		}, []string{"method"}),

		GatewayAcks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotel_gateway_notifications_total",
			Help: "Gateway server notifications by acknowledgement code",
		}, []string{"code"}),

		InvoicesGenerated: f.NewCounter(prometheus.CounterOpts{
			Name: "hotel_invoices_generated_total",
			Help: "Invoices written",
		}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hotel_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) Settlement(method string) {
	if m == nil {
		return
	}
	m.Settlements.WithLabelValues(method).Inc()
}

func (m *Metrics) GatewayAck(code string) {
	if m == nil {
		return
	}
	m.GatewayAcks.WithLabelValues(code).Inc()
}

func (m *Metrics) InvoiceGenerated() {
	if m == nil {
		return
	}
	m.InvoicesGenerated.Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
