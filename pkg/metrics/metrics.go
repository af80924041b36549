package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus коллекторов сервиса.
// Методы безопасны для nil-получателя: при выключенных метриках передается nil.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	DBQueryDuration  *prometheus.HistogramVec
	DBQueryErrors    *prometheus.CounterVec
	DBOpenConns      *prometheus.GaugeVec
	DBInUseConns     *prometheus.GaugeVec
	DBIdleConns      *prometheus.GaugeVec
	DBWaitCount      *prometheus.GaugeVec
	DBWaitDuration   *prometheus.GaugeVec
	DBTxRetriesTotal *prometheus.CounterVec

	BookingsCreatedTotal   prometheus.Counter
	PaymentsCreatedTotal   *prometheus.CounterVec
	PaymentsProcessedTotal *prometheus.CounterVec
	WebhooksTotal          *prometheus.CounterVec
	IntentsDispatchedTotal *prometheus.CounterVec
}

// New регистрирует коллекторы в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует коллекторы в переданном реестре (для тестов)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPRequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests being served",
			ConstLabels: constLabels,
		}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"db", "operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors",
			ConstLabels: constLabels,
		}, []string{"db", "operation"}),
		DBOpenConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBInUseConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBIdleConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBWaitDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_duration_seconds",
			Help:        "Total time blocked waiting for a connection",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBTxRetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_tx_retries_total",
			Help:        "Serializable transaction retries",
			ConstLabels: constLabels,
		}, []string{"db"}),
		BookingsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings created",
			ConstLabels: constLabels,
		}),
		PaymentsCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payments_created_total",
			Help:        "Payments created by method",
			ConstLabels: constLabels,
		}, []string{"method"}),
		PaymentsProcessedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payments_processed_total",
			Help:        "Payments settled by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		WebhooksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_webhooks_total",
			Help:        "Payment webhooks by provider and outcome",
			ConstLabels: constLabels,
		}, []string{"provider", "outcome"}),
		IntentsDispatchedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "intents_dispatched_total",
			Help:        "Notification and email intents by kind and outcome",
			ConstLabels: constLabels,
		}, []string{"kind", "outcome"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConns,
		m.DBInUseConns,
		m.DBIdleConns,
		m.DBWaitCount,
		m.DBWaitDuration,
		m.DBTxRetriesTotal,
		m.BookingsCreatedTotal,
		m.PaymentsCreatedTotal,
		m.PaymentsProcessedTotal,
		m.WebhooksTotal,
		m.IntentsDispatchedTotal,
	)

	return m
}

func (m *Metrics) BookingCreated() {
	if m == nil {
		return
	}
	m.BookingsCreatedTotal.Inc()
}

func (m *Metrics) PaymentCreated(method string) {
	if m == nil {
		return
	}
	m.PaymentsCreatedTotal.WithLabelValues(method).Inc()
}

func (m *Metrics) PaymentProcessed(outcome string) {
	if m == nil {
		return
	}
	m.PaymentsProcessedTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) WebhookReceived(provider, outcome string) {
	if m == nil {
		return
	}
	m.WebhooksTotal.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) IntentDispatched(kind, outcome string) {
	if m == nil {
		return
	}
	m.IntentsDispatchedTotal.WithLabelValues(kind, outcome).Inc()
}
