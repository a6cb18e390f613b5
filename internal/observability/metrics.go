// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Chain metrics
	RPCCallLatency       *prometheus.HistogramVec
	RPCCallErrors        *prometheus.CounterVec
	TransactionsTotal    *prometheus.CounterVec
	ReceiptWaitDuration  prometheus.Histogram
	HeadsReceived        prometheus.Counter
	ChainReadsUnresolved *prometheus.CounterVec

	// Metadata metrics
	MetadataOpDuration *prometheus.HistogramVec
	MetadataOpErrors   *prometheus.CounterVec
	MetadataDefaulted  prometheus.Counter

	// Service metrics
	QuotesTotal         *prometheus.CounterVec
	HydrationDuration   *prometheus.HistogramVec
	AuthFailures        *prometheus.CounterVec
	UsersRegistered     prometheus.Counter
	ActivityEventsTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestDuration *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer, namespace)
}

// NewMetricsWith registers the metrics on reg.
func NewMetricsWith(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "debook"
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Chain metrics
		RPCCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "rpc_call_latency_seconds",
			Help:      "Ethereum JSON-RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		RPCCallErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "rpc_call_errors_total",
			Help:      "Total number of failed JSON-RPC calls by method",
		}, []string{"method"}),
		TransactionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "transactions_total",
			Help:      "Total number of submitted transactions by outcome",
		}, []string{"outcome"}),
		ReceiptWaitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "receipt_wait_seconds",
			Help:      "Time between submission and mined receipt in seconds",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
		}),
		HeadsReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "heads_received_total",
			Help:      "Total number of newHeads notifications received",
		}),
		ChainReadsUnresolved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "reads_unresolved_total",
			Help:      "Total number of contract reads reported as absent",
		}, []string{"operation"}),

		// Metadata metrics
		MetadataOpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "metadata",
			Name:      "operation_duration_seconds",
			Help:      "Metadata store operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "operation"}),
		MetadataOpErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metadata",
			Name:      "operation_errors_total",
			Help:      "Total number of failed metadata store operations",
		}, []string{"backend", "operation"}),
		MetadataDefaulted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metadata",
			Name:      "defaulted_total",
			Help:      "Total number of documents replaced by placeholder metadata",
		}),

		// Service metrics
		QuotesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "quotes_total",
			Help:      "Total number of price quotes by status",
		}, []string{"status"}),
		HydrationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "hydration_duration_seconds",
			Help:      "Duration of list hydration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view"}),
		AuthFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "account",
			Name:      "auth_failures_total",
			Help:      "Total number of authentication failures by reason",
		}, []string{"reason"}),
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "account",
			Name:      "users_registered_total",
			Help:      "Total number of registered users",
		}),
		ActivityEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "events_total",
			Help:      "Total number of journaled activity events by kind",
		}, []string{"kind"}),

		// HTTP metrics
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),

		// Database metrics
		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordRPCError increments the failed RPC counter.
func RecordRPCError(method string) {
	DefaultMetrics.RPCCallErrors.WithLabelValues(method).Inc()
}

// RecordTransaction records a transaction outcome
// (mined, reverted, timeout, send_failed).
func RecordTransaction(outcome string) {
	DefaultMetrics.TransactionsTotal.WithLabelValues(outcome).Inc()
}

// RecordReceiptWait records how long a receipt took to appear.
func RecordReceiptWait(seconds float64) {
	DefaultMetrics.ReceiptWaitDuration.Observe(seconds)
}

// RecordHead increments the newHeads counter.
func RecordHead() {
	DefaultMetrics.HeadsReceived.Inc()
}

// RecordUnresolvedRead records a contract read converted to an absent result.
func RecordUnresolvedRead(operation string) {
	DefaultMetrics.ChainReadsUnresolved.WithLabelValues(operation).Inc()
}

// RecordMetadataOp records a metadata store operation.
func RecordMetadataOp(backend, operation string, seconds float64, err error) {
	DefaultMetrics.MetadataOpDuration.WithLabelValues(backend, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.MetadataOpErrors.WithLabelValues(backend, operation).Inc()
	}
}

// RecordMetadataDefaulted increments the placeholder metadata counter.
func RecordMetadataDefaulted() {
	DefaultMetrics.MetadataDefaulted.Inc()
}

// RecordQuote records a quote result.
func RecordQuote(ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	DefaultMetrics.QuotesTotal.WithLabelValues(status).Inc()
}

// RecordHydration records the duration of a list hydration.
func RecordHydration(view string, seconds float64) {
	DefaultMetrics.HydrationDuration.WithLabelValues(view).Observe(seconds)
}

// RecordAuthFailure records an authentication failure.
func RecordAuthFailure(reason string) {
	DefaultMetrics.AuthFailures.WithLabelValues(reason).Inc()
}

// RecordUserRegistered increments the registered users counter.
func RecordUserRegistered() {
	DefaultMetrics.UsersRegistered.Inc()
}

// RecordActivity records a journaled activity event.
func RecordActivity(kind string) {
	DefaultMetrics.ActivityEventsTotal.WithLabelValues(kind).Inc()
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(method, route, status string, seconds float64) {
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
