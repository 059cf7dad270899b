package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ingestion metrics
	TransactionsIngested prometheus.Counter
	TransactionsFailed   prometheus.Counter
	TransactionAmount    prometheus.Histogram
	IngestDuration       prometheus.Histogram
	LookupDuration       prometheus.Histogram

	// Publish metrics
	PublishSuccesses prometheus.Counter
	PublishErrors    prometheus.Counter
	PublishesDropped prometheus.Counter

	// Aggregation metrics
	RecordsProcessed   *prometheus.CounterVec
	RecordsSkipped     *prometheus.CounterVec
	RecordsMalformed   *prometheus.CounterVec
	LateRecordsDropped *prometheus.CounterVec
	WindowsEmitted     *prometheus.CounterVec
	EmitFailures       *prometheus.CounterVec
	WatermarkLagGauge  *prometheus.GaugeVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec
}

// New creates all Prometheus metrics and registers them with the
// given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Ingestion metrics
		TransactionsIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "txnstream_transactions_ingested_total",
			Help: "Total number of transactions accepted and persisted",
		}),
		TransactionsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "txnstream_transactions_failed_total",
			Help: "Total number of transactions rejected by the durable store",
		}),
		TransactionAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "txnstream_transaction_amount",
			Help:    "Ingested transaction amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		IngestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "txnstream_ingest_duration_seconds",
			Help:    "Duration of transaction ingestion",
			Buckets: prometheus.DefBuckets,
		}),
		LookupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "txnstream_lookup_duration_seconds",
			Help:    "Duration of transaction lookups",
			Buckets: prometheus.DefBuckets,
		}),

		// Publish metrics
		PublishSuccesses: factory.NewCounter(prometheus.CounterOpts{
			Name: "txnstream_publishes_total",
			Help: "Total number of transaction events published to the stream",
		}),
		PublishErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "txnstream_publish_errors_total",
			Help: "Total number of failed event publishes",
		}),
		PublishesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "txnstream_publishes_dropped_total",
			Help: "Total number of queued publishes abandoned at shutdown",
		}),

		// Aggregation metrics
		RecordsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txnstream_records_processed_total",
				Help: "Total stream records folded into a window",
			},
			[]string{"dimension"},
		),
		RecordsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txnstream_records_skipped_total",
				Help: "Total stream records skipped because the dimension key was absent",
			},
			[]string{"dimension"},
		),
		RecordsMalformed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txnstream_records_malformed_total",
				Help: "Total stream records dropped because they could not be decoded",
			},
			[]string{"dimension"},
		),
		LateRecordsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txnstream_late_records_dropped_total",
				Help: "Total stream records dropped for arriving behind the watermark",
			},
			[]string{"dimension"},
		),
		WindowsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txnstream_windows_emitted_total",
				Help: "Total finalized window aggregates delivered to the sink",
			},
			[]string{"dimension"},
		),
		EmitFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txnstream_emit_failures_total",
				Help: "Total window aggregate deliveries that failed",
			},
			[]string{"dimension"},
		),
		WatermarkLagGauge: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "txnstream_watermark_lag_seconds",
				Help: "Lag between wall clock and the dimension watermark",
			},
			[]string{"dimension"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txnstream_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "txnstream_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txnstream_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "txnstream_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txnstream_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txnstream_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),
	}
}

// TransactionIngested increments the ingested counter and records the amount.
func (m *Metrics) TransactionIngested(amount float64) {
	m.TransactionsIngested.Inc()
	m.TransactionAmount.Observe(amount)
}

// TransactionFailed increments the failed counter.
func (m *Metrics) TransactionFailed() {
	m.TransactionsFailed.Inc()
}

// PublishSucceeded increments the publish success counter.
func (m *Metrics) PublishSucceeded() {
	m.PublishSuccesses.Inc()
}

// PublishFailed increments the publish error counter.
func (m *Metrics) PublishFailed() {
	m.PublishErrors.Inc()
}

// PublishDropped counts publishes abandoned during shutdown.
func (m *Metrics) PublishDropped(n int) {
	m.PublishesDropped.Add(float64(n))
}

// ObserveIngestDuration records the duration of one ingest call.
func (m *Metrics) ObserveIngestDuration(d time.Duration) {
	m.IngestDuration.Observe(d.Seconds())
}

// ObserveLookupDuration records the duration of one lookup call.
func (m *Metrics) ObserveLookupDuration(d time.Duration) {
	m.LookupDuration.Observe(d.Seconds())
}

// RecordProcessed counts a record folded into a window.
func (m *Metrics) RecordProcessed(dimension string) {
	m.RecordsProcessed.WithLabelValues(dimension).Inc()
}

// RecordSkipped counts a record with no key for the dimension.
func (m *Metrics) RecordSkipped(dimension string) {
	m.RecordsSkipped.WithLabelValues(dimension).Inc()
}

// RecordMalformed counts an undecodable record.
func (m *Metrics) RecordMalformed(dimension string) {
	m.RecordsMalformed.WithLabelValues(dimension).Inc()
}

// LateRecordDropped counts a record behind the watermark.
func (m *Metrics) LateRecordDropped(dimension string) {
	m.LateRecordsDropped.WithLabelValues(dimension).Inc()
}

// WindowEmitted counts a delivered window aggregate.
func (m *Metrics) WindowEmitted(dimension string) {
	m.WindowsEmitted.WithLabelValues(dimension).Inc()
}

// EmitFailed counts a failed aggregate delivery.
func (m *Metrics) EmitFailed(dimension string) {
	m.EmitFailures.WithLabelValues(dimension).Inc()
}

// WatermarkLag reports the dimension's current watermark lag.
func (m *Metrics) WatermarkLag(dimension string, lag time.Duration) {
	m.WatermarkLagGauge.WithLabelValues(dimension).Set(lag.Seconds())
}
