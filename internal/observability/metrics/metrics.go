package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "chargeshub_"

	resultSuccess = "success"
	resultError   = "error"

	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
)

var (
	registerOnce sync.Once

	documentsReceived *prometheus.CounterVec
	documentErrors    *prometheus.CounterVec
	documentLatency   *prometheus.HistogramVec

	operationOutcomes *prometheus.CounterVec
	ruleFailures      *prometheus.CounterVec

	validationLatency *prometheus.HistogramVec

	receiptTotal *prometheus.CounterVec

	priceExportTotal   *prometheus.CounterVec
	priceExportLatency *prometheus.HistogramVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		documentsReceived = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "documents_received_total",
				Help: "Total charge documents received by result",
			},
			[]string{"result"},
		)
		documentErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "document_errors_total",
				Help: "Total document handling errors by reason",
			},
			[]string{"reason"},
		)
		documentLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "document_latency_seconds",
				Help:    "Document handling latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		operationOutcomes = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "operations_total",
				Help: "Total charge operations by outcome",
			},
			[]string{"outcome"},
		)
		ruleFailures = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rule_failures_total",
				Help: "Total validation rule failures by rule identifier",
			},
			[]string{"rule"},
		)

		validationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "validation_latency_seconds",
				Help:    "Validation pipeline latency in seconds by phase",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"phase"},
		)

		receiptTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "receipts_total",
				Help: "Total receipts dispatched by kind",
			},
			[]string{"kind"},
		)

		priceExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "price_export_total",
				Help: "Total price report exports by format and result",
			},
			[]string{"format", "result"},
		)
		priceExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "price_export_latency_seconds",
				Help:    "Price report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			documentsReceived,
			documentErrors,
			documentLatency,
			operationOutcomes,
			ruleFailures,
			validationLatency,
			receiptTotal,
			priceExportTotal,
			priceExportLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

func registerDBMetrics(db *sql.DB, logger *log.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "event_outbox_pending",
			Help: "Pending outbox records",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM event_outbox WHERE status = 'pending'")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "event_dlq_count",
			Help: "Dead letter queue records",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM dead_letter_events")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "charges_count",
			Help: "Persisted charge aggregates",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM charges")
		},
	))
}

func queryCount(db *sql.DB, logger *log.Logger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.Printf("metrics query failed: %v", err)
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}

// ObserveDocument records document handling duration and result.
func ObserveDocument(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if documentsReceived != nil {
		documentsReceived.WithLabelValues(result).Inc()
	}
	if documentLatency != nil {
		documentLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncDocumentError increments document error counter.
func IncDocumentError(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	if documentErrors != nil {
		documentErrors.WithLabelValues(reason).Inc()
	}
}

// IncOperationOutcome increments operation outcome counters.
func IncOperationOutcome(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	if operationOutcomes != nil {
		operationOutcomes.WithLabelValues(outcome).Inc()
	}
}

// IncRuleFailure increments the failure counter for a rule identifier.
func IncRuleFailure(rule string) {
	if rule == "" {
		rule = "unknown"
	}
	if ruleFailures != nil {
		ruleFailures.WithLabelValues(rule).Inc()
	}
}

// ObserveValidation records validation phase latency.
func ObserveValidation(phase string, duration time.Duration) {
	if phase == "" {
		phase = "unknown"
	}
	if validationLatency != nil {
		validationLatency.WithLabelValues(phase).Observe(duration.Seconds())
	}
}

// IncReceipt increments dispatched receipt counters.
func IncReceipt(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	if receiptTotal != nil {
		receiptTotal.WithLabelValues(kind).Inc()
	}
}

// ObservePriceExport records price report export duration by format.
func ObservePriceExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if priceExportTotal != nil {
		priceExportTotal.WithLabelValues(format, result).Inc()
	}
	if priceExportLatency != nil {
		priceExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	OutcomeAccepted = outcomeAccepted
	OutcomeRejected = outcomeRejected

	PhaseInput    = "input"
	PhaseBusiness = "business"
)
