package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus instruments exposed by the analyzer process.
type Metrics struct {
	// Processing metrics
	LogsProcessed     prometheus.Counter
	FormatErrors      prometheus.Counter
	AnomaliesDetected prometheus.Counter
	AnomalyScore      prometheus.Histogram
	HistorySize       prometheus.Gauge

	// Alerting metrics
	AlertsCreated      *prometheus.CounterVec
	AlertsSuppressed   prometheus.Counter
	AlertDeliveries    prometheus.Counter
	DeliveryFailures   prometheus.Counter
	AlertsDeadLettered prometheus.Counter
	UndeliveredAlerts  prometheus.Gauge
}

// NewMetrics creates the metric instruments. They are not registered with
// any registry; use Register.
func NewMetrics() *Metrics {
	return &Metrics{
		LogsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "log_analyzer_logs_processed_total",
			Help: "Total log records processed",
		}),
		FormatErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "log_analyzer_format_errors_total",
			Help: "Log records rejected for missing message",
		}),
		AnomaliesDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "log_analyzer_anomalies_detected_total",
			Help: "Analysis results that crossed the detection threshold",
		}),
		AnomalyScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "log_analyzer_anomaly_score",
			Help:    "Distribution of anomaly scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		HistorySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "log_analyzer_history_size",
			Help: "Current analyzer history window length",
		}),
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "log_analyzer_alerts_created_total",
			Help: "Alerts created, by severity",
		}, []string{"severity"}),
		AlertsSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "log_analyzer_alerts_suppressed_total",
			Help: "Alert creations suppressed by the rate limit",
		}),
		AlertDeliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "log_analyzer_alert_deliveries_total",
			Help: "Successful alert deliveries to the sink",
		}),
		DeliveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "log_analyzer_alert_delivery_failures_total",
			Help: "Failed alert delivery attempts",
		}),
		AlertsDeadLettered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "log_analyzer_alerts_dead_lettered_total",
			Help: "Alerts abandoned after exhausting delivery attempts",
		}),
		UndeliveredAlerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "log_analyzer_undelivered_alerts",
			Help: "Alerts currently awaiting delivery",
		}),
	}
}

// Register registers every instrument with the given registry.
func (m *Metrics) Register(registry prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.LogsProcessed,
		m.FormatErrors,
		m.AnomaliesDetected,
		m.AnomalyScore,
		m.HistorySize,
		m.AlertsCreated,
		m.AlertsSuppressed,
		m.AlertDeliveries,
		m.DeliveryFailures,
		m.AlertsDeadLettered,
		m.UndeliveredAlerts,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}
