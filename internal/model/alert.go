package model

import "time"

// Alert severity levels. High is reserved for anomaly scores above 0.9.
const (
	AlertSeverityMedium = "medium"
	AlertSeverityHigh   = "high"
)

// Alert is a deliverable record created for a detected anomaly. Alerts are
// owned by the alert store and mutated only under its lock.
type Alert struct {
	ID             string     `json:"id"`
	Timestamp      time.Time  `json:"timestamp"`
	LogID          string     `json:"log_id"`
	Severity       string     `json:"severity"`
	AnomalyScore   float64    `json:"anomaly_score"`
	Description    string     `json:"description"`
	Reasons        []string   `json:"reasons"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	Delivered      bool       `json:"delivered"`
	Attempts       int        `json:"attempts"`
	DeadLettered   bool       `json:"dead_lettered"`

	// NextAttempt gates retry sweeps; it is scheduling state, not payload.
	NextAttempt time.Time `json:"-"`
}
