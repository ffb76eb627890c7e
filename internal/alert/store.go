package alert

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"log-anomaly-detector/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Store is the thread-safe collection of alert records. All mutation and
// snapshot reads happen under a single lock; no caller observes a partial
// update.
type Store struct {
	mu          sync.Mutex
	alerts      []*model.Alert
	byID        map[string]*model.Alert
	alertedLogs map[string]bool
	nextID      int
	maxAlerts   int
	maxAttempts int
	limiter     *rate.Limiter
	suppressed  int64
	logger      *logrus.Logger

	subs   map[*Subscriber]bool
	subsMu sync.RWMutex
}

// StoreOptions configures alert retention and rate limiting.
type StoreOptions struct {
	// MaxAlerts bounds retention; oldest alerts are evicted first.
	MaxAlerts int
	// MaxAttempts dead-letters an alert after that many failed deliveries.
	MaxAttempts int
	// MaxAlertsPerMinute suppresses alert creation above this rate.
	// Zero disables rate limiting.
	MaxAlertsPerMinute int
}

// Subscriber receives newly created alerts, e.g. for websocket streaming.
type Subscriber struct {
	ID      string
	Channel chan model.Alert
}

// NewSubscriber creates a subscriber with a buffered channel.
func NewSubscriber() *Subscriber {
	return &Subscriber{
		ID:      uuid.NewString(),
		Channel: make(chan model.Alert, 100),
	}
}

// Stats summarizes the store for the operator API.
type Stats struct {
	Total        int            `json:"total"`
	BySeverity   map[string]int `json:"by_severity"`
	Acknowledged int            `json:"acknowledged"`
	Delivered    int            `json:"delivered"`
	Undelivered  int            `json:"undelivered"`
	DeadLettered int            `json:"dead_lettered"`
	Suppressed   int64          `json:"suppressed"`
}

// NewStore creates an alert store.
func NewStore(opts StoreOptions, logger *logrus.Logger) *Store {
	if opts.MaxAlerts <= 0 {
		opts.MaxAlerts = 10000
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 10
	}
	if logger == nil {
		logger = logrus.New()
	}
	var limiter *rate.Limiter
	if opts.MaxAlertsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.MaxAlertsPerMinute)), opts.MaxAlertsPerMinute)
	}
	return &Store{
		alerts:      make([]*model.Alert, 0),
		byID:        make(map[string]*model.Alert),
		alertedLogs: make(map[string]bool),
		maxAlerts:   opts.MaxAlerts,
		maxAttempts: opts.MaxAttempts,
		limiter:     limiter,
		logger:      logger,
		subs:        make(map[*Subscriber]bool),
	}
}

// Create inserts a new alert for a qualifying analysis result. It returns
// nil when the result did not detect an anomaly, when an alert for this log
// id already exists, or when the creation rate limit is exceeded.
func (s *Store) Create(logID string, result model.AnalysisResult) *model.Alert {
	if !result.AnomalyDetected {
		return nil
	}

	s.mu.Lock()
	if logID != "" && s.alertedLogs[logID] {
		s.mu.Unlock()
		s.logger.Debugf("Alert for log %s already exists, skipping", logID)
		return nil
	}
	if s.limiter != nil && !s.limiter.Allow() {
		s.suppressed++
		s.mu.Unlock()
		s.logger.Warnf("Alert creation rate limit exceeded, suppressing alert for log %s", logID)
		return nil
	}

	severity := model.AlertSeverityMedium
	if result.AnomalyScore > 0.9 {
		severity = model.AlertSeverityHigh
	}

	alert := &model.Alert{
		ID:           fmt.Sprintf("alert_%d", s.nextID),
		Timestamp:    time.Now(),
		LogID:        logID,
		Severity:     severity,
		AnomalyScore: result.AnomalyScore,
		Description:  fmt.Sprintf("Anomaly detected in log %s", logID),
		Reasons:      result.Reasons,
	}
	s.nextID++

	s.alerts = append(s.alerts, alert)
	s.byID[alert.ID] = alert
	if logID != "" {
		s.alertedLogs[logID] = true
	}

	// Retention bound. Eviction of an undelivered alert loses it for good,
	// so it is logged.
	for len(s.alerts) > s.maxAlerts {
		oldest := s.alerts[0]
		if !oldest.Delivered && !oldest.DeadLettered {
			s.logger.Warnf("Evicting undelivered alert %s to honor retention bound", oldest.ID)
		}
		delete(s.byID, oldest.ID)
		s.alerts = s.alerts[1:]
	}

	created := *alert
	s.mu.Unlock()

	s.notifySubscribers(created)
	return &created
}

// Recent returns the most recent n alerts by insertion order, newest first.
func (s *Store) Recent(n int) []model.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 || n > len(s.alerts) {
		n = len(s.alerts)
	}
	result := make([]model.Alert, 0, n)
	for i := len(s.alerts) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, *s.alerts[i])
	}
	return result
}

// List returns up to limit alerts, newest first, optionally filtered by
// severity and acknowledgment state ("true"/"false", empty for both).
func (s *Store) List(limit int, severity, acknowledged string) []model.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = len(s.alerts)
	}
	result := make([]model.Alert, 0)
	for i := len(s.alerts) - 1; i >= 0 && len(result) < limit; i-- {
		alert := s.alerts[i]
		if severity != "" && !strings.EqualFold(alert.Severity, severity) {
			continue
		}
		if acknowledged == "true" && !alert.Acknowledged {
			continue
		}
		if acknowledged == "false" && alert.Acknowledged {
			continue
		}
		result = append(result, *alert)
	}
	return result
}

// Get returns a copy of the alert with the given id, or nil.
func (s *Store) Get(id string) *model.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.byID[id]
	if !ok {
		return nil
	}
	copied := *alert
	return &copied
}

// Acknowledge marks an alert acknowledged. Re-acknowledging is an idempotent
// no-op returning true; an unknown id returns false. acknowledged_at is set
// once and never overwritten.
func (s *Store) Acknowledge(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.byID[id]
	if !ok {
		return false
	}
	if !alert.Acknowledged {
		alert.Acknowledged = true
		now := time.Now()
		alert.AcknowledgedAt = &now
		s.logger.Infof("Alert %s acknowledged", id)
	}
	return true
}

// MarkDelivered records a successful delivery. It is a no-op when the alert
// is unknown or already delivered; delivered never reverts to false.
func (s *Store) MarkDelivered(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.byID[id]
	if !ok || alert.Delivered {
		return
	}
	alert.Delivered = true
	s.logger.Infof("Alert %s delivered", id)
}

// RecordDeliveryFailure counts a failed attempt and schedules the next one
// after retryAfter. Once maxAttempts is reached the alert is dead-lettered:
// kept in the store but excluded from future sweeps. Returns true when the
// alert was dead-lettered by this call.
func (s *Store) RecordDeliveryFailure(id string, retryAfter time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.byID[id]
	if !ok || alert.Delivered || alert.DeadLettered {
		return false
	}
	alert.Attempts++
	alert.NextAttempt = time.Now().Add(retryAfter)
	if alert.Attempts >= s.maxAttempts {
		alert.DeadLettered = true
		s.logger.Errorf("Alert %s dead-lettered after %d delivery attempts", id, alert.Attempts)
		return true
	}
	return false
}

// Undelivered returns a snapshot of alerts eligible for a delivery sweep:
// not delivered, not dead-lettered, and past their retry backoff.
func (s *Store) Undelivered() []model.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	result := make([]model.Alert, 0)
	for _, alert := range s.alerts {
		if alert.Delivered || alert.DeadLettered {
			continue
		}
		if alert.NextAttempt.After(now) {
			continue
		}
		result = append(result, *alert)
	}
	return result
}

// UndeliveredCount reports pending deliveries without copying the alerts.
func (s *Store) UndeliveredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, alert := range s.alerts {
		if !alert.Delivered && !alert.DeadLettered {
			count++
		}
	}
	return count
}

// GetStats returns store totals for the operator API.
func (s *Store) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		Total:      len(s.alerts),
		BySeverity: make(map[string]int),
		Suppressed: s.suppressed,
	}
	for _, alert := range s.alerts {
		stats.BySeverity[alert.Severity]++
		if alert.Acknowledged {
			stats.Acknowledged++
		}
		if alert.Delivered {
			stats.Delivered++
		} else if alert.DeadLettered {
			stats.DeadLettered++
		} else {
			stats.Undelivered++
		}
	}
	return stats
}

// Subscribe registers a subscriber for newly created alerts.
func (s *Store) Subscribe(sub *Subscriber) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subs[sub] = true
}

// Unsubscribe removes a subscriber and closes its channel.
func (s *Store) Unsubscribe(sub *Subscriber) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.subs[sub] {
		delete(s.subs, sub)
		close(sub.Channel)
	}
}

func (s *Store) notifySubscribers(alert model.Alert) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()

	for sub := range s.subs {
		select {
		case sub.Channel <- alert:
		default:
			// Channel full, skip
		}
	}
}
