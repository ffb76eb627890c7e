package alert

import (
	"context"
	"strings"

	"log-anomaly-detector/internal/model"

	"github.com/sirupsen/logrus"
)

// LogAlertNotifier sends alerts to local logs
type LogAlertNotifier struct {
	logger *logrus.Logger
}

// NewLogAlertNotifier creates a new log alert notifier
func NewLogAlertNotifier(logger *logrus.Logger) *LogAlertNotifier {
	return &LogAlertNotifier{
		logger: logger,
	}
}

// SendAlert implements Notifier interface - sends alert to logs
func (ln *LogAlertNotifier) SendAlert(_ context.Context, alert model.Alert) error {
	ln.logger.Warnf("ALERT [%s] %s (score %.2f): %s",
		strings.ToUpper(alert.Severity), alert.ID, alert.AnomalyScore, alert.Description)
	return nil
}
