package alert

import (
	"context"

	"log-anomaly-detector/internal/model"
)

// Notifier interface for alert notification. The context bounds a single
// delivery attempt; retry policy belongs to the dispatcher.
type Notifier interface {
	SendAlert(ctx context.Context, alert model.Alert) error
}
