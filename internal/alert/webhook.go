package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"log-anomaly-detector/internal/model"

	"github.com/sirupsen/logrus"
)

// WebhookNotifier delivers alerts to the configured sink as a JSON POST.
// A non-2xx status or transport failure counts as a delivery failure and is
// left to the dispatcher to retry.
type WebhookNotifier struct {
	sinkURL string
	apiKey  string
	client  *http.Client
	logger  *logrus.Logger
}

// NewWebhookNotifier creates a webhook notifier for the given sink URL.
// apiKey may be empty; timeout bounds a single request end to end.
func NewWebhookNotifier(sinkURL, apiKey string, timeout time.Duration, logger *logrus.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		sinkURL: sinkURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SendAlert implements the Notifier interface.
func (wn *WebhookNotifier) SendAlert(ctx context.Context, alert model.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert %s: %v", alert.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wn.sinkURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if wn.apiKey != "" {
		req.Header.Set("X-API-Key", wn.apiKey)
	}

	resp, err := wn.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send alert %s: %v", alert.ID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("alert sink returned HTTP %d for alert %s", resp.StatusCode, alert.ID)
	}

	wn.logger.Debugf("Alert %s delivered to sink", alert.ID)
	return nil
}
