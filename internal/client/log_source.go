package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"log-anomaly-detector/internal/model"
)

// LogSourceClient fetches recent logs from the log server's query API.
type LogSourceClient struct {
	baseURL string
	client  *http.Client
}

type recentLogsResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Logs    []model.LogRecord `json:"logs"`
}

// NewLogSourceClient creates a client for the given server base URL.
func NewLogSourceClient(baseURL string, timeout time.Duration) *LogSourceClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LogSourceClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// RecentLogs returns up to limit most recent log records.
func (c *LogSourceClient) RecentLogs(ctx context.Context, limit int) ([]model.LogRecord, error) {
	endpoint := fmt.Sprintf("%s/api/query/recent?%s", c.baseURL,
		url.Values{"limit": []string{strconv.Itoa(limit)}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent logs: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("log server returned HTTP %d", resp.StatusCode)
	}

	var payload recentLogsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode log server response: %v", err)
	}

	return payload.Logs, nil
}

// SourceStats fetches the server-side log statistics as raw JSON, passed
// through to the operator API.
func (c *LogSourceClient) SourceStats(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/query/stats", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query log stats: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("log server returned HTTP %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode log stats: %v", err)
	}
	return raw, nil
}
