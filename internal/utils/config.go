package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration of the log analyzer process.
type Config struct {
	Application ApplicationConfig `yaml:"application"`
	Source      SourceConfig      `yaml:"source"`
	Detection   DetectionConfig   `yaml:"detection"`
	Alerting    AlertingConfig    `yaml:"alerting"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ApplicationConfig struct {
	ServerURL   string `yaml:"server_url"`
	APIPort     string `yaml:"api_port"`
	MetricsPort string `yaml:"metrics_port"`
}

// SourceConfig controls the polling loop that fetches logs from the server.
type SourceConfig struct {
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	BatchLimit          int `yaml:"batch_limit"`
	TimeoutSeconds      int `yaml:"timeout_seconds"`
}

// DetectionConfig controls the anomaly scoring engine.
type DetectionConfig struct {
	Threshold        float64 `yaml:"threshold"`
	HistorySize      int     `yaml:"history_size"`
	BaselineInterval int     `yaml:"baseline_interval"`
	BurstWindow      int     `yaml:"burst_window"`
	BurstThreshold   int     `yaml:"burst_threshold"`
}

// AlertingConfig controls alert creation, retention and delivery.
type AlertingConfig struct {
	SinkURL                string              `yaml:"sink_url"`
	APIKey                 string              `yaml:"api_key"`
	SweepIntervalSeconds   int                 `yaml:"sweep_interval_seconds"`
	DeliveryTimeoutSeconds int                 `yaml:"delivery_timeout_seconds"`
	MaxAttempts            int                 `yaml:"max_attempts"`
	MaxAlerts              int                 `yaml:"max_alerts"`
	MaxAlertsPerMinute     int                 `yaml:"max_alerts_per_minute"`
	Channels               AlertChannelsConfig `yaml:"channels"`
}

type AlertChannelsConfig struct {
	Log     bool `yaml:"log"`
	Webhook bool `yaml:"webhook"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		filename = "configs/log_analyzer.yaml"
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %v", filename, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file %s: %v", filename, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}

	return &config, nil
}

// Validate fills in defaults for missing fields. The SINK_API_KEY environment
// variable overrides the configured API key.
func (c *Config) Validate() error {
	if c.Application.ServerURL == "" {
		c.Application.ServerURL = "http://localhost:3000"
	}
	if c.Application.APIPort == "" {
		c.Application.APIPort = "5001"
	}
	if c.Application.MetricsPort == "" {
		c.Application.MetricsPort = "8080"
	}

	if c.Source.PollIntervalSeconds <= 0 {
		c.Source.PollIntervalSeconds = 5
	}
	if c.Source.BatchLimit <= 0 {
		c.Source.BatchLimit = 10
	}
	if c.Source.TimeoutSeconds <= 0 {
		c.Source.TimeoutSeconds = 10
	}

	if c.Detection.Threshold <= 0 || c.Detection.Threshold > 1 {
		c.Detection.Threshold = 0.75
	}
	if c.Detection.HistorySize <= 0 {
		c.Detection.HistorySize = 1000
	}
	if c.Detection.BaselineInterval <= 0 {
		c.Detection.BaselineInterval = 100
	}
	if c.Detection.BurstWindow <= 0 {
		c.Detection.BurstWindow = 10
	}
	if c.Detection.BurstThreshold <= 0 {
		c.Detection.BurstThreshold = 5
	}

	if c.Alerting.SinkURL == "" {
		c.Alerting.SinkURL = c.Application.ServerURL + "/api/alerts"
	}
	if key := os.Getenv("SINK_API_KEY"); key != "" {
		c.Alerting.APIKey = key
	}
	if c.Alerting.SweepIntervalSeconds <= 0 {
		c.Alerting.SweepIntervalSeconds = 5
	}
	if c.Alerting.DeliveryTimeoutSeconds <= 0 {
		c.Alerting.DeliveryTimeoutSeconds = 5
	}
	if c.Alerting.MaxAttempts <= 0 {
		c.Alerting.MaxAttempts = 10
	}
	if c.Alerting.MaxAlerts <= 0 {
		c.Alerting.MaxAlerts = 10000
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	return nil
}

// GetDefaultConfig returns the built-in default configuration.
func GetDefaultConfig() *Config {
	config := &Config{
		Alerting: AlertingConfig{
			MaxAlertsPerMinute: 120,
			Channels: AlertChannelsConfig{
				Log:     true,
				Webhook: true,
			},
		},
	}
	_ = config.Validate()
	return config
}
