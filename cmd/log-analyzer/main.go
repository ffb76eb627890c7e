package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log-anomaly-detector/internal/alert"
	"log-anomaly-detector/internal/analyzer"
	"log-anomaly-detector/internal/api"
	"log-anomaly-detector/internal/client"
	"log-anomaly-detector/internal/metrics"
	"log-anomaly-detector/internal/model"
	"log-anomaly-detector/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		configFile = flag.String("config", "configs/log_analyzer.yaml", "Configuration file path (YAML)")
	)
	flag.Parse()

	// .env is optional; it carries SINK_API_KEY in development setups.
	_ = godotenv.Load()

	config, err := utils.LoadConfig(*configFile)
	if err != nil {
		fmt.Printf("Failed to load config %s: %v\n", *configFile, err)
		fmt.Println("Using default configuration...")
		config = utils.GetDefaultConfig()
	} else {
		fmt.Printf("Loaded configuration from %s\n", *configFile)
	}

	logger := utils.NewLogger(config.Logging.Level, config.Logging.Format)

	fmt.Printf("Log Anomaly Detector\n")
	fmt.Printf("Log server: %s\n", config.Application.ServerURL)
	fmt.Printf("Alert sink: %s\n", config.Alerting.SinkURL)
	fmt.Printf("Detection threshold: %.2f\n", config.Detection.Threshold)
	fmt.Println("")

	m := metrics.NewMetrics()
	exporter, err := metrics.NewExporter(config.Application.MetricsPort, m, logger)
	if err != nil {
		fmt.Printf("Failed to create metrics exporter: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := exporter.Start(ctx); err != nil {
			logger.Errorf("Metrics exporter error: %v", err)
		}
	}()

	logAnalyzer := analyzer.New(analyzer.Options{
		Threshold:        config.Detection.Threshold,
		HistorySize:      config.Detection.HistorySize,
		BaselineInterval: config.Detection.BaselineInterval,
		BurstWindow:      config.Detection.BurstWindow,
		BurstThreshold:   config.Detection.BurstThreshold,
	}, logger)

	store := alert.NewStore(alert.StoreOptions{
		MaxAlerts:          config.Alerting.MaxAlerts,
		MaxAttempts:        config.Alerting.MaxAttempts,
		MaxAlertsPerMinute: config.Alerting.MaxAlertsPerMinute,
	}, logger)

	deliveryTimeout := time.Duration(config.Alerting.DeliveryTimeoutSeconds) * time.Second

	var sink alert.Notifier
	if config.Alerting.Channels.Webhook {
		sink = alert.NewWebhookNotifier(config.Alerting.SinkURL, config.Alerting.APIKey, deliveryTimeout, logger)
	}
	var sideChannels []alert.Notifier
	if config.Alerting.Channels.Log {
		sideChannels = append(sideChannels, alert.NewLogAlertNotifier(logger))
	}

	dispatcher := alert.NewDispatcher(store, sink, sideChannels,
		time.Duration(config.Alerting.SweepIntervalSeconds)*time.Second,
		deliveryTimeout, m, logger)
	dispatcher.Start()
	defer dispatcher.Stop()

	source := client.NewLogSourceClient(config.Application.ServerURL,
		time.Duration(config.Source.TimeoutSeconds)*time.Second)

	handlers := api.NewHandlers(store, logAnalyzer, source, logger)
	apiServer := api.NewServer(config.Application.APIPort, handlers, logger)
	go func() {
		if err := apiServer.Start(ctx); err != nil {
			logger.Errorf("API server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nStopping log analyzer...")
		cancel()
	}()

	pollLogs(ctx, config, source, logAnalyzer, store, dispatcher, m, logger)
}

// pollLogs is the main processing loop: fetch a batch of recent logs,
// analyze each unseen record, and create alerts for detected anomalies.
func pollLogs(ctx context.Context, config *utils.Config, source *client.LogSourceClient,
	logAnalyzer *analyzer.Analyzer, store *alert.Store, dispatcher *alert.Dispatcher,
	m *metrics.Metrics, logger *logrus.Logger) {

	pollInterval := time.Duration(config.Source.PollIntervalSeconds) * time.Second
	processed := make(map[string]bool)

	logger.Info("Log polling started")

	for {
		logs, err := source.RecentLogs(ctx, config.Source.BatchLimit)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Errorf("Failed to fetch logs: %v", err)
			// Back off harder after a failed poll.
			if !sleepCtx(ctx, 2*pollInterval) {
				return
			}
			continue
		}

		for _, record := range logs {
			if record.ID != "" && processed[record.ID] {
				continue
			}
			processRecord(record, logAnalyzer, store, dispatcher, m, logger)
			if record.ID != "" {
				processed[record.ID] = true
			}
		}

		// The seen-set only needs to cover the overlap between consecutive
		// batches; reset it before it can grow without bound.
		if len(processed) > 100000 {
			processed = make(map[string]bool)
		}

		m.HistorySize.Set(float64(logAnalyzer.HistoryLen()))
		m.UndeliveredAlerts.Set(float64(store.UndeliveredCount()))

		if !sleepCtx(ctx, pollInterval) {
			return
		}
	}
}

func processRecord(record model.LogRecord, logAnalyzer *analyzer.Analyzer,
	store *alert.Store, dispatcher *alert.Dispatcher, m *metrics.Metrics, logger *logrus.Logger) {

	result, err := logAnalyzer.ProcessLog(record)
	if err != nil {
		m.FormatErrors.Inc()
		logger.Warnf("Skipping log %s: %v", record.ID, err)
		return
	}

	m.LogsProcessed.Inc()
	m.AnomalyScore.Observe(result.AnomalyScore)

	if !result.AnomalyDetected {
		return
	}
	m.AnomaliesDetected.Inc()

	created := store.Create(record.ID, result)
	if created == nil {
		return
	}
	m.AlertsCreated.WithLabelValues(created.Severity).Inc()

	// Immediate best-effort attempt; the dispatcher sweep retries failures.
	dispatcher.Dispatch(*created)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
