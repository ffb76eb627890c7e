package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Exporter serves the /metrics endpoint over its own HTTP listener.
type Exporter struct {
	server  *http.Server
	metrics *Metrics
	logger  *logrus.Logger
	port    string
}

// NewExporter builds an exporter with a dedicated registry carrying the
// process, Go runtime and analyzer metrics.
func NewExporter(port string, m *Metrics, logger *logrus.Logger) (*Exporter, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	if err := m.Register(registry); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &Exporter{
		server: &http.Server{
			Addr:    ":" + port,
			Handler: mux,
		},
		metrics: m,
		logger:  logger,
		port:    port,
	}, nil
}

// Start runs the exporter until ctx is cancelled, then shuts it down.
func (e *Exporter) Start(ctx context.Context) error {
	e.logger.Infof("Metrics exporter listening on port %s", e.port)

	go func() {
		if err := e.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			e.logger.Errorf("Metrics exporter failed: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	e.logger.Info("Shutting down metrics exporter...")
	return e.server.Shutdown(shutdownCtx)
}

// GetMetrics returns the instruments backing this exporter.
func (e *Exporter) GetMetrics() *Metrics {
	return e.metrics
}
