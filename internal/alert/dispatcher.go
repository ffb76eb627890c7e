package alert

import (
	"context"
	"sync"
	"time"

	"log-anomaly-detector/internal/metrics"
	"log-anomaly-detector/internal/model"

	"github.com/sirupsen/logrus"
)

// backoffCap bounds the exponential retry backoff, in sweep intervals.
const backoffCap = 8

// Dispatcher owns background delivery of undelivered alerts. It sweeps the
// store at a fixed cadence and retries failed deliveries with exponential
// per-alert backoff. It knows nothing about anomaly scoring.
type Dispatcher struct {
	store           *Store
	sink            Notifier
	sideChannels    []Notifier
	interval        time.Duration
	deliveryTimeout time.Duration
	metrics         *metrics.Metrics
	logger          *logrus.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewDispatcher creates a dispatcher delivering through sink. sideChannels
// are notified once per alert on first dispatch and never affect delivery
// state. metrics may be nil.
func NewDispatcher(store *Store, sink Notifier, sideChannels []Notifier, interval, deliveryTimeout time.Duration, m *metrics.Metrics, logger *logrus.Logger) *Dispatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if deliveryTimeout <= 0 {
		deliveryTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Dispatcher{
		store:           store,
		sink:            sink,
		sideChannels:    sideChannels,
		interval:        interval,
		deliveryTimeout: deliveryTimeout,
		metrics:         m,
		logger:          logger,
		done:            make(chan struct{}),
	}
}

// Start launches the background sweep loop.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		d.cancel = cancel
		go d.run(ctx)
		d.logger.Info("Alert dispatcher started")
	})
}

// Stop signals the sweep loop to exit and waits for it, bounded by one sweep
// interval plus one delivery timeout. Pending undelivered alerts remain in
// the store.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		if d.cancel == nil {
			close(d.done)
			return
		}
		d.cancel()
		select {
		case <-d.done:
			d.logger.Info("Alert dispatcher stopped")
		case <-time.After(d.interval + d.deliveryTimeout):
			d.logger.Warn("Alert dispatcher did not stop in time, abandoning")
		}
	})
}

// Dispatch makes the immediate best-effort delivery attempt for a freshly
// created alert. Failures are recorded for the sweep loop, never returned.
func (d *Dispatcher) Dispatch(alert model.Alert) {
	for _, notifier := range d.sideChannels {
		ctx, cancel := context.WithTimeout(context.Background(), d.deliveryTimeout)
		if err := notifier.SendAlert(ctx, alert); err != nil {
			d.logger.Errorf("Failed to notify side channel for alert %s: %v", alert.ID, err)
		}
		cancel()
	}
	d.deliver(context.Background(), alert)
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.sweep(ctx)
		case <-ctx.Done():
			if pending := d.store.UndeliveredCount(); pending > 0 {
				d.logger.Warnf("Stopping with %d undelivered alerts pending", pending)
			}
			return
		}
	}
}

// sweep attempts delivery of every currently eligible undelivered alert.
// The snapshot is taken under the store lock; deliveries happen outside it.
func (d *Dispatcher) sweep(ctx context.Context) {
	pending := d.store.Undelivered()
	if len(pending) == 0 {
		return
	}
	d.logger.Debugf("Dispatch sweep: %d undelivered alerts", len(pending))

	for _, alert := range pending {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.deliver(ctx, alert)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, alert model.Alert) {
	if d.sink == nil {
		d.store.MarkDelivered(alert.ID)
		return
	}

	attemptCtx, cancel := context.WithTimeout(ctx, d.deliveryTimeout)
	err := d.sink.SendAlert(attemptCtx, alert)
	cancel()

	if err == nil {
		d.store.MarkDelivered(alert.ID)
		if d.metrics != nil {
			d.metrics.AlertDeliveries.Inc()
		}
		return
	}

	d.logger.Errorf("Delivery attempt %d for alert %s failed: %v", alert.Attempts+1, alert.ID, err)
	if d.metrics != nil {
		d.metrics.DeliveryFailures.Inc()
	}
	if d.store.RecordDeliveryFailure(alert.ID, d.backoffFor(alert.Attempts)) {
		if d.metrics != nil {
			d.metrics.AlertsDeadLettered.Inc()
		}
	}
}

// backoffFor doubles the sweep interval per prior failed attempt, capped.
func (d *Dispatcher) backoffFor(attempts int) time.Duration {
	backoff := d.interval
	for i := 0; i < attempts && backoff < d.interval*backoffCap; i++ {
		backoff *= 2
	}
	if backoff > d.interval*backoffCap {
		backoff = d.interval * backoffCap
	}
	return backoff
}
