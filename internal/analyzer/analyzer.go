package analyzer

import (
	"strings"
	"sync"
	"time"

	"log-anomaly-detector/internal/model"

	"github.com/sirupsen/logrus"
)

// Analyzer is the stateful per-stream log analyzer. It owns the bounded
// history window and the rolling baseline. All operations are guarded by a
// mutex so concurrent ingestion is safe.
type Analyzer struct {
	mu               sync.Mutex
	scorer           *Scorer
	patterns         *PatternDetector
	history          []model.HistoryEntry
	baseline         *model.BaselineStats
	historySize      int
	baselineInterval int
	logger           *logrus.Logger
}

// Options configures a new Analyzer. Zero values fall back to defaults
// (threshold 0.75, history 1000, baseline recompute every 100 entries,
// burst window 10 with threshold 5).
type Options struct {
	Threshold        float64
	HistorySize      int
	BaselineInterval int
	BurstWindow      int
	BurstThreshold   int
}

// New creates an analyzer instance.
func New(opts Options, logger *logrus.Logger) *Analyzer {
	if opts.HistorySize <= 0 {
		opts.HistorySize = 1000
	}
	if opts.BaselineInterval <= 0 {
		opts.BaselineInterval = 100
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Analyzer{
		scorer:           NewScorer(opts.Threshold),
		patterns:         NewPatternDetector(opts.BurstWindow, opts.BurstThreshold),
		history:          make([]model.HistoryEntry, 0, opts.HistorySize),
		historySize:      opts.HistorySize,
		baselineInterval: opts.BaselineInterval,
		logger:           logger,
	}
}

// ProcessLog analyzes a single log record. It appends a history entry
// (evicting the oldest beyond the window bound), periodically recomputes the
// baseline, and re-evaluates burst patterns. The input is never mutated.
//
// A record without a usable message fails with model.ErrInvalidFormat; the
// analyzer state is left untouched in that case.
func (a *Analyzer) ProcessLog(record model.LogRecord) (model.AnalysisResult, error) {
	if strings.TrimSpace(record.Message) == "" {
		return model.AnalysisResult{}, model.ErrInvalidFormat
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	features := ExtractFeatures(record.Message)
	anomalies := a.scorer.Score(features, a.baseline)

	timestamp := record.Timestamp
	if timestamp == "" {
		timestamp = time.Now().Format(time.RFC3339)
	}
	a.history = append(a.history, model.HistoryEntry{
		Timestamp: timestamp,
		Features:  features,
		Anomalies: anomalies,
	})
	if len(a.history) > a.historySize {
		a.history = a.history[len(a.history)-a.historySize:]
	}

	if len(a.history)%a.baselineInterval == 0 {
		a.baseline = ComputeBaseline(a.history)
		a.logger.Debugf("Baseline recomputed over %d entries (mean length %.1f, std %.1f)",
			len(a.history), a.baseline.MessageLength.Mean, a.baseline.MessageLength.Std)
	}

	patterns := a.patterns.Detect(a.history)
	if patterns.Detected {
		a.logger.Warnf("Burst pattern detected: %s", patterns.Description)
	}

	return model.AnalysisResult{
		AnalysisTimestamp: time.Now(),
		Severity:          features.Severity,
		AnomalyScore:      anomalies.Score,
		AnomalyDetected:   anomalies.Detected,
		Keywords:          features.Keywords,
		Sentiment:         features.Sentiment,
		Reasons:           anomalies.Reasons,
		Patterns:          patterns,
	}, nil
}

// HistoryLen returns the current history window length.
func (a *Analyzer) HistoryLen() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.history)
}

// Baseline returns a copy of the current baseline, or nil before the first
// recomputation.
func (a *Analyzer) Baseline() *model.BaselineStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.baseline == nil {
		return nil
	}
	baseline := *a.baseline
	return &baseline
}

// Threshold returns the detection threshold in use.
func (a *Analyzer) Threshold() float64 {
	return a.scorer.Threshold()
}
