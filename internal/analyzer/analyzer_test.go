package analyzer

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"log-anomaly-detector/internal/model"

	"github.com/sirupsen/logrus"
)

func newTestAnalyzer(opts Options) *Analyzer {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return New(opts, logger)
}

func TestProcessLog_InvalidFormat(t *testing.T) {
	a := newTestAnalyzer(Options{})

	for _, message := range []string{"", "   ", "\t\n"} {
		_, err := a.ProcessLog(model.LogRecord{ID: "log-1", Message: message})
		if !errors.Is(err, model.ErrInvalidFormat) {
			t.Errorf("ProcessLog(%q): expected ErrInvalidFormat, got %v", message, err)
		}
	}

	if a.HistoryLen() != 0 {
		t.Errorf("Rejected records must not enter history, got %d entries", a.HistoryLen())
	}
}

func TestProcessLog_CleanRecord(t *testing.T) {
	a := newTestAnalyzer(Options{})

	result, err := a.ProcessLog(model.LogRecord{ID: "log-1", Message: "Service started successfully"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.AnomalyDetected {
		t.Error("Clean record should not be flagged")
	}
	if result.Severity != model.SeverityInfo {
		t.Errorf("Expected info severity, got %s", result.Severity)
	}
	if result.Sentiment != model.SentimentPositive {
		t.Errorf("Expected positive sentiment, got %s", result.Sentiment)
	}
	if a.HistoryLen() != 1 {
		t.Errorf("Expected 1 history entry, got %d", a.HistoryLen())
	}
}

func TestProcessLog_HistoryBound(t *testing.T) {
	a := newTestAnalyzer(Options{HistorySize: 50, BaselineInterval: 10})

	for i := 0; i < 61; i++ {
		_, err := a.ProcessLog(model.LogRecord{
			ID:      fmt.Sprintf("log-%d", i),
			Message: fmt.Sprintf("heartbeat tick %d", i),
		})
		if err != nil {
			t.Fatalf("Unexpected error at record %d: %v", i, err)
		}
	}

	if a.HistoryLen() != 50 {
		t.Errorf("History must stay bounded at 50, got %d", a.HistoryLen())
	}
}

func TestProcessLog_BaselineRecomputedAtInterval(t *testing.T) {
	a := newTestAnalyzer(Options{BaselineInterval: 100})

	for i := 0; i < 99; i++ {
		if _, err := a.ProcessLog(model.LogRecord{
			ID:      fmt.Sprintf("log-%d", i),
			Message: fmt.Sprintf("request processed in %d ms", i),
		}); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	if a.Baseline() != nil {
		t.Fatal("Baseline should be nil before the first interval boundary")
	}

	if _, err := a.ProcessLog(model.LogRecord{ID: "log-99", Message: "request processed in 99 ms"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	baseline := a.Baseline()
	if baseline == nil {
		t.Fatal("Baseline should exist after 100 entries")
	}
	if baseline.MessageLength.Mean <= 0 {
		t.Errorf("Expected positive mean length, got %.2f", baseline.MessageLength.Mean)
	}
}

func TestProcessLog_StatisticalOutlierEndToEnd(t *testing.T) {
	a := newTestAnalyzer(Options{BaselineInterval: 100})

	// Build a baseline from short, slightly varying messages.
	for i := 0; i < 100; i++ {
		if _, err := a.ProcessLog(model.LogRecord{
			ID:      fmt.Sprintf("log-%d", i),
			Message: fmt.Sprintf("request processed in %d ms", i),
		}); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	result, err := a.ProcessLog(model.LogRecord{
		ID:      "log-outlier",
		Message: strings.Repeat("a", 600),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.AnomalyScore != 1.0 {
		t.Errorf("Expected dominant statistical score 1.0, got %.2f", result.AnomalyScore)
	}
	if !result.AnomalyDetected {
		t.Error("Statistical outlier should be detected")
	}

	found := false
	for _, reason := range result.Reasons {
		if reason == "Message length statistical anomaly" {
			found = true
		}
	}
	if !found {
		t.Errorf("Missing statistical reason in %v", result.Reasons)
	}
}

func TestProcessLog_ErrorBurst(t *testing.T) {
	a := newTestAnalyzer(Options{BurstWindow: 10, BurstThreshold: 5})

	var result model.AnalysisResult
	var err error
	for i := 0; i < 4; i++ {
		if result, err = a.ProcessLog(model.LogRecord{
			ID:      fmt.Sprintf("info-%d", i),
			Message: "Cache refreshed",
		}); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	for i := 0; i < 6; i++ {
		if result, err = a.ProcessLog(model.LogRecord{
			ID:      fmt.Sprintf("err-%d", i),
			Message: "Database query failed",
		}); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	if !result.Patterns.Detected {
		t.Fatal("Expected error burst to be reported on the last record")
	}
	if result.Patterns.Type != "error_burst" {
		t.Errorf("Expected error_burst, got %s", result.Patterns.Type)
	}
}

func TestProcessLog_NoBurstBelowWindow(t *testing.T) {
	a := newTestAnalyzer(Options{BurstWindow: 10, BurstThreshold: 5})

	var result model.AnalysisResult
	var err error
	for i := 0; i < 6; i++ {
		if result, err = a.ProcessLog(model.LogRecord{
			ID:      fmt.Sprintf("err-%d", i),
			Message: "Database query failed",
		}); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	if result.Patterns.Detected {
		t.Error("Burst must not fire before the window is full")
	}
}

func TestAnalyzer_ThresholdDefaulting(t *testing.T) {
	if got := newTestAnalyzer(Options{}).Threshold(); got != DefaultThreshold {
		t.Errorf("Expected default threshold %.2f, got %.2f", DefaultThreshold, got)
	}
	if got := newTestAnalyzer(Options{Threshold: 0.9}).Threshold(); got != 0.9 {
		t.Errorf("Expected threshold 0.9, got %.2f", got)
	}
}
