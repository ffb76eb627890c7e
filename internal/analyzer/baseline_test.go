package analyzer

import (
	"math"
	"testing"

	"log-anomaly-detector/internal/model"
)

func historyWithLengths(lengths ...int) []model.HistoryEntry {
	history := make([]model.HistoryEntry, len(lengths))
	for i, l := range lengths {
		history[i] = model.HistoryEntry{
			Features: model.FeatureVector{MessageLength: l, TokenCount: l / 5},
		}
	}
	return history
}

func TestComputeBaseline_Empty(t *testing.T) {
	if baseline := ComputeBaseline(nil); baseline != nil {
		t.Errorf("Expected nil baseline for empty history, got %+v", baseline)
	}
}

func TestComputeBaseline_SingleEntry(t *testing.T) {
	baseline := ComputeBaseline(historyWithLengths(40))

	if baseline.MessageLength.Mean != 40 {
		t.Errorf("Expected mean 40, got %.2f", baseline.MessageLength.Mean)
	}
	if baseline.MessageLength.Std != 0 {
		t.Errorf("Expected std 0 for a single entry, got %.2f", baseline.MessageLength.Std)
	}
	if baseline.MessageLength.Min != 40 || baseline.MessageLength.Max != 40 {
		t.Errorf("Expected min=max=40, got min=%.2f max=%.2f",
			baseline.MessageLength.Min, baseline.MessageLength.Max)
	}
}

func TestComputeBaseline_PopulationStd(t *testing.T) {
	// Lengths 10, 20, 30: mean 20, population std sqrt(200/3).
	baseline := ComputeBaseline(historyWithLengths(10, 20, 30))

	if baseline.MessageLength.Mean != 20 {
		t.Errorf("Expected mean 20, got %.2f", baseline.MessageLength.Mean)
	}
	wantStd := math.Sqrt(200.0 / 3.0)
	if math.Abs(baseline.MessageLength.Std-wantStd) > 1e-9 {
		t.Errorf("Expected population std %.6f, got %.6f", wantStd, baseline.MessageLength.Std)
	}
	if baseline.MessageLength.Min != 10 {
		t.Errorf("Expected min 10, got %.2f", baseline.MessageLength.Min)
	}
	if baseline.MessageLength.Max != 30 {
		t.Errorf("Expected max 30, got %.2f", baseline.MessageLength.Max)
	}
}

func TestComputeBaseline_TokenCountTracked(t *testing.T) {
	baseline := ComputeBaseline(historyWithLengths(50, 100))

	if baseline.TokenCount.Mean != 15 {
		t.Errorf("Expected token mean 15, got %.2f", baseline.TokenCount.Mean)
	}
	if baseline.TokenCount.Min != 10 || baseline.TokenCount.Max != 20 {
		t.Errorf("Expected token min 10 max 20, got min=%.2f max=%.2f",
			baseline.TokenCount.Min, baseline.TokenCount.Max)
	}
}

func TestPatternDetector_BelowWindow(t *testing.T) {
	detector := NewPatternDetector(10, 5)
	history := make([]model.HistoryEntry, 9)
	for i := range history {
		history[i].Features.Severity = model.SeverityError
	}

	if result := detector.Detect(history); result.Detected {
		t.Error("Detector should stay silent below the window size")
	}
}

func TestPatternDetector_ErrorBurst(t *testing.T) {
	detector := NewPatternDetector(10, 5)

	history := make([]model.HistoryEntry, 10)
	for i := range history {
		if i < 6 {
			history[i].Features.Severity = model.SeverityError
		} else {
			history[i].Features.Severity = model.SeverityInfo
		}
	}

	result := detector.Detect(history)
	if !result.Detected {
		t.Fatal("Expected error burst to be detected")
	}
	if result.Type != "error_burst" {
		t.Errorf("Expected type error_burst, got %s", result.Type)
	}
	if result.Description != "6 of the last 10 log entries have error severity" {
		t.Errorf("Unexpected description: %s", result.Description)
	}
}

func TestPatternDetector_BelowThreshold(t *testing.T) {
	detector := NewPatternDetector(10, 5)

	history := make([]model.HistoryEntry, 10)
	for i := 0; i < 4; i++ {
		history[i].Features.Severity = model.SeverityError
	}

	if result := detector.Detect(history); result.Detected {
		t.Error("Four errors in a ten-entry window should not trigger a burst")
	}
}

func TestPatternDetector_OnlyRecentWindowCounts(t *testing.T) {
	detector := NewPatternDetector(10, 5)

	// Old errors followed by a quiet stretch: nothing in the last 10.
	history := make([]model.HistoryEntry, 20)
	for i := 0; i < 8; i++ {
		history[i].Features.Severity = model.SeverityError
	}

	if result := detector.Detect(history); result.Detected {
		t.Error("Errors outside the recent window should not count")
	}
}
