package analyzer

import (
	"fmt"

	"log-anomaly-detector/internal/model"
)

// PatternDetector checks the most recent history entries for burst patterns.
type PatternDetector struct {
	window    int
	threshold int
}

// NewPatternDetector creates a detector that looks at the last window
// entries and reports a burst when threshold or more of them are errors.
func NewPatternDetector(window, threshold int) *PatternDetector {
	if window <= 0 {
		window = 10
	}
	if threshold <= 0 {
		threshold = 5
	}
	return &PatternDetector{window: window, threshold: threshold}
}

// Detect is a sliding-window majority check over the shared history. With
// fewer entries than the window it always reports not detected.
func (d *PatternDetector) Detect(history []model.HistoryEntry) model.PatternResult {
	if len(history) < d.window {
		return model.PatternResult{Detected: false}
	}

	recent := history[len(history)-d.window:]
	errorCount := 0
	for _, entry := range recent {
		if entry.Features.Severity == model.SeverityError {
			errorCount++
		}
	}

	if errorCount >= d.threshold {
		return model.PatternResult{
			Detected:    true,
			Type:        "error_burst",
			Description: fmt.Sprintf("%d of the last %d log entries have error severity", errorCount, d.window),
		}
	}

	return model.PatternResult{Detected: false}
}
