package analyzer

import (
	"math"

	"log-anomaly-detector/internal/model"
)

// Scoring rule weights. A statistical outlier (z-score > 3) is dominant: it
// forces the score to the clamp ceiling so it can never be masked.
const (
	errorPatternWeight      = 0.5
	longMessageWeight       = 0.2
	keywordRepetitionWeight = 0.2

	longMessageLength  = 500
	repetitionMinCount = 10
	zScoreLimit        = 3.0

	// DefaultThreshold is the canonical detection threshold, shared by the
	// scorer and the alert creation gate.
	DefaultThreshold = 0.75
)

// Scorer combines a feature vector and the current baseline into a bounded
// anomaly score.
type Scorer struct {
	threshold float64
}

// NewScorer creates a scorer with the given detection threshold. Values
// outside (0, 1] fall back to DefaultThreshold.
func NewScorer(threshold float64) *Scorer {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Scorer{threshold: threshold}
}

// Threshold returns the configured detection threshold.
func (s *Scorer) Threshold() float64 {
	return s.threshold
}

// Score evaluates the additive anomaly rules. baseline may be nil, in which
// case the statistical check is skipped.
func (s *Scorer) Score(features model.FeatureVector, baseline *model.BaselineStats) model.AnomalyResult {
	score := 0.0
	reasons := []string{}

	if features.Severity == model.SeverityError {
		score += errorPatternWeight
		reasons = append(reasons, "Error pattern detected")
	}

	if features.MessageLength > longMessageLength {
		score += longMessageWeight
		reasons = append(reasons, "Unusual message length")
	}

	if len(features.Keywords) == 1 && features.KeywordCounts[features.Keywords[0]] > repetitionMinCount {
		score += keywordRepetitionWeight
		reasons = append(reasons, "Unusual keyword repetition")
	}

	if baseline != nil && baseline.MessageLength.Std > 0 {
		z := math.Abs(float64(features.MessageLength)-baseline.MessageLength.Mean) / baseline.MessageLength.Std
		if z > zScoreLimit {
			score = 1.0
			reasons = append(reasons, "Message length statistical anomaly")
		}
	}

	if score > 1.0 {
		score = 1.0
	}

	return model.AnomalyResult{
		Score:    score,
		Detected: score >= s.threshold,
		Reasons:  reasons,
	}
}
