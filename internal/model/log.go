package model

import (
	"errors"
	"time"
)

// ErrInvalidFormat is returned by the analyzer when a log record has no
// usable message.
var ErrInvalidFormat = errors.New("invalid log format: missing message")

// LogRecord is a single log entry as delivered by the log server.
type LogRecord struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	Source    string `json:"source,omitempty"`
	Type      string `json:"type,omitempty"`
}

// Severity classification of a single log message.
const (
	SeverityInfo  = "info"
	SeverityError = "error"
)

// Sentiment classification of a single log message.
const (
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	SentimentPositive = "positive"
)

// FeatureVector holds the lexical features extracted from one log message.
// It is derived purely from the message text and never mutated afterwards.
type FeatureVector struct {
	Severity        string         `json:"severity"`
	Keywords        []string       `json:"keywords"`
	KeywordCounts   map[string]int `json:"keyword_counts"`
	Sentiment       string         `json:"sentiment"`
	MessageLength   int            `json:"message_length"`
	TokenCount      int            `json:"token_count"`
	HasNumbers      bool           `json:"has_numbers"`
	HasSpecialChars bool           `json:"has_special_chars"`
}

// FieldStats is a statistical summary of one numeric feature.
type FieldStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// BaselineStats is the rolling statistical baseline over the history window.
type BaselineStats struct {
	MessageLength FieldStats `json:"message_length"`
	TokenCount    FieldStats `json:"token_count"`
}

// AnomalyResult is the scorer output for one log entry.
type AnomalyResult struct {
	Score    float64  `json:"score"`
	Detected bool     `json:"detected"`
	Reasons  []string `json:"reasons"`
}

// PatternResult reports burst patterns over the recent history window.
type PatternResult struct {
	Detected    bool   `json:"detected"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// HistoryEntry is one processed log in the analyzer's sliding window.
type HistoryEntry struct {
	Timestamp string        `json:"timestamp"`
	Features  FeatureVector `json:"features"`
	Anomalies AnomalyResult `json:"anomalies"`
}

// AnalysisResult is the public outcome of processing one log record.
type AnalysisResult struct {
	AnalysisTimestamp time.Time     `json:"analysis_timestamp"`
	Severity          string        `json:"severity"`
	AnomalyScore      float64       `json:"anomaly_score"`
	AnomalyDetected   bool          `json:"anomaly_detected"`
	Keywords          []string      `json:"keywords"`
	Sentiment         string        `json:"sentiment"`
	Reasons           []string      `json:"reasons"`
	Patterns          PatternResult `json:"patterns"`
}
