package analyzer

import (
	"strings"
	"testing"

	"log-anomaly-detector/internal/model"
)

func TestExtractFeatures_ErrorMessage(t *testing.T) {
	features := ExtractFeatures("Critical error: segmentation fault at 0x00")

	if features.Severity != model.SeverityError {
		t.Errorf("Expected severity error, got %s", features.Severity)
	}
	if features.Sentiment != model.SentimentNegative {
		t.Errorf("Expected negative sentiment, got %s", features.Sentiment)
	}
	if features.MessageLength != 42 {
		t.Errorf("Expected message length 42, got %d", features.MessageLength)
	}
	if !features.HasNumbers {
		t.Error("Expected has_numbers to be true (0x00)")
	}
	if !features.HasSpecialChars {
		t.Error("Expected has_special_chars to be true (colon token)")
	}

	wantKeywords := []string{"critical", "error", "segmentation", "fault"}
	if len(features.Keywords) != len(wantKeywords) {
		t.Fatalf("Expected keywords %v, got %v", wantKeywords, features.Keywords)
	}
	for i, kw := range wantKeywords {
		if features.Keywords[i] != kw {
			t.Errorf("Keyword %d: expected %s, got %s", i, kw, features.Keywords[i])
		}
	}
}

func TestExtractFeatures_InfoMessage(t *testing.T) {
	features := ExtractFeatures("Task completed successfully")

	if features.Severity != model.SeverityInfo {
		t.Errorf("Expected severity info, got %s", features.Severity)
	}
	if features.Sentiment != model.SentimentPositive {
		t.Errorf("Expected positive sentiment, got %s", features.Sentiment)
	}
	if features.HasNumbers {
		t.Error("Expected has_numbers to be false")
	}
	if features.HasSpecialChars {
		t.Error("Expected has_special_chars to be false")
	}
	if features.TokenCount != 3 {
		t.Errorf("Expected 3 tokens, got %d", features.TokenCount)
	}
}

func TestExtractFeatures_EmptyMessage(t *testing.T) {
	features := ExtractFeatures("")

	if features.Severity != model.SeverityInfo {
		t.Errorf("Expected severity info, got %s", features.Severity)
	}
	if features.Sentiment != model.SentimentNeutral {
		t.Errorf("Expected neutral sentiment, got %s", features.Sentiment)
	}
	if len(features.Keywords) != 0 {
		t.Errorf("Expected no keywords, got %v", features.Keywords)
	}
	if features.TokenCount != 0 || features.MessageLength != 0 {
		t.Errorf("Expected zero counts, got tokens=%d length=%d", features.TokenCount, features.MessageLength)
	}
}

func TestExtractFeatures_SeverityPatterns(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Request FAILED with status 500", model.SeverityError},
		{"value is undefined in handler", model.SeverityError},
		{"deadlock detected in transaction", model.SeverityError},
		{"Race condition in scheduler", model.SeverityError},
		{"Memory Leak suspected in worker", model.SeverityError},
		{"user logged in", model.SeverityInfo},
		{"cache refreshed", model.SeverityInfo},
	}

	for _, tt := range tests {
		got := ExtractFeatures(tt.message).Severity
		if got != tt.want {
			t.Errorf("Severity(%q) = %s, want %s", tt.message, got, tt.want)
		}
	}
}

func TestExtractFeatures_TopKeywordsTieOrder(t *testing.T) {
	// All keywords appear once; ties break by first occurrence and the list
	// is capped at five.
	features := ExtractFeatures("alpha bravo charlie delta echo foxtrot golf")

	want := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	if len(features.Keywords) != len(want) {
		t.Fatalf("Expected %d keywords, got %v", len(want), features.Keywords)
	}
	for i, kw := range want {
		if features.Keywords[i] != kw {
			t.Errorf("Keyword %d: expected %s, got %s", i, kw, features.Keywords[i])
		}
	}
}

func TestExtractFeatures_KeywordFrequencyOrder(t *testing.T) {
	features := ExtractFeatures("disk disk network disk network memory")

	want := []string{"disk", "network", "memory"}
	for i, kw := range want {
		if features.Keywords[i] != kw {
			t.Errorf("Keyword %d: expected %s, got %s", i, kw, features.Keywords[i])
		}
	}
	if features.KeywordCounts["disk"] != 3 {
		t.Errorf("Expected disk count 3, got %d", features.KeywordCounts["disk"])
	}
}

func TestExtractFeatures_StopwordsAndShortTokens(t *testing.T) {
	features := ExtractFeatures("the service is up and it is ok")

	for _, kw := range features.Keywords {
		if stopWords[kw] || len(kw) <= 2 {
			t.Errorf("Keyword %q should have been filtered", kw)
		}
	}
	if len(features.Keywords) != 1 || features.Keywords[0] != "service" {
		t.Errorf("Expected keywords [service], got %v", features.Keywords)
	}
}

func TestExtractFeatures_RepeatedKeyword(t *testing.T) {
	features := ExtractFeatures(strings.TrimSpace(strings.Repeat("deadlock ", 12)))

	if len(features.Keywords) != 1 {
		t.Fatalf("Expected a single distinct keyword, got %v", features.Keywords)
	}
	if features.KeywordCounts["deadlock"] != 12 {
		t.Errorf("Expected count 12, got %d", features.KeywordCounts["deadlock"])
	}
}
