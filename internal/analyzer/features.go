package analyzer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"log-anomaly-detector/internal/model"
)

const maxKeywords = 5

// errorPatterns flag a message as error severity. Matched case-insensitively
// against the whole message; first match wins.
var errorPatterns = []string{
	"error", "exception", "fail", "crash", "critical",
	"undefined", "null", "segmentation fault", "memory leak",
	"timeout", "deadlock", "race condition",
}

var negativeWords = map[string]bool{
	"error": true, "fail": true, "crash": true, "issue": true, "bug": true,
	"problem": true, "exception": true, "warning": true, "critical": true,
}

var positiveWords = map[string]bool{
	"success": true, "completed": true, "resolved": true, "fixed": true,
	"working": true,
}

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "been": true, "but": true, "by": true, "for": true,
	"from": true, "had": true, "has": true, "have": true, "he": true,
	"her": true, "his": true, "i": true, "if": true, "in": true,
	"into": true, "is": true, "it": true, "its": true, "no": true,
	"not": true, "of": true, "on": true, "or": true, "our": true,
	"she": true, "so": true, "that": true, "the": true, "their": true,
	"them": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "to": true, "was": true, "we": true, "were": true,
	"what": true, "when": true, "which": true, "who": true, "will": true,
	"with": true, "you": true, "your": true,
}

// tokenPattern splits a lowercased message into word-like tokens: runs of
// alphanumerics (plus apostrophes) or single punctuation characters.
var tokenPattern = regexp.MustCompile(`[a-z0-9_']+|[^a-z0-9_'\s]`)

// ExtractFeatures computes the feature vector for a raw log message. An
// empty message yields the all-default vector.
func ExtractFeatures(message string) model.FeatureVector {
	features := model.FeatureVector{
		Severity:      model.SeverityInfo,
		Sentiment:     model.SentimentNeutral,
		Keywords:      []string{},
		KeywordCounts: map[string]int{},
		MessageLength: len(message),
	}

	if message == "" {
		return features
	}

	lower := strings.ToLower(message)
	tokens := tokenPattern.FindAllString(lower, -1)
	features.TokenCount = len(tokens)

	// Candidate keywords: alphabetic, longer than 2 runes, not stopwords.
	counts := make(map[string]int)
	var order []string
	for _, tok := range tokens {
		if stopWords[tok] || len(tok) <= 2 || !isAlpha(tok) {
			continue
		}
		if _, seen := counts[tok]; !seen {
			order = append(order, tok)
		}
		counts[tok]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	features.Keywords = order
	features.KeywordCounts = counts

	for _, pattern := range errorPatterns {
		if strings.Contains(lower, pattern) {
			features.Severity = model.SeverityError
			break
		}
	}

	negCount, posCount := 0, 0
	for _, tok := range tokens {
		if negativeWords[tok] {
			negCount++
		}
		if positiveWords[tok] {
			posCount++
		}
	}
	if negCount > posCount {
		features.Sentiment = model.SentimentNegative
	} else if posCount > negCount {
		features.Sentiment = model.SentimentPositive
	}

	for _, tok := range tokens {
		if !features.HasNumbers && containsDigit(tok) {
			features.HasNumbers = true
		}
		if !features.HasSpecialChars && !isAlnum(tok) {
			features.HasSpecialChars = true
		}
	}

	return features
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
