package analyzer

import (
	"math"

	"log-anomaly-detector/internal/model"
)

// ComputeBaseline recomputes the rolling baseline over the full history
// window. The pass is O(window size), acceptable for the bounded window.
func ComputeBaseline(history []model.HistoryEntry) *model.BaselineStats {
	if len(history) == 0 {
		return nil
	}

	lengths := make([]float64, len(history))
	tokens := make([]float64, len(history))
	for i, entry := range history {
		lengths[i] = float64(entry.Features.MessageLength)
		tokens[i] = float64(entry.Features.TokenCount)
	}

	return &model.BaselineStats{
		MessageLength: fieldStats(lengths),
		TokenCount:    fieldStats(tokens),
	}
}

// fieldStats computes mean, population standard deviation, min and max.
func fieldStats(values []float64) model.FieldStats {
	stats := model.FieldStats{Min: values[0], Max: values[0]}

	var sum float64
	for _, v := range values {
		sum += v
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	stats.Mean = sum / float64(len(values))

	var sumSq float64
	for _, v := range values {
		d := v - stats.Mean
		sumSq += d * d
	}
	stats.Std = math.Sqrt(sumSq / float64(len(values)))

	return stats
}
