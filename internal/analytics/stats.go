package analytics

import (
	"fmt"
	"math"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
)

const (
	// Minimum entries required for correlation analysis
	MinEntriesForCorrelation = 14

	// Minimum entries required for pattern analysis
	MinEntriesForPattern = 7

	// Correlation thresholds
	CorrelationThresholdHigh   = 0.5
	CorrelationThresholdMedium = 0.3
	CorrelationThresholdLow    = 0.2

	// P-value thresholds
	PValueThresholdHigh   = 0.01
	PValueThresholdMedium = 0.05
	PValueThresholdLow    = 0.10
)

// mean returns the arithmetic mean, or 0 for no values
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// calculatePearsonCorrelation computes Pearson correlation coefficient and p-value
func calculatePearsonCorrelation(xValues, yValues []float64) (r, pValue float64, err error) {
	n := len(xValues)
	if n != len(yValues) {
		return 0, 1, fmt.Errorf("arrays must have same length")
	}
	if n < MinEntriesForCorrelation {
		return 0, 1, fmt.Errorf("need at least %d entries, got %d", MinEntriesForCorrelation, n)
	}

	meanX := mean(xValues)
	meanY := mean(yValues)

	var numerator, denomX, denomY float64
	for i := 0; i < n; i++ {
		dx := xValues[i] - meanX
		dy := yValues[i] - meanY
		numerator += dx * dy
		denomX += dx * dx
		denomY += dy * dy
	}

	if denomX == 0 || denomY == 0 {
		return 0, 1, nil // No variance, no correlation
	}

	r = numerator / math.Sqrt(denomX*denomY)

	if math.Abs(r) >= 1.0 {
		pValue = 0
	} else {
		t := r * math.Sqrt(float64(n-2)/(1-r*r))
		// Two-tailed p-value using normal approximation
		pValue = 2 * (1 - normalCDF(math.Abs(t)))
	}

	return r, pValue, nil
}

// normalCDF calculates the cumulative distribution function for standard normal
func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt(2)))
}

// calculateConsistency computes normalized entropy (1 = very consistent, 0 = random)
func calculateConsistency(distribution []float64) float64 {
	n := len(distribution)
	if n == 0 {
		return 0
	}

	var total float64
	for _, v := range distribution {
		total += v
	}
	if total == 0 {
		return 0
	}

	var entropy float64
	for _, v := range distribution {
		if v > 0 {
			prob := v / total
			entropy -= prob * math.Log2(prob)
		}
	}

	maxEntropy := math.Log2(float64(n))
	if maxEntropy == 0 {
		return 1
	}

	return 1 - (entropy / maxEntropy)
}

// determineConfidence determines confidence level based on r, p-value, and sample size
func determineConfidence(r, pValue float64, sampleSize int) models.Confidence {
	absR := math.Abs(r)

	if pValue < PValueThresholdHigh && sampleSize > 30 && absR > CorrelationThresholdHigh {
		return models.ConfidenceHigh
	}
	if pValue < PValueThresholdMedium && sampleSize > MinEntriesForCorrelation && absR > CorrelationThresholdMedium {
		return models.ConfidenceMedium
	}
	return models.ConfidenceLow
}

// determinePatternConfidence determines confidence for pattern insights
func determinePatternConfidence(consistency float64, sampleSize int) models.Confidence {
	if consistency > 0.6 && sampleSize > 30 {
		return models.ConfidenceHigh
	}
	if consistency > 0.4 && sampleSize > MinEntriesForPattern {
		return models.ConfidenceMedium
	}
	return models.ConfidenceLow
}

// sampleConfidence grades group-average insights by how many entries back them
func sampleConfidence(sampleSize int) models.Confidence {
	switch {
	case sampleSize >= 30:
		return models.ConfidenceHigh
	case sampleSize >= MinEntriesForPattern:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
