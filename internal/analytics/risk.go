package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
)

// Composite weights. They sum to 1.0 only when every dimension, language included, is
// present. Missing dimensions contribute 0 and the rest are not renormalized; callers
// that want a renormalized score can divide by RiskAssessment.WeightCoverage.
const (
	WeightMood     = 0.35
	WeightLanguage = 0.25
	WeightSleep    = 0.15
	WeightSocial   = 0.15
	WeightStress   = 0.10
)

const (
	moodAverageWeight    = 0.6
	moodVolatilityWeight = 0.2
	downwardTrendPenalty = 20.0

	noDataDescription = "No data available"
)

// Weights maps every risk dimension to its composite weight
var Weights = map[models.RiskDimension]float64{
	models.RiskDimensionMood:     WeightMood,
	models.RiskDimensionLanguage: WeightLanguage,
	models.RiskDimensionSleep:    WeightSleep,
	models.RiskDimensionSocial:   WeightSocial,
	models.RiskDimensionStress:   WeightStress,
}

// riskThresholds are checked from the highest down; a score equal to a threshold
// belongs to that threshold's level
var riskThresholds = []struct {
	min   float64
	level models.RiskLevel
}{
	{90, models.RiskLevelCritical},
	{75, models.RiskLevelCritical},
	{50, models.RiskLevelHigh},
	{25, models.RiskLevelMedium},
}

var recommendationsByLevel = map[models.RiskLevel][]string{
	models.RiskLevelLow: {
		"Keep logging your mood to stay aware of your patterns",
	},
	models.RiskLevelMedium: {
		"Make time for an activity that lifts your mood, such as a walk outdoors or meditation",
		"Reach out to a friend or family member this week",
	},
	models.RiskLevelHigh: {
		"Consider talking to a mental health professional",
		"Prioritize regular sleep and cut back on stressors where you can",
		"Let someone you trust know how you have been feeling",
	},
	models.RiskLevelCritical: {
		"Please contact a mental health professional as soon as possible",
		"If you are in crisis, call your local emergency number or a crisis line right away",
		"Let someone you trust know how you have been feeling",
	},
}

// RiskLevelFor classifies a composite score
func RiskLevelFor(score float64) models.RiskLevel {
	for _, t := range riskThresholds {
		if score >= t.min {
			return t.level
		}
	}
	return models.RiskLevelLow
}

func noDataFactor(dim models.RiskDimension, windowDays int) models.RiskFactor {
	return models.RiskFactor{
		Dimension:   dim,
		Weight:      Weights[dim],
		WindowDays:  windowDays,
		Description: noDataDescription,
		Concerns:    []string{},
	}
}

func finishFactor(f models.RiskFactor) models.RiskFactor {
	f.Score = clamp(f.Score, 0, 100)
	f.Weight = Weights[f.Dimension]
	f.Contribution = f.Score * f.Weight
	f.Available = true
	if f.Concerns == nil {
		f.Concerns = []string{}
	}
	return f
}

// MoodFactor scores the last 14 days of moods: 0.6 x average risk + 0.2 x volatility,
// plus 20 when the recent scores trend downward.
func MoodFactor(entries []models.MoodEntry, now time.Time) models.RiskFactor {
	window := FilterWindow(entries, now, MoodRiskWindowDays)
	if len(window) == 0 {
		return noDataFactor(models.RiskDimensionMood, MoodRiskWindowDays)
	}

	scores := RiskScores(window)
	average := mean(scores)
	volatility := Volatility(scores)
	declining := DownwardTrend(scores)

	score := moodAverageWeight*average + moodVolatilityWeight*volatility
	if declining {
		score += downwardTrendPenalty
	}

	var concerns []string
	if average > 75 {
		concerns = append(concerns, "Consistently low mood")
	}
	if volatility > 50 {
		concerns = append(concerns, "High mood volatility")
	}
	if declining {
		concerns = append(concerns, "Declining mood trend")
	}

	return finishFactor(models.RiskFactor{
		Dimension:  models.RiskDimensionMood,
		Score:      score,
		DataPoints: len(window),
		WindowDays: MoodRiskWindowDays,
		Description: fmt.Sprintf("Average mood risk %.0f/100 with volatility %.0f over %d entries",
			average, volatility, len(window)),
		Concerns: concerns,
	})
}

// SleepFactor scores the last 7 days of sleep quality: 100 - 20 x average
func SleepFactor(entries []models.MoodEntry, now time.Time) models.RiskFactor {
	window := FilterWindow(entries, now, MetricRiskWindowDays)
	if len(window) == 0 {
		return noDataFactor(models.RiskDimensionSleep, MetricRiskWindowDays)
	}

	average := metricSeries(window, sleepOf).Average

	var concerns []string
	if average < 3 {
		concerns = append(concerns, "Poor sleep quality")
	}
	if average < 2 {
		concerns = append(concerns, "Severe sleep issues")
	}

	return finishFactor(models.RiskFactor{
		Dimension:   models.RiskDimensionSleep,
		Score:       math.Max(0, 100-average*20),
		DataPoints:  len(window),
		WindowDays:  MetricRiskWindowDays,
		Description: fmt.Sprintf("Average sleep quality %.1f/5", average),
		Concerns:    concerns,
	})
}

// SocialFactor scores the last 7 days of social interactions: 100 - 10 x average
func SocialFactor(entries []models.MoodEntry, now time.Time) models.RiskFactor {
	window := FilterWindow(entries, now, MetricRiskWindowDays)
	if len(window) == 0 {
		return noDataFactor(models.RiskDimensionSocial, MetricRiskWindowDays)
	}

	average := metricSeries(window, socialOf).Average

	var concerns []string
	if average < 2 {
		concerns = append(concerns, "Limited social interaction")
	}
	if average < 1 {
		concerns = append(concerns, "Social isolation")
	}

	return finishFactor(models.RiskFactor{
		Dimension:   models.RiskDimensionSocial,
		Score:       math.Max(0, 100-average*10),
		DataPoints:  len(window),
		WindowDays:  MetricRiskWindowDays,
		Description: fmt.Sprintf("Average of %.1f social interactions per entry", average),
		Concerns:    concerns,
	})
}

// StressFactor scores the last 7 days of stress levels: 20 x average
func StressFactor(entries []models.MoodEntry, now time.Time) models.RiskFactor {
	window := FilterWindow(entries, now, MetricRiskWindowDays)
	if len(window) == 0 {
		return noDataFactor(models.RiskDimensionStress, MetricRiskWindowDays)
	}

	average := metricSeries(window, stressOf).Average

	var concerns []string
	if average > 3 {
		concerns = append(concerns, "Elevated stress levels")
	}
	if average > 4 {
		concerns = append(concerns, "Severe stress")
	}

	return finishFactor(models.RiskFactor{
		Dimension:   models.RiskDimensionStress,
		Score:       average * 20,
		DataPoints:  len(window),
		WindowDays:  MetricRiskWindowDays,
		Description: fmt.Sprintf("Average stress level %.1f/5", average),
		Concerns:    concerns,
	})
}

// LanguageFactor wraps the external notes analysis. A nil or non-finite signal means the
// collaborator was unavailable and the dimension contributes nothing.
func LanguageFactor(signal *models.LanguageSignal) models.RiskFactor {
	if signal == nil || math.IsNaN(signal.Score) || math.IsInf(signal.Score, 0) {
		return noDataFactor(models.RiskDimensionLanguage, 0)
	}

	concerns := make([]string, 0, len(signal.Concerns))
	concerns = append(concerns, signal.Concerns...)

	return finishFactor(models.RiskFactor{
		Dimension:   models.RiskDimensionLanguage,
		Score:       signal.Score,
		DataPoints:  1,
		Description: "Analysis of recent mood notes",
		Concerns:    concerns,
	})
}

// CompositeScore is the weighted sum of the factor scores
func CompositeScore(factors []models.RiskFactor) float64 {
	var score float64
	for _, f := range factors {
		score += Weights[f.Dimension] * f.Score
	}
	return clamp(score, 0, 100)
}

// AssessRisk builds a risk assessment from the entries recorded up to now. The language
// signal is optional.
func AssessRisk(entries []models.MoodEntry, language *models.LanguageSignal, now time.Time) models.RiskAssessment {
	factors := []models.RiskFactor{
		MoodFactor(entries, now),
		LanguageFactor(language),
		SleepFactor(entries, now),
		SocialFactor(entries, now),
		StressFactor(entries, now),
	}

	var coverage float64
	hasData := false
	for _, f := range factors {
		if f.Available {
			coverage += f.Weight
			hasData = true
		}
	}

	score := CompositeScore(factors)
	level := RiskLevelFor(score)

	assessment := models.RiskAssessment{
		Score:             score,
		RiskLevel:         level,
		Factors:           factors,
		WeightCoverage:    coverage,
		HasData:           hasData,
		LanguageAvailable: factors[1].Available,
		RequiresAttention: level == models.RiskLevelHigh || level == models.RiskLevelCritical,
		Recommendations:   append([]string(nil), recommendationsByLevel[level]...),
		AssessedAt:        now,
	}
	if language != nil {
		assessment.Explanation = language.Explanation
	}
	return assessment
}
