// Package analytics is the mood scoring engine: series aggregation, risk scoring, goal
// progress and insight summaries over a user's mood entries.
//
// Everything here is pure. Functions take entries by value, never modify them, do no
// I/O and are safe to call concurrently. Missing or short input never produces an error;
// results carry an explicit "no data" marker instead.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
)

const (
	// MoodRiskWindowDays is the lookback for the mood risk dimension
	MoodRiskWindowDays = 14

	// MetricRiskWindowDays is the lookback for the sleep, social and stress dimensions
	MetricRiskWindowDays = 7

	// InsightWindowDays is the lookback for insight summaries
	InsightWindowDays = 90

	// RiskStep converts a PolarityRisk value (0-4) to the 0-100 per-entry risk scale
	RiskStep = 25.0

	// NeutralMetric replaces a missing or out-of-range 1-5 metric
	NeutralMetric = 3

	// DownwardTrendMinValues is the number of scores needed to detect a downward trend
	DownwardTrendMinValues = 7

	// DownwardTrendMargin is how much the recent mean must exceed the earlier mean (0-100 scale)
	DownwardTrendMargin = 15.0
)

// startOfDay returns midnight of t's calendar date in t's location
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SortByTimestamp orders entries oldest first. Entries sharing a timestamp keep their
// relative order.
func SortByTimestamp(entries []models.MoodEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}

// FilterWindow returns a sorted copy of the entries recorded in the last `days` calendar
// days up to and including ref. The boundary date is included in full. A non-positive
// days keeps every entry up to ref.
func FilterWindow(entries []models.MoodEntry, ref time.Time, days int) []models.MoodEntry {
	var start time.Time
	if days > 0 {
		start = startOfDay(ref).AddDate(0, 0, -days)
	}

	window := make([]models.MoodEntry, 0, len(entries))
	for _, e := range entries {
		if e.Timestamp.After(ref) {
			continue
		}
		if days > 0 && e.Timestamp.Before(start) {
			continue
		}
		window = append(window, e)
	}

	SortByTimestamp(window)
	return window
}

// scaleOrMidpoint returns v when it is on the 1-5 scale, otherwise NeutralMetric
func scaleOrMidpoint(v int) int {
	if v < 1 || v > 5 {
		return NeutralMetric
	}
	return v
}

func sleepOf(e models.MoodEntry) float64  { return float64(scaleOrMidpoint(e.SleepQuality)) }
func stressOf(e models.MoodEntry) float64 { return float64(scaleOrMidpoint(e.StressLevel)) }
func energyOf(e models.MoodEntry) float64 { return float64(scaleOrMidpoint(e.EnergyLevel)) }

func socialOf(e models.MoodEntry) float64 {
	if e.SocialInteractions < 0 {
		return 0
	}
	return float64(e.SocialInteractions)
}

func activityCountOf(e models.MoodEntry) float64 { return float64(len(e.Activities)) }

// MoodValues converts each entry's mood using the given polarity
func MoodValues(entries []models.MoodEntry, polarity models.MoodPolarity) []int {
	values := make([]int, len(entries))
	for i, e := range entries {
		values[i] = polarity.Value(e.Mood)
	}
	return values
}

// RiskScores converts each entry's mood to the 0-100 per-entry risk scale (higher = worse)
func RiskScores(entries []models.MoodEntry) []float64 {
	scores := make([]float64, len(entries))
	for i, e := range entries {
		scores[i] = float64(models.PolarityRisk.Value(e.Mood)) * RiskStep
	}
	return scores
}

// Volatility is the mean absolute difference between consecutive values.
// Fewer than two values have no volatility.
func Volatility(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(values); i++ {
		total += math.Abs(values[i] - values[i-1])
	}
	return total / float64(len(values)-1)
}

// NormalizedVolatility rescales a volatility measured in polarity units to 0-100, where
// 100 means every step was the largest one possible
func NormalizedVolatility(volatility float64, polarity models.MoodPolarity) float64 {
	return clamp(volatility/float64(polarity.MaxStep())*100, 0, 100)
}

// DownwardTrend reports whether the mean of the last 3 risk scores exceeds the mean of
// the 4 before them by more than DownwardTrendMargin. It needs at least 7 scores.
func DownwardTrend(scores []float64) bool {
	n := len(scores)
	if n < DownwardTrendMinValues {
		return false
	}
	recent := mean(scores[n-3:])
	earlier := mean(scores[n-7 : n-3])
	return recent-earlier > DownwardTrendMargin
}

func metricSeries(entries []models.MoodEntry, valueOf func(models.MoodEntry) float64) models.MetricSeries {
	values := make([]float64, len(entries))
	for i, e := range entries {
		values[i] = valueOf(e)
	}
	if len(values) == 0 {
		return models.MetricSeries{Values: values}
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return models.MetricSeries{
		Values:  values,
		Average: mean(values),
		Min:     lo,
		Max:     hi,
	}
}

// Aggregate derives the numeric series of the entries in the last `days` days before ref.
// Mood values use the given polarity. An empty window yields zeroes with HasData=false.
func Aggregate(entries []models.MoodEntry, ref time.Time, days int, polarity models.MoodPolarity) models.MoodSeries {
	window := FilterWindow(entries, ref, days)
	return aggregateWindow(window, days, polarity)
}

func aggregateWindow(window []models.MoodEntry, days int, polarity models.MoodPolarity) models.MoodSeries {
	series := models.MoodSeries{
		WindowDays:    days,
		Polarity:      polarity.String(),
		EntryCount:    len(window),
		HasData:       len(window) > 0,
		MoodValues:    MoodValues(window, polarity),
		Sleep:         metricSeries(window, sleepOf),
		Stress:        metricSeries(window, stressOf),
		Energy:        metricSeries(window, energyOf),
		Social:        metricSeries(window, socialOf),
		ActivityCount: metricSeries(window, activityCountOf),
	}
	if !series.HasData {
		return series
	}

	values := intsToFloats(series.MoodValues)
	series.AverageMood = mean(values)
	series.Volatility = Volatility(values)
	series.NormalizedVolatility = NormalizedVolatility(series.Volatility, polarity)
	return series
}

func intsToFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
