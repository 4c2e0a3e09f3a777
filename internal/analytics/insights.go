package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
)

const (
	// InsightValidity is how long a computed insight stays fresh
	InsightValidity = 6 * time.Hour

	// TopActivityCount is how many mood-boosting activities are reported
	TopActivityCount = 3

	// TrendWeeks is how many of the most recent weekly buckets the trend compares
	TrendWeeks = 4

	// TrendThreshold is the change in weekly average mood (0-4 scale) that counts as a trend
	TrendThreshold = 0.5

	// StreakGraceDays is how many days may pass after the last entry before a streak ends
	StreakGraceDays = 1
)

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ActivityImpacts returns the mean wellbeing mood of the entries that logged each
// activity, best first. An activity logged twice in one entry counts once.
func ActivityImpacts(entries []models.MoodEntry) []models.ActivityImpact {
	type acc struct {
		moodSum float64
		count   int
		minutes int
	}
	byName := make(map[models.ActivityName]*acc)

	for _, e := range entries {
		mood := float64(models.PolarityWellbeing.Value(e.Mood))
		seen := make(map[models.ActivityName]bool, len(e.Activities))
		for _, a := range e.Activities {
			st, ok := byName[a.Name]
			if !ok {
				st = &acc{}
				byName[a.Name] = st
			}
			if a.Duration > 0 {
				st.minutes += a.Duration
			}
			if seen[a.Name] {
				continue
			}
			seen[a.Name] = true
			st.moodSum += mood
			st.count++
		}
	}

	impacts := make([]models.ActivityImpact, 0, len(byName))
	for name, st := range byName {
		impacts = append(impacts, models.ActivityImpact{
			Activity:    name,
			AverageMood: st.moodSum / float64(st.count),
			Occurrences: st.count,
			TotalMins:   st.minutes,
		})
	}

	sort.Slice(impacts, func(i, j int) bool {
		if impacts[i].AverageMood != impacts[j].AverageMood {
			return impacts[i].AverageMood > impacts[j].AverageMood
		}
		return impacts[i].Activity < impacts[j].Activity
	})
	return impacts
}

// TopActivities returns at most n activities with the best mean mood
func TopActivities(entries []models.MoodEntry, n int) []models.ActivityImpact {
	impacts := ActivityImpacts(entries)
	if len(impacts) > n {
		impacts = impacts[:n]
	}
	return impacts
}

// metricLevel reads the integer level a metric impact groups by
func metricLevel(metric string, e models.MoodEntry) int {
	switch metric {
	case "sleep":
		return scaleOrMidpoint(e.SleepQuality)
	case "stress":
		return scaleOrMidpoint(e.StressLevel)
	default:
		return int(socialOf(e))
	}
}

// LevelImpacts groups entries by the exact integer level of sleep, social or stress and
// reports the mean wellbeing mood per level. The headline is the level with the highest
// mean for sleep and social and the lowest mean for stress.
func LevelImpacts(entries []models.MoodEntry, metric string) models.MetricImpact {
	impact := models.MetricImpact{Metric: metric, Levels: []models.LevelImpact{}}

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, e := range entries {
		level := metricLevel(metric, e)
		sums[level] += float64(models.PolarityWellbeing.Value(e.Mood))
		counts[level]++
	}

	for level, count := range counts {
		impact.Levels = append(impact.Levels, models.LevelImpact{
			Level:       level,
			AverageMood: sums[level] / float64(count),
			Count:       count,
		})
	}
	sort.Slice(impact.Levels, func(i, j int) bool {
		return impact.Levels[i].Level < impact.Levels[j].Level
	})

	if len(impact.Levels) == 0 {
		return impact
	}

	lowestWins := metric == "stress"
	best := 0
	for i, l := range impact.Levels {
		if lowestWins && l.AverageMood < impact.Levels[best].AverageMood {
			best = i
		}
		if !lowestWins && l.AverageMood > impact.Levels[best].AverageMood {
			best = i
		}
	}
	headline := impact.Levels[best]
	impact.Headline = &headline
	return impact
}

// MoodTrend compares the first and last of the most recent TrendWeeks weekly buckets.
// ok is false with fewer than two weeks of data.
func MoodTrend(buckets []models.WeeklyBucket) (direction models.Direction, change float64, ok bool) {
	if len(buckets) > TrendWeeks {
		buckets = buckets[len(buckets)-TrendWeeks:]
	}
	if len(buckets) < 2 {
		return models.DirectionNeutral, 0, false
	}

	change = buckets[len(buckets)-1].AverageMood() - buckets[0].AverageMood()
	switch {
	case change > TrendThreshold:
		return models.DirectionPositive, change, true
	case change < -TrendThreshold:
		return models.DirectionNegative, change, true
	default:
		return models.DirectionNeutral, change, true
	}
}

// SleepMoodCorrelation computes the Pearson correlation between sleep quality and
// wellbeing mood across entries
func SleepMoodCorrelation(entries []models.MoodEntry) (r, pValue float64, err error) {
	sleep := make([]float64, len(entries))
	mood := make([]float64, len(entries))
	for i, e := range entries {
		sleep[i] = sleepOf(e)
		mood[i] = float64(models.PolarityWellbeing.Value(e.Mood))
	}
	return calculatePearsonCorrelation(sleep, mood)
}

// DayOfWeekPattern reports the mean wellbeing mood per weekday (Sunday first) and the
// best day. Consistency is 1 minus the normalized entropy of the per-day means.
func DayOfWeekPattern(entries []models.MoodEntry) models.TimePattern {
	sums := make([]float64, 7)
	counts := make([]int, 7)
	for _, e := range entries {
		day := int(e.Timestamp.Weekday())
		sums[day] += float64(models.PolarityWellbeing.Value(e.Mood))
		counts[day]++
	}

	distribution := make([]float64, 7)
	observed := make([]float64, 0, 7)
	peak := -1
	for day := range distribution {
		if counts[day] == 0 {
			continue
		}
		distribution[day] = sums[day] / float64(counts[day])
		// shifted by one so a Very Sad average still carries weight
		observed = append(observed, distribution[day]+1)
		if peak < 0 || distribution[day] > distribution[peak] {
			peak = day
		}
	}
	if peak < 0 {
		return models.TimePattern{PatternType: "day_of_week", Distribution: distribution}
	}

	return models.TimePattern{
		PatternType:  "day_of_week",
		Distribution: distribution,
		PeakValue:    peak,
		PeakLabel:    dayNames[peak],
		PeakAverage:  distribution[peak],
		Consistency:  calculateConsistency(observed),
	}
}

// dayNumber counts calendar days so DST shifts never skew differences
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// LoggingStreaks finds the current and longest runs of consecutive days with at least one
// entry. The current streak is only active if its last day is today or yesterday.
func LoggingStreaks(entries []models.MoodEntry, now time.Time) (current, longest models.Streak) {
	loc := now.Location()
	days := make(map[int]time.Time)
	for _, e := range entries {
		if e.Timestamp.After(now) {
			continue
		}
		local := e.Timestamp.In(loc)
		days[dayNumber(local)] = startOfDay(local)
	}
	if len(days) == 0 {
		return
	}

	numbers := make([]int, 0, len(days))
	for n := range days {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	runStart := 0
	longestStart, longestEnd := 0, 0
	for i := 1; i <= len(numbers); i++ {
		if i < len(numbers) && numbers[i]-numbers[i-1] == 1 {
			continue
		}
		// run is numbers[runStart:i]
		if i-runStart > longestEnd-longestStart+1 {
			longestStart, longestEnd = runStart, i-1
		}
		if i == len(numbers) {
			break
		}
		runStart = i
	}

	longestEndDate := days[numbers[longestEnd]]
	longest = models.Streak{
		StartDate: days[numbers[longestStart]],
		EndDate:   &longestEndDate,
		Length:    longestEnd - longestStart + 1,
	}

	last := numbers[len(numbers)-1]
	if dayNumber(now)-last <= StreakGraceDays {
		current = models.Streak{
			StartDate: days[numbers[runStart]],
			Length:    len(numbers) - runStart,
			IsActive:  true,
		}
	}
	return
}

// WeeklyMoodSummary compares the mean wellbeing mood of the current Monday-start week with
// the week before it
func WeeklyMoodSummary(entries []models.MoodEntry, now time.Time) models.WeeklySummary {
	thisWeekStart := WeekStart(now)
	lastWeekStart := thisWeekStart.AddDate(0, 0, -7)

	var thisSum, lastSum float64
	var summary models.WeeklySummary
	for _, e := range entries {
		if e.Timestamp.After(now) || e.Timestamp.Before(lastWeekStart) {
			continue
		}
		mood := float64(models.PolarityWellbeing.Value(e.Mood))
		if e.Timestamp.Before(thisWeekStart) {
			lastSum += mood
			summary.LastWeekCount++
		} else {
			thisSum += mood
			summary.ThisWeekCount++
		}
	}

	if summary.ThisWeekCount > 0 {
		summary.ThisWeekAverage = thisSum / float64(summary.ThisWeekCount)
	}
	if summary.LastWeekCount > 0 {
		summary.LastWeekAverage = lastSum / float64(summary.LastWeekCount)
	}

	summary.Direction = "same"
	if summary.ThisWeekCount > 0 && summary.LastWeekCount > 0 {
		summary.Change = summary.ThisWeekAverage - summary.LastWeekAverage
		if summary.Change > TrendThreshold {
			summary.Direction = "up"
		} else if summary.Change < -TrendThreshold {
			summary.Direction = "down"
		}
	}
	return summary
}

// SummarizeInsights derives structured insights from the last 90 days of entries
func SummarizeInsights(entries []models.MoodEntry, now time.Time) models.InsightReport {
	window := FilterWindow(entries, now, InsightWindowDays)
	validUntil := now.Add(InsightValidity)

	report := models.InsightReport{
		Insights:       []models.Insight{},
		TopActivities:  TopActivities(window, TopActivityCount),
		SleepImpact:    LevelImpacts(window, "sleep"),
		SocialImpact:   LevelImpacts(window, "social"),
		StressImpact:   LevelImpacts(window, "stress"),
		DataSufficient: len(window) >= MinEntriesForPattern,
		EntryCount:     len(window),
	}
	if len(window) == 0 {
		return report
	}

	add := func(insight models.Insight) {
		insight.ComputedAt = now
		insight.ValidUntil = validUntil
		report.Insights = append(report.Insights, insight)
	}

	for _, a := range report.TopActivities {
		add(activityInsight(a))
	}
	for _, impact := range []models.MetricImpact{report.SleepImpact, report.SocialImpact, report.StressImpact} {
		if insight, ok := levelInsight(impact); ok {
			add(insight)
		}
	}
	if insight, ok := sleepCorrelationInsight(window); ok {
		add(insight)
	}
	if insight, ok := trendInsight(WeeklyBuckets(window, models.PolarityWellbeing), len(window)); ok {
		add(insight)
	}
	if insight, ok := dayOfWeekInsight(window); ok {
		add(insight)
	}
	if insight, ok := streakInsight(window, now); ok {
		add(insight)
	}
	return report
}

func activityInsight(a models.ActivityImpact) models.Insight {
	return models.Insight{
		InsightType:    models.InsightTypeCorrelation,
		Category:       models.InsightCategoryActivity,
		Title:          fmt.Sprintf("Mood-boosting activity: %s", a.Activity),
		Description:    fmt.Sprintf("Your average mood is %.1f/4 on days you log %s (%d entries)", a.AverageMood, a.Activity, a.Occurrences),
		Recommendation: fmt.Sprintf("Try to fit %s into your week more often", a.Activity),
		MetricValue:    a.AverageMood,
		SampleSize:     a.Occurrences,
		Confidence:     sampleConfidence(a.Occurrences),
		Direction:      models.DirectionPositive,
		Metadata: map[string]interface{}{
			"activity":      string(a.Activity),
			"total_minutes": a.TotalMins,
		},
	}
}

var levelInsightText = map[string]struct {
	category       models.InsightCategory
	title          string
	description    string
	recommendation string
}{
	"sleep": {
		category:       models.InsightCategorySleep,
		title:          "Sleep and mood",
		description:    "Your mood is best after sleep rated %d/5 (average %.1f/4)",
		recommendation: "Protect your sleep routine on busy days",
	},
	"social": {
		category:       models.InsightCategorySocial,
		title:          "Social connection and mood",
		description:    "Your mood is best with %d social interactions (average %.1f/4)",
		recommendation: "Plan time with people who lift you up",
	},
	"stress": {
		category:       models.InsightCategoryStress,
		title:          "Stress and mood",
		description:    "Your mood is lowest at stress level %d/5 (average %.1f/4)",
		recommendation: "Notice what drives your most stressful days and plan a short break for them",
	},
}

func levelInsight(impact models.MetricImpact) (models.Insight, bool) {
	text, known := levelInsightText[impact.Metric]
	if !known || impact.Headline == nil || len(impact.Levels) < 2 {
		return models.Insight{}, false
	}

	total := 0
	for _, l := range impact.Levels {
		total += l.Count
	}

	direction := models.DirectionPositive
	if impact.Metric == "stress" {
		direction = models.DirectionNegative
	}

	return models.Insight{
		InsightType:    models.InsightTypeCorrelation,
		Category:       text.category,
		Title:          text.title,
		Description:    fmt.Sprintf(text.description, impact.Headline.Level, impact.Headline.AverageMood),
		Recommendation: text.recommendation,
		MetricValue:    impact.Headline.AverageMood,
		SampleSize:     total,
		Confidence:     sampleConfidence(impact.Headline.Count),
		Direction:      direction,
		Metadata: map[string]interface{}{
			"metric": impact.Metric,
			"level":  impact.Headline.Level,
		},
	}, true
}

func sleepCorrelationInsight(entries []models.MoodEntry) (models.Insight, bool) {
	r, pValue, err := SleepMoodCorrelation(entries)
	if err != nil {
		return models.Insight{}, false
	}
	if math.Abs(r) < CorrelationThresholdLow || pValue > PValueThresholdLow {
		return models.Insight{}, false
	}

	direction := models.DirectionPositive
	if r < 0 {
		direction = models.DirectionNegative
	}

	return models.Insight{
		InsightType:    models.InsightTypeCorrelation,
		Category:       models.InsightCategorySleep,
		Title:          "Sleep quality tracks your mood",
		Description:    buildCorrelationDescription("Sleep quality", "mood", r, direction),
		Recommendation: "Keep a consistent bedtime to support your mood",
		MetricValue:    r,
		PValue:         &pValue,
		SampleSize:     len(entries),
		Confidence:     determineConfidence(r, pValue, len(entries)),
		Direction:      direction,
	}, true
}

// buildCorrelationDescription creates a human-readable description
func buildCorrelationDescription(nameA, nameB string, r float64, direction models.Direction) string {
	strength := "somewhat"
	if math.Abs(r) > 0.7 {
		strength = "strongly"
	} else if math.Abs(r) > 0.5 {
		strength = "moderately"
	}

	switch direction {
	case models.DirectionPositive:
		return fmt.Sprintf("%s and %s are %s positively correlated (r=%.2f)", nameA, nameB, strength, r)
	case models.DirectionNegative:
		return fmt.Sprintf("%s and %s are %s negatively correlated (r=%.2f)", nameA, nameB, strength, r)
	}
	return fmt.Sprintf("%s and %s show no significant correlation", nameA, nameB)
}

func trendInsight(buckets []models.WeeklyBucket, sampleSize int) (models.Insight, bool) {
	direction, change, ok := MoodTrend(buckets)
	if !ok || direction == models.DirectionNeutral {
		return models.Insight{}, false
	}

	insight := models.Insight{
		InsightType: models.InsightTypeTrend,
		Category:    models.InsightCategoryMoodTrend,
		MetricValue: change,
		SampleSize:  sampleSize,
		Confidence:  sampleConfidence(sampleSize),
		Direction:   direction,
		Metadata: map[string]interface{}{
			"weeks": len(buckets),
		},
	}
	if direction == models.DirectionPositive {
		insight.Title = "Your mood is improving"
		insight.Description = fmt.Sprintf("Your weekly average mood rose by %.1f over recent weeks", change)
		insight.Recommendation = "Keep up the habits that have been helping"
	} else {
		insight.Title = "Your mood has been declining"
		insight.Description = fmt.Sprintf("Your weekly average mood fell by %.1f over recent weeks", -change)
		insight.Recommendation = "Consider reaching out to someone you trust or a professional"
	}
	return insight, true
}

func dayOfWeekInsight(entries []models.MoodEntry) (models.Insight, bool) {
	if len(entries) < MinEntriesForPattern {
		return models.Insight{}, false
	}
	pattern := DayOfWeekPattern(entries)
	if pattern.PeakLabel == "" {
		return models.Insight{}, false
	}

	return models.Insight{
		InsightType:    models.InsightTypePattern,
		Category:       models.InsightCategoryDayOfWeek,
		Title:          "Your best day of the week",
		Description:    fmt.Sprintf("Your mood tends to be best on %s (average %.1f/4)", pattern.PeakLabel, pattern.PeakAverage),
		Recommendation: fmt.Sprintf("Notice what makes %s good and bring some of it into other days", pattern.PeakLabel),
		MetricValue:    pattern.Consistency,
		SampleSize:     len(entries),
		Confidence:     determinePatternConfidence(pattern.Consistency, len(entries)),
		Direction:      models.DirectionNeutral,
		Metadata: map[string]interface{}{
			"pattern_type": pattern.PatternType,
			"distribution": pattern.Distribution,
			"peak_day":     pattern.PeakValue,
			"peak_label":   pattern.PeakLabel,
			"consistency":  pattern.Consistency,
		},
	}, true
}

func streakInsight(entries []models.MoodEntry, now time.Time) (models.Insight, bool) {
	current, longest := LoggingStreaks(entries, now)
	if !current.IsActive || current.Length < 2 {
		return models.Insight{}, false
	}

	isBest := current.Length >= longest.Length
	description := fmt.Sprintf("You've logged your mood %d days in a row", current.Length)
	if isBest {
		description += ", your best streak!"
	}

	return models.Insight{
		InsightType: models.InsightTypeStreak,
		Category:    models.InsightCategoryStreak,
		Title:       "Logging streak",
		Description: description,
		MetricValue: float64(current.Length),
		SampleSize:  current.Length,
		Confidence:  models.ConfidenceHigh,
		Direction:   models.DirectionPositive,
		Metadata: map[string]interface{}{
			"is_longest":    isBest,
			"previous_best": longest.Length,
			"start_date":    current.StartDate,
			"is_active":     current.IsActive,
		},
	}, true
}
