package analytics

import (
	"math"
	"time"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
)

// GoalWindowEntries is how many of the most recent entries a goal is measured against
const GoalWindowEntries = 7

// RecentEntries returns up to n of the most recent entries, oldest first
func RecentEntries(entries []models.MoodEntry, n int) []models.MoodEntry {
	sorted := make([]models.MoodEntry, len(entries))
	copy(sorted, entries)
	SortByTimestamp(sorted)

	if n >= 0 && len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

// GoalAverage computes the value a goal type compares against its target.
// Mood goals use the 1-5 rating polarity. ok is false when there are no entries.
func GoalAverage(goalType models.GoalType, recent []models.MoodEntry) (value float64, ok bool) {
	if len(recent) == 0 {
		return 0, false
	}

	switch goalType {
	case models.GoalTypeMood:
		return mean(intsToFloats(MoodValues(recent, models.PolarityRating))), true
	case models.GoalTypeSleep:
		return metricSeries(recent, sleepOf).Average, true
	case models.GoalTypeSocial:
		return metricSeries(recent, socialOf).Average, true
	case models.GoalTypeActivity:
		return metricSeries(recent, activityCountOf).Average, true
	default:
		return 0, false
	}
}

// EvaluateGoal recomputes a goal's progress against its most recent entries and returns
// the updated copy. Only active goals are evaluated. Reaching 100% completes the goal
// once; later drops never reactivate it.
func EvaluateGoal(goal models.Goal, entries []models.MoodEntry, now time.Time) models.GoalEvaluation {
	eval := models.GoalEvaluation{Goal: goal}

	if goal.Status != models.GoalStatusActive {
		eval.Skipped = true
		return eval
	}

	recent := RecentEntries(entries, GoalWindowEntries)
	eval.SampleSize = len(recent)

	average, ok := GoalAverage(goal.Type, recent)
	if !ok || goal.Target <= 0 || math.IsNaN(goal.Target) {
		eval.InsufficientData = true
		return eval
	}

	eval.CurrentAverage = average
	eval.Goal.Progress = clamp(average/goal.Target*100, 0, 100)
	eval.Goal.UpdatedAt = now

	if eval.Goal.Progress >= 100 && goal.CompletedAt == nil {
		completedAt := now
		eval.Goal.Status = models.GoalStatusCompleted
		eval.Goal.CompletedAt = &completedAt
		eval.Completed = true
	}

	return eval
}
