package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
)

func TestWeekStart_SundayBelongsToPreviousWeek(t *testing.T) {
	sunday := time.Date(2024, time.March, 17, 21, 0, 0, 0, time.UTC)
	monday := time.Date(2024, time.March, 18, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), WeekStart(sunday))
	assert.Equal(t, time.Date(2024, time.March, 18, 0, 0, 0, 0, time.UTC), WeekStart(monday))
}

func TestWeeklyBuckets(t *testing.T) {
	sunday := time.Date(2024, time.March, 17, 21, 0, 0, 0, time.UTC)
	monday := time.Date(2024, time.March, 18, 8, 0, 0, 0, time.UTC)
	tuesday := time.Date(2024, time.March, 12, 8, 0, 0, 0, time.UTC)

	e1 := moodEntry(sunday, models.MoodVeryHappy)
	e1.Activities = []models.Activity{{Name: models.ActivityExercise, Duration: 30}}
	e2 := moodEntry(tuesday, models.MoodNeutral)
	e2.Activities = []models.Activity{
		{Name: models.ActivityExercise, Duration: 15},
		{Name: models.ActivityReading},
	}
	e3 := moodEntry(monday, models.MoodSad)

	buckets := WeeklyBuckets([]models.MoodEntry{e3, e1, e2}, models.PolarityWellbeing)
	require.Len(t, buckets, 2)

	first := buckets[0]
	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), first.WeekStart)
	assert.Equal(t, 2, first.Count)
	assert.InDelta(t, 3.0, first.AverageMood(), 1e-9)
	assert.Equal(t, 45, first.ActivityMinutes[models.ActivityExercise])
	assert.Contains(t, first.ActivityMinutes, models.ActivityReading)

	second := buckets[1]
	assert.Equal(t, 1, second.Count)
	assert.InDelta(t, 1.0, second.AverageMood(), 1e-9)
	assert.Empty(t, second.ActivityMinutes)
}

func TestWeeklyBuckets_Empty(t *testing.T) {
	assert.Empty(t, WeeklyBuckets(nil, models.PolarityWellbeing))
}
