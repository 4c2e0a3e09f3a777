package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoodPolarity_Value(t *testing.T) {
	tests := []struct {
		mood      Mood
		risk      int
		wellbeing int
		rating    int
	}{
		{MoodVerySad, 4, 0, 1},
		{MoodSad, 3, 1, 2},
		{MoodNeutral, 2, 2, 3},
		{MoodHappy, 1, 3, 4},
		{MoodVeryHappy, 0, 4, 5},
	}

	for _, tt := range tests {
		t.Run(string(tt.mood), func(t *testing.T) {
			assert.Equal(t, tt.risk, PolarityRisk.Value(tt.mood))
			assert.Equal(t, tt.wellbeing, PolarityWellbeing.Value(tt.mood))
			assert.Equal(t, tt.rating, PolarityRating.Value(tt.mood))
		})
	}
}

func TestMoodPolarity_UnknownMoodIsNeutral(t *testing.T) {
	assert.Equal(t, 2, PolarityRisk.Value(Mood("Ecstatic")))
	assert.Equal(t, 3, PolarityRating.Value(Mood("")))
	assert.False(t, Mood("Ecstatic").IsValid())
	assert.Equal(t, MoodNeutral, Mood("Ecstatic").Normalize())
}

func TestMoodPolarity_Bounds(t *testing.T) {
	lo, hi := PolarityRating.Bounds()
	assert.Equal(t, 1, lo)
	assert.Equal(t, 5, hi)

	lo, hi = PolarityRisk.Bounds()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 4, hi)

	for _, p := range []MoodPolarity{PolarityRisk, PolarityWellbeing, PolarityRating} {
		assert.Equal(t, 4, p.MaxStep(), p.String())
	}
}

func TestActivityName_IsValid(t *testing.T) {
	assert.True(t, ActivityExercise.IsValid())
	assert.True(t, ActivityOther.IsValid())
	assert.False(t, ActivityName("skydiving").IsValid())
}

func TestWeeklyBucket_Averages(t *testing.T) {
	b := WeeklyBucket{Count: 4, MoodSum: 10, SleepSum: 12, StressSum: 8, EnergySum: 14, SocialSum: 6}
	assert.InDelta(t, 2.5, b.AverageMood(), 1e-9)
	assert.InDelta(t, 3.0, b.AverageSleep(), 1e-9)
	assert.InDelta(t, 2.0, b.AverageStress(), 1e-9)
	assert.InDelta(t, 3.5, b.AverageEnergy(), 1e-9)
	assert.InDelta(t, 1.5, b.AverageSocial(), 1e-9)

	assert.Zero(t, WeeklyBucket{}.AverageMood())
}
