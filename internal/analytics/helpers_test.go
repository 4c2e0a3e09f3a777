package analytics

import (
	"time"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
)

// refTime is a Friday
var refTime = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return refTime.AddDate(0, 0, -n)
}

func moodEntry(ts time.Time, mood models.Mood) models.MoodEntry {
	return models.MoodEntry{
		Timestamp:          ts,
		Mood:               mood,
		SleepQuality:       3,
		EnergyLevel:        3,
		StressLevel:        3,
		SocialInteractions: 3,
	}
}

// scenarioEntries is one entry per day for the last week, oldest first, with sleep rated 2
func scenarioEntries() []models.MoodEntry {
	moods := []models.Mood{
		models.MoodVerySad, models.MoodSad, models.MoodSad, models.MoodNeutral,
		models.MoodHappy, models.MoodHappy, models.MoodVeryHappy,
	}
	entries := make([]models.MoodEntry, len(moods))
	for i, m := range moods {
		e := moodEntry(daysAgo(len(moods)-1-i), m)
		e.SleepQuality = 2
		entries[i] = e
	}
	return entries
}

// uniformEntries logs the same entry once a day for n days ending at refTime
func uniformEntries(n int, build func(ts time.Time) models.MoodEntry) []models.MoodEntry {
	entries := make([]models.MoodEntry, n)
	for i := 0; i < n; i++ {
		entries[i] = build(daysAgo(n - 1 - i))
	}
	return entries
}
