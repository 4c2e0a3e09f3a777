package analytics

import (
	"sort"
	"time"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
)

// WeekStart returns midnight of the Monday that starts t's week. Sunday belongs to the
// week that began six days earlier.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return startOfDay(t).AddDate(0, 0, -offset)
}

// WeeklyBuckets groups entries into Monday-start calendar weeks, oldest week first.
// Mood sums use the given polarity; activity durations are summed per activity name.
func WeeklyBuckets(entries []models.MoodEntry, polarity models.MoodPolarity) []models.WeeklyBucket {
	sorted := make([]models.MoodEntry, len(entries))
	copy(sorted, entries)
	SortByTimestamp(sorted)

	bucketMap := make(map[string]*models.WeeklyBucket) // key: week start date
	keys := make([]string, 0)

	for _, e := range sorted {
		start := WeekStart(e.Timestamp)
		key := start.Format("2006-01-02")

		bucket, exists := bucketMap[key]
		if !exists {
			bucket = &models.WeeklyBucket{
				WeekStart:       start,
				ActivityMinutes: make(map[models.ActivityName]int),
			}
			bucketMap[key] = bucket
			keys = append(keys, key)
		}

		bucket.Count++
		bucket.MoodSum += float64(polarity.Value(e.Mood))
		bucket.SleepSum += sleepOf(e)
		bucket.StressSum += stressOf(e)
		bucket.EnergySum += energyOf(e)
		bucket.SocialSum += socialOf(e)
		for _, a := range e.Activities {
			if a.Duration > 0 {
				bucket.ActivityMinutes[a.Name] += a.Duration
			} else if _, ok := bucket.ActivityMinutes[a.Name]; !ok {
				bucket.ActivityMinutes[a.Name] = 0
			}
		}
	}

	sort.Strings(keys)
	buckets := make([]models.WeeklyBucket, 0, len(keys))
	for _, key := range keys {
		buckets = append(buckets, *bucketMap[key])
	}
	return buckets
}
