package models

import "time"

// User represents a user in the system
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Activity is a named activity logged with a mood entry
type Activity struct {
	Name     ActivityName `json:"name"`
	Duration int          `json:"duration"` // minutes
}

// MoodEntry is a single timestamped self-report. Entries are never mutated once created.
type MoodEntry struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	Timestamp          time.Time  `json:"timestamp"`
	Mood               Mood       `json:"mood"`
	SleepQuality       int        `json:"sleep_quality"`       // 1-5
	EnergyLevel        int        `json:"energy_level"`        // 1-5
	StressLevel        int        `json:"stress_level"`        // 1-5
	SocialInteractions int        `json:"social_interactions"` // count, UI limits to 0-10
	Activities         []Activity `json:"activities"`
	Notes              *string    `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ActivityInput is an activity as submitted by a client
type ActivityInput struct {
	Name     ActivityName `json:"name" binding:"required,activity"`
	Duration int          `json:"duration" binding:"min=0,max=1440"`
}

// CreateMoodEntryRequest represents the request to create a mood entry
type CreateMoodEntryRequest struct {
	ID                 string          `json:"id"` // optional client-generated UUIDv7
	Timestamp          *time.Time      `json:"timestamp"`
	Mood               Mood            `json:"mood" binding:"required,mood"`
	SleepQuality       *int            `json:"sleep_quality" binding:"omitempty,min=1,max=5"`
	EnergyLevel        *int            `json:"energy_level" binding:"omitempty,min=1,max=5"`
	StressLevel        *int            `json:"stress_level" binding:"omitempty,min=1,max=5"`
	SocialInteractions *int            `json:"social_interactions" binding:"omitempty,min=0,max=10"`
	Activities         []ActivityInput `json:"activities" binding:"omitempty,dive"`
	Notes              *string         `json:"notes" binding:"omitempty,max=5000"`
}

// CreateGoalRequest represents the request to create a goal
type CreateGoalRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description *string  `json:"description"`
	Type        GoalType `json:"type" binding:"required,oneof=mood sleep activity social"`
	Target      float64  `json:"target" binding:"required,gt=0"`
}

// UpdateGoalRequest represents the request to update a goal's text fields
type UpdateGoalRequest struct {
	Title       *string       `json:"title" binding:"omitempty,min=1,max=200"`
	Description Patch[string] `json:"description"`
}

// MetricSeries holds the values of one numeric metric over a window
type MetricSeries struct {
	Values  []float64 `json:"values"`
	Average float64   `json:"average"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
}

// MoodSeries is the aggregated view of a window of mood entries
type MoodSeries struct {
	WindowDays           int          `json:"window_days"`
	Polarity             string       `json:"polarity"`
	EntryCount           int          `json:"entry_count"`
	HasData              bool         `json:"has_data"`
	MoodValues           []int        `json:"mood_values"`
	AverageMood          float64      `json:"average_mood"`
	Volatility           float64      `json:"volatility"`
	NormalizedVolatility float64      `json:"normalized_volatility"` // 0-100
	Sleep                MetricSeries `json:"sleep"`
	Stress               MetricSeries `json:"stress"`
	Energy               MetricSeries `json:"energy"`
	Social               MetricSeries `json:"social"`
	ActivityCount        MetricSeries `json:"activity_count"`
}

// WeeklyBucket aggregates the entries of one Monday-start calendar week
type WeeklyBucket struct {
	WeekStart       time.Time            `json:"week_start"`
	Count           int                  `json:"count"`
	MoodSum         float64              `json:"mood_sum"`
	SleepSum        float64              `json:"sleep_sum"`
	StressSum       float64              `json:"stress_sum"`
	EnergySum       float64              `json:"energy_sum"`
	SocialSum       float64              `json:"social_sum"`
	ActivityMinutes map[ActivityName]int `json:"activity_minutes"`
}

func (b WeeklyBucket) avg(sum float64) float64 {
	if b.Count == 0 {
		return 0
	}
	return sum / float64(b.Count)
}

// AverageMood returns the mean mood of the bucket in the polarity it was built with
func (b WeeklyBucket) AverageMood() float64 { return b.avg(b.MoodSum) }

// AverageSleep returns the mean sleep quality of the bucket
func (b WeeklyBucket) AverageSleep() float64 { return b.avg(b.SleepSum) }

// AverageStress returns the mean stress level of the bucket
func (b WeeklyBucket) AverageStress() float64 { return b.avg(b.StressSum) }

// AverageEnergy returns the mean energy level of the bucket
func (b WeeklyBucket) AverageEnergy() float64 { return b.avg(b.EnergySum) }

// AverageSocial returns the mean social interaction count of the bucket
func (b WeeklyBucket) AverageSocial() float64 { return b.avg(b.SocialSum) }

// MoodHistoryPoint is a single charted entry
type MoodHistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Mood      Mood      `json:"mood"`
	Value     int       `json:"value"` // wellbeing polarity, 0-4
}

// MoodAnalytics is the API response for mood analytics over a window
type MoodAnalytics struct {
	Series        MoodSeries     `json:"series"`
	AverageRating float64        `json:"average_rating"` // 1-5
	WeeklyBuckets []WeeklyBucket `json:"weekly_buckets"`
	Trend         string         `json:"trend"` // "improving", "declining", "stable"
	RiskScores    []float64      `json:"risk_scores"`
	DownwardTrend bool           `json:"downward_trend"`
}
