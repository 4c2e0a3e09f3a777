package models

import "time"

// InsightType represents the type of insight
type InsightType string

const (
	InsightTypeCorrelation InsightType = "correlation"
	InsightTypePattern     InsightType = "pattern"
	InsightTypeStreak      InsightType = "streak"
	InsightTypeTrend       InsightType = "trend"
	InsightTypeSummary     InsightType = "summary"

	// InsightTypeComputation marks when a user's insights were last computed so that an
	// empty result is still cached. It is never returned to clients.
	InsightTypeComputation InsightType = "computation"
)

// InsightCategory represents the category of insight
type InsightCategory string

const (
	InsightCategoryActivity  InsightCategory = "activity"
	InsightCategorySleep     InsightCategory = "sleep"
	InsightCategorySocial    InsightCategory = "social"
	InsightCategoryStress    InsightCategory = "stress"
	InsightCategoryMoodTrend InsightCategory = "mood_trend"
	InsightCategoryDayOfWeek InsightCategory = "day_of_week"
	InsightCategoryWeekly    InsightCategory = "weekly"
	InsightCategoryStreak    InsightCategory = "streak"
)

// Confidence represents the confidence level of an insight
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Direction represents the direction of a correlation or trend
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
	DirectionNeutral  Direction = "neutral"
)

// Insight represents a computed insight
type Insight struct {
	ID             string                 `json:"id"`
	UserID         string                 `json:"user_id"`
	InsightType    InsightType            `json:"insight_type"`
	Category       InsightCategory        `json:"category"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Recommendation string                 `json:"recommendation"`
	MetricValue    float64                `json:"metric_value"`
	PValue         *float64               `json:"p_value,omitempty"`
	SampleSize     int                    `json:"sample_size"`
	Confidence     Confidence             `json:"confidence"`
	Direction      Direction              `json:"direction"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	ComputedAt     time.Time              `json:"computed_at"`
	ValidUntil     time.Time              `json:"valid_until"`
	CreatedAt      time.Time              `json:"created_at"`
}

// ActivityImpact is the mean mood observed on entries that logged an activity
type ActivityImpact struct {
	Activity    ActivityName `json:"activity"`
	AverageMood float64      `json:"average_mood"` // wellbeing polarity, 0-4
	Occurrences int          `json:"occurrences"`
	TotalMins   int          `json:"total_minutes"`
}

// LevelImpact is the mean mood observed at one integer level of a metric
type LevelImpact struct {
	Level       int     `json:"level"`
	AverageMood float64 `json:"average_mood"` // wellbeing polarity, 0-4
	Count       int     `json:"count"`
}

// MetricImpact groups mood by the levels of one metric and names the headline level
type MetricImpact struct {
	Metric   string        `json:"metric"` // "sleep", "social", "stress"
	Levels   []LevelImpact `json:"levels"`
	Headline *LevelImpact  `json:"headline,omitempty"`
}

// Streak is a run of consecutive days with at least one mood entry
type Streak struct {
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Length    int        `json:"length"`
	IsActive  bool       `json:"is_active"`
}

// WeeklySummary compares this week's mood to last week's
type WeeklySummary struct {
	ThisWeekAverage float64 `json:"this_week_average"` // wellbeing polarity, 0-4
	LastWeekAverage float64 `json:"last_week_average"`
	ThisWeekCount   int     `json:"this_week_count"`
	LastWeekCount   int     `json:"last_week_count"`
	Change          float64 `json:"change"`
	Direction       string  `json:"direction"` // "up", "down", "same"
}

// TimePattern represents time-based pattern analysis
type TimePattern struct {
	PatternType  string    `json:"pattern_type"` // "day_of_week"
	Distribution []float64 `json:"distribution"` // average mood per bucket
	PeakValue    int       `json:"peak_value"`   // index of peak (day 0-6, Sunday first)
	PeakLabel    string    `json:"peak_label"`   // human readable label ("Tuesday")
	PeakAverage  float64   `json:"peak_average"` // average mood at peak
	Consistency  float64   `json:"consistency"`  // 0-1 score (1 = very consistent)
}

// InsightReport is the full output of the insight summarizer
type InsightReport struct {
	Insights       []Insight        `json:"insights"`
	TopActivities  []ActivityImpact `json:"top_activities"`
	SleepImpact    MetricImpact     `json:"sleep_impact"`
	SocialImpact   MetricImpact     `json:"social_impact"`
	StressImpact   MetricImpact     `json:"stress_impact"`
	DataSufficient bool             `json:"data_sufficient"`
	EntryCount     int              `json:"entry_count"`
}

// InsightsResponse is the API response containing all insights
type InsightsResponse struct {
	Correlations   []Insight      `json:"correlations"`
	Patterns       []Insight      `json:"patterns"`
	Streaks        []Insight      `json:"streaks"`
	Trends         []Insight      `json:"trends"`
	WeeklySummary  *WeeklySummary `json:"weekly_summary"`
	ComputedAt     time.Time      `json:"computed_at"`
	DataSufficient bool           `json:"data_sufficient"`
	MinDaysNeeded  int            `json:"min_days_needed,omitempty"`
	TotalEntries   int            `json:"total_entries"`
}
