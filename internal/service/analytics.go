package service

import (
	"context"
	"fmt"
	"time"

	"github.com/JonnyWalker81/moodwell/backend/internal/analytics"
	"github.com/JonnyWalker81/moodwell/backend/internal/models"
	"github.com/JonnyWalker81/moodwell/backend/internal/repository"
)

const (
	defaultAnalyticsDays = 30
	maxAnalyticsDays     = 365
)

type analyticsService struct {
	entryRepo repository.MoodEntryRepository
	now       func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(entryRepo repository.MoodEntryRepository) AnalyticsService {
	return &analyticsService{
		entryRepo: entryRepo,
		now:       time.Now,
	}
}

func (s *analyticsService) GetMoodAnalytics(ctx context.Context, userID string, days int) (*models.MoodAnalytics, error) {
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	if days > maxAnalyticsDays {
		days = maxAnalyticsDays
	}

	now := s.now()
	entries, err := s.entryRepo.GetByUserIDAndDateRange(ctx, userID, now.AddDate(0, 0, -(days+1)), now)
	if err != nil {
		return nil, fmt.Errorf("failed to get mood entries: %w", err)
	}

	result := BuildMoodAnalytics(entries, now, days)
	return &result, nil
}

// BuildMoodAnalytics derives the analytics view of entries over the days ending at now
func BuildMoodAnalytics(entries []models.MoodEntry, now time.Time, days int) models.MoodAnalytics {
	window := analytics.FilterWindow(entries, now, days)
	series := analytics.Aggregate(window, now, days, models.PolarityWellbeing)
	rating := analytics.Aggregate(window, now, days, models.PolarityRating)
	buckets := analytics.WeeklyBuckets(window, models.PolarityWellbeing)
	scores := analytics.RiskScores(window)

	return models.MoodAnalytics{
		Series:        series,
		AverageRating: rating.AverageMood,
		WeeklyBuckets: buckets,
		Trend:         trendLabel(buckets),
		RiskScores:    scores,
		DownwardTrend: analytics.DownwardTrend(scores),
	}
}

func trendLabel(buckets []models.WeeklyBucket) string {
	direction, _, _ := analytics.MoodTrend(buckets)
	switch direction {
	case models.DirectionPositive:
		return "improving"
	case models.DirectionNegative:
		return "declining"
	default:
		return "stable"
	}
}
