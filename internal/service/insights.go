package service

import (
	"context"
	"fmt"
	"time"

	"github.com/JonnyWalker81/moodwell/backend/internal/analytics"
	"github.com/JonnyWalker81/moodwell/backend/internal/logger"
	"github.com/JonnyWalker81/moodwell/backend/internal/models"
	"github.com/JonnyWalker81/moodwell/backend/internal/repository"
)

type insightService struct {
	entryRepo   repository.MoodEntryRepository
	insightRepo repository.InsightRepository
	validity    time.Duration
	now         func() time.Time
}

// NewInsightService creates a new insight service. Computed insights stay cached for
// validity; zero means analytics.InsightValidity.
func NewInsightService(entryRepo repository.MoodEntryRepository, insightRepo repository.InsightRepository, validity time.Duration) InsightService {
	if validity <= 0 {
		validity = analytics.InsightValidity
	}
	return &insightService{
		entryRepo:   entryRepo,
		insightRepo: insightRepo,
		validity:    validity,
		now:         time.Now,
	}
}

func (s *insightService) windowEntries(ctx context.Context, userID string, now time.Time) ([]models.MoodEntry, error) {
	start := now.AddDate(0, 0, -(analytics.InsightWindowDays + 1))
	entries, err := s.entryRepo.GetByUserIDAndDateRange(ctx, userID, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get mood entries: %w", err)
	}
	return analytics.FilterWindow(entries, now, analytics.InsightWindowDays), nil
}

// GetInsights returns cached insights for a user, computing them if none are valid
func (s *insightService) GetInsights(ctx context.Context, userID string) (*models.InsightsResponse, error) {
	now := s.now()

	cached, err := s.insightRepo.GetValidByUserID(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get cached insights: %w", err)
	}
	if len(cached) == 0 {
		return s.ComputeInsights(ctx, userID)
	}

	entries, err := s.windowEntries(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Debug("serving cached insights", logger.Int("insights", len(cached)))
	return buildInsightsResponse(cached, entries, now), nil
}

// ComputeInsights replaces the user's cached insights with freshly derived ones
func (s *insightService) ComputeInsights(ctx context.Context, userID string) (*models.InsightsResponse, error) {
	now := s.now()

	entries, err := s.windowEntries(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	if err := s.insightRepo.DeleteByUserID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to delete existing insights: %w", err)
	}

	report := analytics.SummarizeInsights(entries, now)
	validUntil := now.Add(s.validity)
	for i := range report.Insights {
		id, err := NewID()
		if err != nil {
			return nil, err
		}
		report.Insights[i].ID = id
		report.Insights[i].UserID = userID
		report.Insights[i].ValidUntil = validUntil
	}

	marker, err := computationMarker(userID, report, now, validUntil)
	if err != nil {
		return nil, err
	}
	stored := append(append(make([]models.Insight, 0, len(report.Insights)+1), report.Insights...), marker)

	if err := s.insightRepo.BulkCreate(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to store insights: %w", err)
	}

	logger.Ctx(ctx).Info("insights computed",
		logger.Int("insights", len(report.Insights)),
		logger.Int("entries", report.EntryCount),
		logger.Bool("data_sufficient", report.DataSufficient),
	)

	return buildInsightsResponse(stored, entries, now), nil
}

// computationMarker records a computation even when it produced no insights, so users with
// too few entries are served from the cache instead of recomputing on every request
func computationMarker(userID string, report models.InsightReport, now, validUntil time.Time) (models.Insight, error) {
	id, err := NewID()
	if err != nil {
		return models.Insight{}, err
	}
	return models.Insight{
		ID:          id,
		UserID:      userID,
		InsightType: models.InsightTypeComputation,
		Title:       "Insights computed",
		SampleSize:  report.EntryCount,
		Metadata: map[string]interface{}{
			"insights":        len(report.Insights),
			"data_sufficient": report.DataSufficient,
		},
		ComputedAt: now,
		ValidUntil: validUntil,
	}, nil
}

// InvalidateInsights marks all insights as stale (called when entries change)
func (s *insightService) InvalidateInsights(ctx context.Context, userID string) error {
	return s.insightRepo.InvalidateAll(ctx, userID, s.now())
}

// GetWeeklySummary returns the week-over-week mood comparison
func (s *insightService) GetWeeklySummary(ctx context.Context, userID string) (*models.WeeklySummary, error) {
	now := s.now()
	lastWeekStart := analytics.WeekStart(now).AddDate(0, 0, -7)

	entries, err := s.entryRepo.GetByUserIDAndDateRange(ctx, userID, lastWeekStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get mood entries: %w", err)
	}

	summary := analytics.WeeklyMoodSummary(entries, now)
	return &summary, nil
}

func buildInsightsResponse(insights []models.Insight, entries []models.MoodEntry, now time.Time) *models.InsightsResponse {
	correlations := make([]models.Insight, 0)
	patterns := make([]models.Insight, 0)
	streaks := make([]models.Insight, 0)
	trends := make([]models.Insight, 0)

	var computedAt time.Time
	for _, insight := range insights {
		if computedAt.IsZero() || insight.ComputedAt.After(computedAt) {
			computedAt = insight.ComputedAt
		}

		switch insight.InsightType {
		case models.InsightTypeCorrelation:
			correlations = append(correlations, insight)
		case models.InsightTypePattern:
			patterns = append(patterns, insight)
		case models.InsightTypeStreak:
			streaks = append(streaks, insight)
		case models.InsightTypeTrend, models.InsightTypeSummary:
			trends = append(trends, insight)
		}
	}
	if computedAt.IsZero() {
		computedAt = now
	}

	summary := analytics.WeeklyMoodSummary(entries, now)
	sufficient := len(entries) >= analytics.MinEntriesForPattern

	resp := &models.InsightsResponse{
		Correlations:   correlations,
		Patterns:       patterns,
		Streaks:        streaks,
		Trends:         trends,
		WeeklySummary:  &summary,
		ComputedAt:     computedAt,
		DataSufficient: sufficient,
		TotalEntries:   len(entries),
	}
	if !sufficient {
		resp.MinDaysNeeded = analytics.MinEntriesForPattern - len(entries)
	}
	return resp
}
