package service

import (
	"context"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
)

// MoodEntryService defines the interface for mood entry business logic
type MoodEntryService interface {
	CreateEntry(ctx context.Context, userID string, req *models.CreateMoodEntryRequest) (*models.MoodEntry, error)
	GetEntry(ctx context.Context, userID, entryID string) (*models.MoodEntry, error)
	ListEntries(ctx context.Context, userID string, limit, offset int) ([]models.MoodEntry, error)
	GetHistory(ctx context.Context, userID string, days int) ([]models.MoodHistoryPoint, error)
}

// GoalService defines the interface for goal business logic
type GoalService interface {
	CreateGoal(ctx context.Context, userID string, req *models.CreateGoalRequest) (*models.Goal, error)
	GetGoal(ctx context.Context, userID, goalID string) (*models.Goal, error)
	ListGoals(ctx context.Context, userID string, status *models.GoalStatus) ([]models.Goal, error)
	UpdateGoal(ctx context.Context, userID, goalID string, req *models.UpdateGoalRequest) (*models.Goal, error)
	AbandonGoal(ctx context.Context, userID, goalID string) (*models.Goal, error)
	RecomputeProgress(ctx context.Context, userID string) ([]models.GoalEvaluation, error)
}

// RiskService defines the interface for risk assessment
type RiskService interface {
	AssessUser(ctx context.Context, userID string) (*models.RiskAssessment, error)
	AssessUsers(ctx context.Context, userIDs []string) []RiskResult
}

// AnalyticsService defines the interface for mood analytics
type AnalyticsService interface {
	GetMoodAnalytics(ctx context.Context, userID string, days int) (*models.MoodAnalytics, error)
}

// InsightService defines the interface for cached insight summaries
type InsightService interface {
	GetInsights(ctx context.Context, userID string) (*models.InsightsResponse, error)
	ComputeInsights(ctx context.Context, userID string) (*models.InsightsResponse, error)
	InvalidateInsights(ctx context.Context, userID string) error
	GetWeeklySummary(ctx context.Context, userID string) (*models.WeeklySummary, error)
}

// LanguageAnalyzer scores the free text of mood notes. A nil signal with a nil error means
// there was nothing to analyze.
type LanguageAnalyzer interface {
	Analyze(ctx context.Context, notes []string) (*models.LanguageSignal, error)
}

// RiskResult is the outcome of assessing one user in a batch
type RiskResult struct {
	UserID     string                 `json:"user_id"`
	Assessment *models.RiskAssessment `json:"assessment,omitempty"`
	Err        error                  `json:"-"`
}
