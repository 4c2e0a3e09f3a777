package repository

import (
	"context"
	"errors"
	"time"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
)

// ErrNotFound is returned when a single record lookup matches nothing
var ErrNotFound = errors.New("record not found")

// MoodEntryRepository defines the interface for mood entry data access.
// Entries are append-only: there is no update or delete.
type MoodEntryRepository interface {
	Create(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error)
	GetByID(ctx context.Context, id string) (*models.MoodEntry, error)
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]models.MoodEntry, error)
	GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.MoodEntry, error)
	// GetRecent returns the user's n most recent entries, newest first
	GetRecent(ctx context.Context, userID string, n int) ([]models.MoodEntry, error)
}

// GoalRepository defines the interface for goal data access
type GoalRepository interface {
	Create(ctx context.Context, goal *models.Goal) (*models.Goal, error)
	GetByID(ctx context.Context, id string) (*models.Goal, error)
	// GetByUserID lists a user's goals, optionally only those with the given status
	GetByUserID(ctx context.Context, userID string, status *models.GoalStatus) ([]models.Goal, error)
	Update(ctx context.Context, goal *models.Goal) (*models.Goal, error)
}

// InsightRepository caches computed insights until they expire
type InsightRepository interface {
	BulkCreate(ctx context.Context, insights []models.Insight) error
	GetValidByUserID(ctx context.Context, userID string, now time.Time) ([]models.Insight, error)
	DeleteByUserID(ctx context.Context, userID string) error
	InvalidateAll(ctx context.Context, userID string, now time.Time) error
}

// IdempotencyRepository stores responses to replay for retried submissions. Records are
// scoped to user, route and key.
type IdempotencyRepository interface {
	// Get returns nil, nil when no unexpired record exists
	Get(ctx context.Context, key, route, userID string) (*models.IdempotencyKey, error)
	Store(ctx context.Context, key, route, userID string, responseBody []byte, statusCode int) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}
