package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonnyWalker81/moodwell/backend/internal/analytics"
	"github.com/JonnyWalker81/moodwell/backend/internal/logger"
	"github.com/JonnyWalker81/moodwell/backend/internal/models"
	"github.com/JonnyWalker81/moodwell/backend/internal/repository"
)

const (
	defaultHistoryDays = 30
	maxHistoryDays     = 365
)

type moodEntryService struct {
	entryRepo repository.MoodEntryRepository
	goals     GoalService
	insights  InsightService
	now       func() time.Time
}

// NewMoodEntryService creates a new mood entry service. Creating an entry recomputes the
// user's active goals and invalidates cached insights.
func NewMoodEntryService(entryRepo repository.MoodEntryRepository, goals GoalService, insights InsightService) MoodEntryService {
	return &moodEntryService{
		entryRepo: entryRepo,
		goals:     goals,
		insights:  insights,
		now:       time.Now,
	}
}

// wrapNotFound maps a repository miss onto ErrNotFound
func wrapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

func metricOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func (s *moodEntryService) CreateEntry(ctx context.Context, userID string, req *models.CreateMoodEntryRequest) (*models.MoodEntry, error) {
	if !req.Mood.IsValid() {
		return nil, fmt.Errorf("%w: unknown mood %q", ErrInvalidInput, req.Mood)
	}

	now := s.now()

	id := req.ID
	if id != "" {
		if err := validateUUIDv7At(id, now); err != nil {
			return nil, err
		}
	} else {
		var err error
		if id, err = NewID(); err != nil {
			return nil, err
		}
	}

	timestamp := now
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
		if timestamp.After(now.Add(MaxFutureSkew)) {
			return nil, fmt.Errorf("%w: timestamp is in the future", ErrInvalidInput)
		}
	}

	activities := make([]models.Activity, 0, len(req.Activities))
	for _, a := range req.Activities {
		if !a.Name.IsValid() {
			return nil, fmt.Errorf("%w: unknown activity %q", ErrInvalidInput, a.Name)
		}
		activities = append(activities, models.Activity{Name: a.Name, Duration: a.Duration})
	}

	entry := &models.MoodEntry{
		ID:                 id,
		UserID:             userID,
		Timestamp:          timestamp,
		Mood:               req.Mood,
		SleepQuality:       metricOrDefault(req.SleepQuality, analytics.NeutralMetric),
		EnergyLevel:        metricOrDefault(req.EnergyLevel, analytics.NeutralMetric),
		StressLevel:        metricOrDefault(req.StressLevel, analytics.NeutralMetric),
		SocialInteractions: metricOrDefault(req.SocialInteractions, 0),
		Activities:         activities,
		Notes:              req.Notes,
	}

	created, err := s.entryRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}

	log := logger.Ctx(ctx)
	log.Info("mood entry created",
		logger.String("entry_id", created.ID),
		logger.String("mood", string(created.Mood)),
	)

	// Derived state is refreshed best effort; the entry itself is already stored
	if _, err := s.goals.RecomputeProgress(ctx, userID); err != nil {
		log.Warn("failed to recompute goal progress", logger.Err(err))
	}
	if err := s.insights.InvalidateInsights(ctx, userID); err != nil {
		log.Warn("failed to invalidate insights", logger.Err(err))
	}

	return created, nil
}

func (s *moodEntryService) GetEntry(ctx context.Context, userID, entryID string) (*models.MoodEntry, error) {
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, wrapNotFound(err)
	}

	// Verify the entry belongs to the user
	if entry.UserID != userID {
		return nil, fmt.Errorf("%w: mood entry %s", ErrNotFound, entryID)
	}

	return entry, nil
}

func (s *moodEntryService) ListEntries(ctx context.Context, userID string, limit, offset int) ([]models.MoodEntry, error) {
	// Set default pagination limits
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.entryRepo.GetByUserID(ctx, userID, limit, offset)
}

func (s *moodEntryService) GetHistory(ctx context.Context, userID string, days int) ([]models.MoodHistoryPoint, error) {
	if days <= 0 {
		days = defaultHistoryDays
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}

	now := s.now()
	entries, err := s.entryRepo.GetByUserIDAndDateRange(ctx, userID, now.AddDate(0, 0, -(days+1)), now)
	if err != nil {
		return nil, fmt.Errorf("failed to get mood entries: %w", err)
	}

	window := analytics.FilterWindow(entries, now, days)
	values := analytics.MoodValues(window, models.PolarityWellbeing)

	points := make([]models.MoodHistoryPoint, len(window))
	for i, e := range window {
		points[i] = models.MoodHistoryPoint{
			Timestamp: e.Timestamp,
			Mood:      e.Mood.Normalize(),
			Value:     values[i],
		}
	}
	return points, nil
}
