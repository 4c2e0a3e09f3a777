package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonnyWalker81/moodwell/backend/internal/analytics"
	"github.com/JonnyWalker81/moodwell/backend/internal/logger"
	"github.com/JonnyWalker81/moodwell/backend/internal/models"
	"github.com/JonnyWalker81/moodwell/backend/internal/repository"
)

type goalService struct {
	goalRepo  repository.GoalRepository
	entryRepo repository.MoodEntryRepository
	now       func() time.Time
}

// NewGoalService creates a new goal service
func NewGoalService(goalRepo repository.GoalRepository, entryRepo repository.MoodEntryRepository) GoalService {
	return &goalService{
		goalRepo:  goalRepo,
		entryRepo: entryRepo,
		now:       time.Now,
	}
}

func (s *goalService) recentEntries(ctx context.Context, userID string) ([]models.MoodEntry, error) {
	entries, err := s.entryRepo.GetRecent(ctx, userID, analytics.GoalWindowEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent entries: %w", err)
	}
	return entries, nil
}

func (s *goalService) CreateGoal(ctx context.Context, userID string, req *models.CreateGoalRequest) (*models.Goal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown goal type %q", ErrInvalidInput, req.Type)
	}
	if req.Target <= 0 {
		return nil, fmt.Errorf("%w: target must be greater than zero", ErrInvalidInput)
	}

	id, err := NewID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	goal := models.Goal{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: req.Description,
		Type:        req.Type,
		Target:      req.Target,
		Status:      models.GoalStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Start from the progress the user has already made
	entries, err := s.recentEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	eval := analytics.EvaluateGoal(goal, entries, now)

	return s.goalRepo.Create(ctx, &eval.Goal)
}

func (s *goalService) GetGoal(ctx context.Context, userID, goalID string) (*models.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, wrapNotFound(err)
	}

	// Verify the goal belongs to the user
	if goal.UserID != userID {
		return nil, fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
	}

	return goal, nil
}

func (s *goalService) ListGoals(ctx context.Context, userID string, status *models.GoalStatus) ([]models.Goal, error) {
	return s.goalRepo.GetByUserID(ctx, userID, status)
}

func (s *goalService) UpdateGoal(ctx context.Context, userID, goalID string, req *models.UpdateGoalRequest) (*models.Goal, error) {
	goal, err := s.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		goal.Title = title
	}
	goal.Description = req.Description.Resolve(goal.Description)
	if goal.Description != nil && strings.TrimSpace(*goal.Description) == "" {
		goal.Description = nil
	}
	goal.UpdatedAt = s.now()

	return s.goalRepo.Update(ctx, goal)
}

func (s *goalService) AbandonGoal(ctx context.Context, userID, goalID string) (*models.Goal, error) {
	goal, err := s.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if goal.Status != models.GoalStatusActive {
		return nil, fmt.Errorf("%w: goal %s is %s", ErrGoalNotActive, goalID, goal.Status)
	}

	goal.Status = models.GoalStatusAbandoned
	goal.UpdatedAt = s.now()

	return s.goalRepo.Update(ctx, goal)
}

func (s *goalService) RecomputeProgress(ctx context.Context, userID string) ([]models.GoalEvaluation, error) {
	active := models.GoalStatusActive
	goals, err := s.goalRepo.GetByUserID(ctx, userID, &active)
	if err != nil {
		return nil, fmt.Errorf("failed to get active goals: %w", err)
	}
	if len(goals) == 0 {
		return []models.GoalEvaluation{}, nil
	}

	entries, err := s.recentEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	evaluations := make([]models.GoalEvaluation, 0, len(goals))
	for _, goal := range goals {
		eval := analytics.EvaluateGoal(goal, entries, now)
		evaluations = append(evaluations, eval)

		if eval.Skipped || eval.InsufficientData {
			continue
		}
		if eval.Goal.Progress == goal.Progress && eval.Goal.Status == goal.Status {
			continue
		}

		if _, err := s.goalRepo.Update(ctx, &eval.Goal); err != nil {
			return nil, fmt.Errorf("failed to update goal %s: %w", goal.ID, err)
		}
		if eval.Completed {
			logger.Ctx(ctx).Info("goal completed",
				logger.String("goal_id", goal.ID),
				logger.String("goal_type", string(goal.Type)),
			)
		}
	}

	return evaluations, nil
}
