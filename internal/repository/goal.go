package repository

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
	"github.com/JonnyWalker81/moodwell/backend/pkg/supabase"
)

const goalsTable = "goals"

type goalRepository struct {
	client *supabase.Client
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(client *supabase.Client) GoalRepository {
	return &goalRepository{client: client}
}

func decodeGoals(body []byte) ([]models.Goal, error) {
	var goals []models.Goal
	if err := sonic.Unmarshal(body, &goals); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return goals, nil
}

func firstGoal(body []byte) (*models.Goal, error) {
	goals, err := decodeGoals(body)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, fmt.Errorf("no goal returned")
	}
	return &goals[0], nil
}

func (r *goalRepository) Create(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	data := map[string]interface{}{
		"user_id":     goal.UserID,
		"title":       goal.Title,
		"description": goal.Description,
		"type":        goal.Type,
		"target":      goal.Target,
		"progress":    goal.Progress,
		"status":      goal.Status,
	}
	if goal.CompletedAt != nil {
		data["completed_at"] = *goal.CompletedAt
	}
	if goal.ID != "" {
		data["id"] = goal.ID
	}

	body, err := r.client.Insert(ctx, goalsTable, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return firstGoal(body)
}

func (r *goalRepository) GetByID(ctx context.Context, id string) (*models.Goal, error) {
	query := map[string]interface{}{
		"id":     fmt.Sprintf("eq.%s", id),
		"select": "*",
	}

	body, err := r.client.Query(ctx, goalsTable, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	goals, err := decodeGoals(body)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}

	return &goals[0], nil
}

func (r *goalRepository) GetByUserID(ctx context.Context, userID string, status *models.GoalStatus) ([]models.Goal, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"select":  "*",
		"order":   "created_at.desc",
	}
	if status != nil {
		query["status"] = fmt.Sprintf("eq.%s", *status)
	}

	body, err := r.client.Query(ctx, goalsTable, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}

	return decodeGoals(body)
}

func (r *goalRepository) Update(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	data := map[string]interface{}{
		"title":        goal.Title,
		"description":  goal.Description,
		"progress":     goal.Progress,
		"status":       goal.Status,
		"completed_at": goal.CompletedAt,
		"updated_at":   goal.UpdatedAt,
	}

	body, err := r.client.Update(ctx, goalsTable, goal.ID, data)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return firstGoal(body)
}
