package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
)

func newGoalFixture(entries []models.MoodEntry, goals ...models.Goal) (*goalService, *mockGoalRepository) {
	goalRepo := newMockGoalRepository(goals...)
	return &goalService{
		goalRepo:  goalRepo,
		entryRepo: newMockEntryRepository(entries...),
		now:       nowFunc,
	}, goalRepo
}

func activeGoal(id string, goalType models.GoalType, target float64) models.Goal {
	return models.Goal{
		ID:     id,
		UserID: "user-1",
		Title:  "goal " + id,
		Type:   goalType,
		Target: target,
		Status: models.GoalStatusActive,
	}
}

func TestCreateGoal_StartsFromCurrentProgress(t *testing.T) {
	svc, repo := newGoalFixture(weekOfEntries("user-1"))

	goal, err := svc.CreateGoal(context.Background(), "user-1", &models.CreateGoalRequest{
		Title:  "  Feel better  ",
		Type:   models.GoalTypeMood,
		Target: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, "Feel better", goal.Title)
	assert.Equal(t, models.GoalStatusActive, goal.Status)
	assert.InDelta(t, 75.0, goal.Progress, 1e-9)
	assert.Nil(t, goal.CompletedAt)
	assert.NoError(t, ValidateUUIDv7(goal.ID))
	assert.Contains(t, repo.goals, goal.ID)
}

func TestCreateGoal_WithoutEntries(t *testing.T) {
	svc, _ := newGoalFixture(nil)

	goal, err := svc.CreateGoal(context.Background(), "user-1", &models.CreateGoalRequest{
		Title:  "Sleep more",
		Type:   models.GoalTypeSleep,
		Target: 4,
	})
	require.NoError(t, err)
	assert.Zero(t, goal.Progress)
	assert.Equal(t, models.GoalStatusActive, goal.Status)
}

func TestCreateGoal_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateGoalRequest
	}{
		{"blank title", models.CreateGoalRequest{Title: "   ", Type: models.GoalTypeMood, Target: 4}},
		{"unknown type", models.CreateGoalRequest{Title: "x", Type: "weight", Target: 4}},
		{"zero target", models.CreateGoalRequest{Title: "x", Type: models.GoalTypeMood, Target: 0}},
		{"negative target", models.CreateGoalRequest{Title: "x", Type: models.GoalTypeMood, Target: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newGoalFixture(nil)
			_, err := svc.CreateGoal(context.Background(), "user-1", &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, repo.goals)
		})
	}
}

func TestUpdateGoal_Description(t *testing.T) {
	g := activeGoal("g1", models.GoalTypeMood, 4)
	g.Description = strPtr("old")
	svc, repo := newGoalFixture(nil, g)

	// Absent description leaves it unchanged
	updated, err := svc.UpdateGoal(context.Background(), "user-1", "g1", &models.UpdateGoalRequest{Title: strPtr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "old", *updated.Description)

	// Explicit null clears it
	updated, err = svc.UpdateGoal(context.Background(), "user-1", "g1", &models.UpdateGoalRequest{
		Description: models.Patch[string]{Set: true, Null: true},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
	assert.Nil(t, repo.goals["g1"].Description)

	// A new value replaces it; a blank one clears it
	updated, err = svc.UpdateGoal(context.Background(), "user-1", "g1", &models.UpdateGoalRequest{
		Description: models.Patch[string]{Set: true, Value: "after dinner"},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "after dinner", *updated.Description)

	updated, err = svc.UpdateGoal(context.Background(), "user-1", "g1", &models.UpdateGoalRequest{
		Description: models.Patch[string]{Set: true, Value: "   "},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)

	_, err = svc.UpdateGoal(context.Background(), "user-1", "g1", &models.UpdateGoalRequest{Title: strPtr(" ")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGoal_Ownership(t *testing.T) {
	svc, _ := newGoalFixture(nil, activeGoal("g1", models.GoalTypeMood, 4))

	_, err := svc.GetGoal(context.Background(), "user-2", "g1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AbandonGoal(context.Background(), "user-2", "g1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetGoal(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAbandonGoal_OnlyFromActive(t *testing.T) {
	svc, repo := newGoalFixture(nil, activeGoal("g1", models.GoalTypeMood, 4))

	goal, err := svc.AbandonGoal(context.Background(), "user-1", "g1")
	require.NoError(t, err)
	assert.Equal(t, models.GoalStatusAbandoned, goal.Status)
	assert.Equal(t, models.GoalStatusAbandoned, repo.goals["g1"].Status)

	_, err = svc.AbandonGoal(context.Background(), "user-1", "g1")
	assert.ErrorIs(t, err, ErrGoalNotActive)
}

func TestListGoals_FiltersByStatus(t *testing.T) {
	done := activeGoal("g2", models.GoalTypeSleep, 3)
	done.Status = models.GoalStatusCompleted
	svc, _ := newGoalFixture(nil, activeGoal("g1", models.GoalTypeMood, 4), done)

	all, err := svc.ListGoals(context.Background(), "user-1", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	completed := models.GoalStatusCompleted
	filtered, err := svc.ListGoals(context.Background(), "user-1", &completed)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "g2", filtered[0].ID)
}

func TestRecomputeProgress(t *testing.T) {
	svc, repo := newGoalFixture(
		weekOfEntries("user-1"),
		activeGoal("g1", models.GoalTypeMood, 4),
		activeGoal("g2", models.GoalTypeSleep, 2),
		activeGoal("g3", models.GoalTypeSocial, 3),
	)

	evals, err := svc.RecomputeProgress(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, evals, 3)

	mood := repo.goals["g1"]
	assert.InDelta(t, 75.0, mood.Progress, 1e-9)
	assert.Equal(t, models.GoalStatusActive, mood.Status)

	sleep := repo.goals["g2"]
	assert.Equal(t, 100.0, sleep.Progress)
	assert.Equal(t, models.GoalStatusCompleted, sleep.Status)
	require.NotNil(t, sleep.CompletedAt)
	assert.Equal(t, fixedNow, *sleep.CompletedAt)

	social := repo.goals["g3"]
	assert.Equal(t, 100.0, social.Progress)
	assert.Equal(t, 3, repo.updates)

	// A second pass changes nothing and only considers active goals
	evals, err = svc.RecomputeProgress(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, evals, 1)
	assert.Equal(t, 3, repo.updates)
}

func TestRecomputeProgress_NoActiveGoals(t *testing.T) {
	abandoned := activeGoal("g1", models.GoalTypeMood, 4)
	abandoned.Status = models.GoalStatusAbandoned
	svc, repo := newGoalFixture(weekOfEntries("user-1"), abandoned)

	evals, err := svc.RecomputeProgress(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, evals)
	assert.Zero(t, repo.updates)
	assert.Equal(t, models.GoalStatusAbandoned, repo.goals["g1"].Status)
}
