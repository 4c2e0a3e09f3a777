package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
	"github.com/JonnyWalker81/moodwell/backend/pkg/supabase"
)

const moodEntriesTable = "mood_entries"

type moodEntryRepository struct {
	client *supabase.Client
}

// NewMoodEntryRepository creates a new mood entry repository
func NewMoodEntryRepository(client *supabase.Client) MoodEntryRepository {
	return &moodEntryRepository{client: client}
}

func decodeEntries(body []byte) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	if err := sonic.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return entries, nil
}

func (r *moodEntryRepository) Create(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error) {
	activities := entry.Activities
	if activities == nil {
		activities = []models.Activity{}
	}

	data := map[string]interface{}{
		"user_id":             entry.UserID,
		"timestamp":           entry.Timestamp,
		"mood":                entry.Mood,
		"sleep_quality":       entry.SleepQuality,
		"energy_level":        entry.EnergyLevel,
		"stress_level":        entry.StressLevel,
		"social_interactions": entry.SocialInteractions,
		"activities":          activities,
	}

	// Use the service-assigned UUIDv7 when present
	if entry.ID != "" {
		data["id"] = entry.ID
	}
	if entry.Notes != nil {
		data["notes"] = *entry.Notes
	}

	body, err := r.client.Insert(ctx, moodEntriesTable, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create mood entry: %w", err)
	}

	entries, err := decodeEntries(body)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no mood entry returned")
	}

	return &entries[0], nil
}

func (r *moodEntryRepository) GetByID(ctx context.Context, id string) (*models.MoodEntry, error) {
	query := map[string]interface{}{
		"id":     fmt.Sprintf("eq.%s", id),
		"select": "*",
	}

	body, err := r.client.Query(ctx, moodEntriesTable, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get mood entry: %w", err)
	}

	entries, err := decodeEntries(body)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("mood entry %s: %w", id, ErrNotFound)
	}

	return &entries[0], nil
}

func (r *moodEntryRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]models.MoodEntry, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"select":  "*",
		"order":   "timestamp.desc",
		"limit":   limit,
		"offset":  offset,
	}

	body, err := r.client.Query(ctx, moodEntriesTable, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get mood entries: %w", err)
	}

	return decodeEntries(body)
}

func (r *moodEntryRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.MoodEntry, error) {
	// PostgREST needs both bounds on the same column, so the range goes through "and"
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"and": fmt.Sprintf("(timestamp.gte.%s,timestamp.lte.%s)",
			startDate.UTC().Format(time.RFC3339), endDate.UTC().Format(time.RFC3339)),
		"select": "*",
		"order":  "timestamp.asc",
	}

	body, err := r.client.Query(ctx, moodEntriesTable, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get mood entries by date range: %w", err)
	}

	return decodeEntries(body)
}

func (r *moodEntryRepository) GetRecent(ctx context.Context, userID string, n int) ([]models.MoodEntry, error) {
	return r.GetByUserID(ctx, userID, n, 0)
}
