package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
	"github.com/JonnyWalker81/moodwell/backend/internal/repository"
)

// fixedNow is a Friday
var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func nowFunc() time.Time { return fixedNow }

var errBackend = errors.New("backend unavailable")

// mockEntryRepository keeps entries in memory. Failing user IDs return errBackend.
type mockEntryRepository struct {
	mu      sync.Mutex
	entries []models.MoodEntry
	failFor map[string]bool
	creates int
}

func newMockEntryRepository(entries ...models.MoodEntry) *mockEntryRepository {
	return &mockEntryRepository{entries: entries, failFor: map[string]bool{}}
}

func (m *mockEntryRepository) Create(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[entry.UserID] {
		return nil, errBackend
	}
	m.creates++
	entry.CreatedAt = fixedNow
	m.entries = append(m.entries, *entry)
	return entry, nil
}

func (m *mockEntryRepository) GetByID(ctx context.Context, id string) (*models.MoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ID == id {
			e := m.entries[i]
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockEntryRepository) userEntries(userID string) ([]models.MoodEntry, error) {
	if m.failFor[userID] {
		return nil, errBackend
	}
	var result []models.MoodEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockEntryRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]models.MoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, err := m.userEntries(userID)
	if err != nil {
		return nil, err
	}
	if offset >= len(result) {
		return []models.MoodEntry{}, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockEntryRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.MoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all, err := m.userEntries(userID)
	if err != nil {
		return nil, err
	}
	var result []models.MoodEntry
	for _, e := range all {
		if !e.Timestamp.Before(startDate) && !e.Timestamp.After(endDate) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockEntryRepository) GetRecent(ctx context.Context, userID string, n int) ([]models.MoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, err := m.userEntries(userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp.After(result[j].Timestamp) })
	if n < len(result) {
		result = result[:n]
	}
	return result, nil
}

type mockGoalRepository struct {
	goals   map[string]*models.Goal
	updates int
}

func newMockGoalRepository(goals ...models.Goal) *mockGoalRepository {
	m := &mockGoalRepository{goals: map[string]*models.Goal{}}
	for i := range goals {
		g := goals[i]
		m.goals[g.ID] = &g
	}
	return m
}

func (m *mockGoalRepository) Create(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	g := *goal
	m.goals[g.ID] = &g
	return &g, nil
}

func (m *mockGoalRepository) GetByID(ctx context.Context, id string) (*models.Goal, error) {
	if g, ok := m.goals[id]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockGoalRepository) GetByUserID(ctx context.Context, userID string, status *models.GoalStatus) ([]models.Goal, error) {
	result := []models.Goal{}
	for _, g := range m.goals {
		if g.UserID != userID {
			continue
		}
		if status != nil && g.Status != *status {
			continue
		}
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockGoalRepository) Update(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	if _, ok := m.goals[goal.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	m.updates++
	g := *goal
	m.goals[g.ID] = &g
	return &g, nil
}

type mockInsightRepository struct {
	insights     []models.Insight
	bulkCreates  int
	deletes      int
	invalidates  int
	invalidateAt time.Time
}

func (m *mockInsightRepository) BulkCreate(ctx context.Context, insights []models.Insight) error {
	m.bulkCreates++
	m.insights = append(m.insights, insights...)
	return nil
}

func (m *mockInsightRepository) GetValidByUserID(ctx context.Context, userID string, now time.Time) ([]models.Insight, error) {
	var result []models.Insight
	for _, in := range m.insights {
		if in.UserID == userID && in.ValidUntil.After(now) {
			result = append(result, in)
		}
	}
	return result, nil
}

func (m *mockInsightRepository) DeleteByUserID(ctx context.Context, userID string) error {
	m.deletes++
	kept := m.insights[:0]
	for _, in := range m.insights {
		if in.UserID != userID {
			kept = append(kept, in)
		}
	}
	m.insights = kept
	return nil
}

func (m *mockInsightRepository) InvalidateAll(ctx context.Context, userID string, now time.Time) error {
	m.invalidates++
	m.invalidateAt = now
	for i := range m.insights {
		if m.insights[i].UserID == userID {
			m.insights[i].ValidUntil = now.Add(-time.Hour)
		}
	}
	return nil
}

type mockAnalyzer struct {
	mu     sync.Mutex
	signal *models.LanguageSignal
	err    error
	calls  int
	notes  []string
}

func (m *mockAnalyzer) Analyze(ctx context.Context, notes []string) (*models.LanguageSignal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.notes = notes
	return m.signal, m.err
}

func entryAt(userID string, ts time.Time, mood models.Mood) models.MoodEntry {
	return models.MoodEntry{
		ID:                 ts.Format(time.RFC3339Nano) + userID,
		UserID:             userID,
		Timestamp:          ts,
		Mood:               mood,
		SleepQuality:       3,
		EnergyLevel:        3,
		StressLevel:        3,
		SocialInteractions: 3,
	}
}

// weekOfEntries is one entry per day for the last week, oldest first, with sleep rated 2
func weekOfEntries(userID string) []models.MoodEntry {
	moods := []models.Mood{
		models.MoodVerySad, models.MoodSad, models.MoodSad, models.MoodNeutral,
		models.MoodHappy, models.MoodHappy, models.MoodVeryHappy,
	}
	entries := make([]models.MoodEntry, len(moods))
	for i, mood := range moods {
		e := entryAt(userID, fixedNow.AddDate(0, 0, -(len(moods)-1-i)), mood)
		e.SleepQuality = 2
		entries[i] = e
	}
	return entries
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
