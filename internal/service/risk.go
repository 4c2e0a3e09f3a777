package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/JonnyWalker81/moodwell/backend/internal/analytics"
	"github.com/JonnyWalker81/moodwell/backend/internal/logger"
	"github.com/JonnyWalker81/moodwell/backend/internal/models"
	"github.com/JonnyWalker81/moodwell/backend/internal/repository"
)

const (
	DefaultLanguageTimeout  = 10 * time.Second
	DefaultBatchConcurrency = 4
)

// RiskOptions tunes the risk service
type RiskOptions struct {
	// LanguageTimeout bounds a single call to the language analyzer
	LanguageTimeout time.Duration
	// BatchConcurrency caps how many users AssessUsers scores at once
	BatchConcurrency int
}

type riskService struct {
	entryRepo repository.MoodEntryRepository
	analyzer  LanguageAnalyzer
	opts      RiskOptions
	now       func() time.Time
}

// NewRiskService creates a new risk service. A nil analyzer leaves the language
// dimension out of every assessment.
func NewRiskService(entryRepo repository.MoodEntryRepository, analyzer LanguageAnalyzer, opts RiskOptions) RiskService {
	if opts.LanguageTimeout <= 0 {
		opts.LanguageTimeout = DefaultLanguageTimeout
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = DefaultBatchConcurrency
	}
	return &riskService{
		entryRepo: entryRepo,
		analyzer:  analyzer,
		opts:      opts,
		now:       time.Now,
	}
}

func (s *riskService) AssessUser(ctx context.Context, userID string) (*models.RiskAssessment, error) {
	now := s.now()

	// One extra day so the repository range always covers the calendar-day window
	start := now.AddDate(0, 0, -(analytics.MoodRiskWindowDays + 1))
	entries, err := s.entryRepo.GetByUserIDAndDateRange(ctx, userID, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get mood entries: %w", err)
	}

	window := analytics.FilterWindow(entries, now, analytics.MoodRiskWindowDays)
	signal := s.analyzeNotes(ctx, window)

	assessment := analytics.AssessRisk(window, signal, now)
	assessment.UserID = userID

	log := logger.Ctx(ctx).With(
		logger.String("risk_level", string(assessment.RiskLevel)),
		logger.Float64("risk_score", assessment.Score),
	)
	if assessment.RequiresAttention {
		log.Warn("risk assessment requires attention", logger.String("assessed_user_id", userID))
	} else {
		log.Debug("risk assessed", logger.String("assessed_user_id", userID))
	}

	return &assessment, nil
}

// analyzeNotes asks the language collaborator about the window's notes. Any failure leaves
// the language dimension unavailable.
func (s *riskService) analyzeNotes(ctx context.Context, window []models.MoodEntry) *models.LanguageSignal {
	if s.analyzer == nil {
		return nil
	}

	notes := make([]string, 0, len(window))
	for _, e := range window {
		if e.Notes != nil && *e.Notes != "" {
			notes = append(notes, *e.Notes)
		}
	}
	if len(notes) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.LanguageTimeout)
	defer cancel()

	signal, err := s.analyzer.Analyze(ctx, notes)
	if err != nil {
		logger.Ctx(ctx).Warn("language analysis unavailable", logger.Err(err), logger.Int("notes", len(notes)))
		return nil
	}
	return signal
}

func (s *riskService) AssessUsers(ctx context.Context, userIDs []string) []RiskResult {
	order := make(map[string]int, len(userIDs))
	unique := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if _, dup := order[id]; dup {
			continue
		}
		order[id] = len(unique)
		unique = append(unique, id)
	}

	p := pool.NewWithResults[RiskResult]().WithMaxGoroutines(s.opts.BatchConcurrency)
	for _, id := range unique {
		id := id
		p.Go(func() RiskResult {
			assessment, err := s.AssessUser(logger.WithUserID(ctx, id), id)
			return RiskResult{UserID: id, Assessment: assessment, Err: err}
		})
	}
	results := p.Wait()

	sort.Slice(results, func(i, j int) bool {
		return order[results[i].UserID] < order[results[j].UserID]
	})
	return results
}
