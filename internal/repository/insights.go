package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
	"github.com/JonnyWalker81/moodwell/backend/pkg/supabase"
)

const insightsTable = "insights"

type insightRepository struct {
	client *supabase.Client
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(client *supabase.Client) InsightRepository {
	return &insightRepository{client: client}
}

func (r *insightRepository) BulkCreate(ctx context.Context, insights []models.Insight) error {
	if len(insights) == 0 {
		return nil
	}

	data := make([]map[string]interface{}, len(insights))
	for i, insight := range insights {
		// PostgREST requires all objects to have the same keys for bulk insert
		item := map[string]interface{}{
			"user_id":        insight.UserID,
			"insight_type":   insight.InsightType,
			"category":       insight.Category,
			"title":          insight.Title,
			"description":    insight.Description,
			"recommendation": insight.Recommendation,
			"metric_value":   insight.MetricValue,
			"sample_size":    insight.SampleSize,
			"confidence":     insight.Confidence,
			"direction":      insight.Direction,
			"computed_at":    insight.ComputedAt,
			"valid_until":    insight.ValidUntil,
			"p_value":        nil,
			"metadata":       map[string]interface{}{},
		}
		if insight.ID != "" {
			item["id"] = insight.ID
		}
		if insight.PValue != nil {
			item["p_value"] = *insight.PValue
		}
		if len(insight.Metadata) > 0 {
			item["metadata"] = insight.Metadata
		}

		data[i] = item
	}

	if _, err := r.client.Insert(ctx, insightsTable, data); err != nil {
		return fmt.Errorf("failed to bulk create insights: %w", err)
	}

	return nil
}

func (r *insightRepository) GetValidByUserID(ctx context.Context, userID string, now time.Time) ([]models.Insight, error) {
	query := map[string]interface{}{
		"user_id":     fmt.Sprintf("eq.%s", userID),
		"valid_until": fmt.Sprintf("gt.%s", now.UTC().Format(time.RFC3339)),
		"select":      "*",
		"order":       "computed_at.desc",
	}

	body, err := r.client.Query(ctx, insightsTable, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get valid insights: %w", err)
	}

	var insights []models.Insight
	if err := sonic.Unmarshal(body, &insights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return insights, nil
}

func (r *insightRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
	}

	if err := r.client.DeleteWhere(ctx, insightsTable, query); err != nil {
		return fmt.Errorf("failed to delete insights: %w", err)
	}

	return nil
}

func (r *insightRepository) InvalidateAll(ctx context.Context, userID string, now time.Time) error {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
	}

	data := map[string]interface{}{
		"valid_until": now.Add(-1 * time.Hour), // Set to past
	}

	if _, err := r.client.UpdateWhere(ctx, insightsTable, query, data); err != nil {
		return fmt.Errorf("failed to invalidate insights: %w", err)
	}

	return nil
}
