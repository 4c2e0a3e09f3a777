package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
	"github.com/JonnyWalker81/moodwell/backend/pkg/supabase"
)

const idempotencyTable = "idempotency_keys"

// ReplayWindow is how long a stored submission answers retries. The app queues entries
// written offline and retries them for up to a day.
const ReplayWindow = 24 * time.Hour

type idempotencyRepository struct {
	client *supabase.Client
	window time.Duration
	now    func() time.Time
}

// NewIdempotencyRepository stores replay records in the idempotency_keys table
func NewIdempotencyRepository(client *supabase.Client) IdempotencyRepository {
	return &idempotencyRepository{client: client, window: ReplayWindow, now: time.Now}
}

func (r *idempotencyRepository) Get(ctx context.Context, key, route, userID string) (*models.IdempotencyKey, error) {
	body, err := r.client.Query(ctx, idempotencyTable, map[string]interface{}{
		"user_id":    "eq." + userID,
		"route":      "eq." + route,
		"key":        "eq." + key,
		"expires_at": "gt." + r.now().UTC().Format(time.RFC3339),
		"select":     "*",
		"limit":      1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query idempotency key: %w", err)
	}

	var records []models.IdempotencyKey
	if err := sonic.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idempotency keys: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// Store upserts on (user_id, key, route), so an expired record for a reused key is
// replaced rather than rejected.
func (r *idempotencyRepository) Store(ctx context.Context, key, route, userID string, responseBody []byte, statusCode int) error {
	record := models.IdempotencyKey{
		Key:          key,
		Route:        route,
		UserID:       userID,
		ResponseBody: responseBody,
		StatusCode:   statusCode,
		ExpiresAt:    r.now().UTC().Add(r.window),
	}

	if _, err := r.client.Upsert(ctx, idempotencyTable, record, "user_id,key,route"); err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}
	return nil
}
