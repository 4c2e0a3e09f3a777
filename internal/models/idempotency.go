package models

import (
	"encoding/json"
	"time"
)

// IdempotencyKey is a stored mood entry submission response. It is replayed for retries
// carrying the same key until ExpiresAt.
type IdempotencyKey struct {
	ID           string          `json:"id,omitempty"`
	Key          string          `json:"key"`
	Route        string          `json:"route"`
	UserID       string          `json:"user_id"`
	ResponseBody json.RawMessage `json:"response_body"`
	StatusCode   int             `json:"status_code"`
	ExpiresAt    time.Time       `json:"expires_at"`
}
