package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates the record does not exist or belongs to another user
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a request failed business validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrGoalNotActive indicates a transition that requires an active goal
	ErrGoalNotActive = errors.New("goal is not active")

	// ErrInvalidUUID indicates the string is not a valid UUID format
	ErrInvalidUUID = errors.New("invalid UUID format")
	// ErrNotUUIDv7 indicates the UUID is not version 7
	ErrNotUUIDv7 = errors.New("UUID must be version 7")
	// ErrFutureTimestamp indicates the UUIDv7 timestamp is too far in the future
	ErrFutureTimestamp = errors.New("UUID timestamp is too far in the future")
)

// MaxFutureSkew is how far ahead of the server clock a client-supplied id or entry
// timestamp may be
const MaxFutureSkew = time.Minute

// NewID returns a new UUIDv7 string
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// ValidateUUIDv7 validates that a string is a valid UUIDv7 with timestamp within bounds.
// Returns nil if valid, or ErrInvalidUUID, ErrNotUUIDv7, or ErrFutureTimestamp.
func ValidateUUIDv7(id string) error {
	return validateUUIDv7At(id, time.Now())
}

func validateUUIDv7At(id string, now time.Time) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}

	if parsed.Version() != 7 {
		return fmt.Errorf("%w: got version %d", ErrNotUUIDv7, parsed.Version())
	}

	// UUIDv7 embeds Unix milliseconds
	sec, nsec := parsed.Time().UnixTime()
	timestamp := time.Unix(sec, nsec)

	if timestamp.After(now.Add(MaxFutureSkew)) {
		return fmt.Errorf("%w: %v is more than %v ahead",
			ErrFutureTimestamp, timestamp.Format(time.RFC3339), MaxFutureSkew)
	}

	return nil
}

// ExtractUUIDv7Timestamp extracts the embedded timestamp from a UUIDv7.
// Returns zero time if parsing fails.
func ExtractUUIDv7Timestamp(id string) time.Time {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return time.Time{}
	}
	sec, nsec := parsed.Time().UnixTime()
	return time.Unix(sec, nsec)
}
