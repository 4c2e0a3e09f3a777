package models

import "time"

// GoalType selects which derived average a goal is compared against
type GoalType string

const (
	GoalTypeMood     GoalType = "mood"
	GoalTypeSleep    GoalType = "sleep"
	GoalTypeActivity GoalType = "activity"
	GoalTypeSocial   GoalType = "social"
)

// IsValid reports whether t is a known goal type
func (t GoalType) IsValid() bool {
	switch t {
	case GoalTypeMood, GoalTypeSleep, GoalTypeActivity, GoalTypeSocial:
		return true
	}
	return false
}

// GoalStatus is the lifecycle state of a goal.
// Transitions are one-way: active -> completed, active -> abandoned.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusAbandoned GoalStatus = "abandoned"
)

// Goal represents a user-defined target over a mood-derived metric
type Goal struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Type        GoalType   `json:"type"`
	Target      float64    `json:"target"`
	Progress    float64    `json:"progress"` // 0-100
	Status      GoalStatus `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// GoalEvaluation reports the outcome of recomputing a goal's progress
type GoalEvaluation struct {
	Goal             Goal    `json:"goal"`
	CurrentAverage   float64 `json:"current_average"`
	SampleSize       int     `json:"sample_size"`
	InsufficientData bool    `json:"insufficient_data"`
	Skipped          bool    `json:"skipped"`   // goal was not active
	Completed        bool    `json:"completed"` // transitioned to completed by this evaluation
}
