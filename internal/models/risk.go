package models

import "time"

// RiskLevel is a discretized bucket of the composite risk score
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// RiskDimension names one input of the composite risk score
type RiskDimension string

const (
	RiskDimensionMood     RiskDimension = "mood"
	RiskDimensionLanguage RiskDimension = "language"
	RiskDimensionSleep    RiskDimension = "sleep"
	RiskDimensionSocial   RiskDimension = "social"
	RiskDimensionStress   RiskDimension = "stress"
)

// RiskFactor is the contribution of a single dimension to an assessment
type RiskFactor struct {
	Dimension    RiskDimension `json:"dimension"`
	Score        float64       `json:"score"` // 0-100
	Weight       float64       `json:"weight"`
	Contribution float64       `json:"contribution"` // Score * Weight
	Available    bool          `json:"available"`
	DataPoints   int           `json:"data_points"`
	WindowDays   int           `json:"window_days,omitempty"`
	Description  string        `json:"description"`
	Concerns     []string      `json:"concerns"`
}

// RiskAssessment is derived on demand from the current entry series and is never the
// source of truth for anything
type RiskAssessment struct {
	UserID            string       `json:"user_id,omitempty"`
	Score             float64      `json:"score"`
	RiskLevel         RiskLevel    `json:"risk_level"`
	Factors           []RiskFactor `json:"factors"`
	WeightCoverage    float64      `json:"weight_coverage"`
	HasData           bool         `json:"has_data"`
	LanguageAvailable bool         `json:"language_available"`
	RequiresAttention bool         `json:"requires_attention"`
	Explanation       string       `json:"explanation,omitempty"`
	Recommendations   []string     `json:"recommendations"`
	AssessedAt        time.Time    `json:"assessed_at"`
}

// LanguageSignal is the result of the external free-text analysis of mood notes
type LanguageSignal struct {
	Score       float64  `json:"score"` // 0-100, higher = more concerning
	Concerns    []string `json:"concerns"`
	Explanation string   `json:"explanation"`
}
