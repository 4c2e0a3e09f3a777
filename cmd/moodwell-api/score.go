package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/moodwell/backend/internal/analytics"
	"github.com/JonnyWalker81/moodwell/backend/internal/models"
	"github.com/JonnyWalker81/moodwell/backend/internal/service"
)

var scoreCmd = &cobra.Command{
	Use:   "score [file]",
	Short: "Score a JSON file of mood entries offline",
	Long: `Read mood entries (and optionally a goal and a language signal) from a JSON file, or
stdin when the file is "-" or omitted, and print the risk assessment, mood analytics, goal
evaluation and insights as JSON. Nothing is read from or written to the database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

var (
	scoreDays int
	scoreNow  string
)

func init() {
	scoreCmd.Flags().IntVar(&scoreDays, "days", 30, "Analytics window in days")
	scoreCmd.Flags().StringVar(&scoreNow, "now", "", "Reference time (RFC 3339); defaults to the input's now or the current time")
}

// scoreInput is the offline scoring document
type scoreInput struct {
	Now      *time.Time             `json:"now,omitempty"`
	Entries  []models.MoodEntry     `json:"entries"`
	Goal     *models.Goal           `json:"goal,omitempty"`
	Language *models.LanguageSignal `json:"language,omitempty"`
}

// scoreReport is everything the engine derives from a scoreInput
type scoreReport struct {
	Now           time.Time              `json:"now"`
	EntryCount    int                    `json:"entry_count"`
	Assessment    models.RiskAssessment  `json:"assessment"`
	Analytics     models.MoodAnalytics   `json:"analytics"`
	Goal          *models.GoalEvaluation `json:"goal,omitempty"`
	Insights      models.InsightReport   `json:"insights"`
	WeeklySummary models.WeeklySummary   `json:"weekly_summary"`
}

func runScore(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var in scoreInput
	if err := sonic.ConfigDefault.NewDecoder(r).Decode(&in); err != nil {
		return fmt.Errorf("failed to decode input: %w", err)
	}

	now := time.Now().UTC()
	switch {
	case scoreNow != "":
		t, err := time.Parse(time.RFC3339, scoreNow)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
		now = t
	case in.Now != nil:
		now = *in.Now
	}

	report := scoreEntries(in, now, scoreDays)

	enc := sonic.ConfigDefault.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// scoreEntries runs the scoring engine over in without any collaborators
func scoreEntries(in scoreInput, now time.Time, days int) scoreReport {
	if days <= 0 {
		days = 30
	}

	report := scoreReport{
		Now:           now,
		EntryCount:    len(in.Entries),
		Assessment:    analytics.AssessRisk(in.Entries, in.Language, now),
		Analytics:     service.BuildMoodAnalytics(in.Entries, now, days),
		Insights:      analytics.SummarizeInsights(in.Entries, now),
		WeeklySummary: analytics.WeeklyMoodSummary(in.Entries, now),
	}

	if in.Goal != nil {
		goal := *in.Goal
		if goal.Status == "" {
			goal.Status = models.GoalStatusActive
		}
		// Entries after now are outside every other window; keep the goal consistent
		eval := analytics.EvaluateGoal(goal, analytics.FilterWindow(in.Entries, now, 0), now)
		report.Goal = &eval
	}

	return report
}
