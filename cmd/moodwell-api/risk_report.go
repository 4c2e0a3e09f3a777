package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/moodwell/backend/internal/config"
	"github.com/JonnyWalker81/moodwell/backend/internal/logger"
	"github.com/JonnyWalker81/moodwell/backend/internal/models"
	"github.com/JonnyWalker81/moodwell/backend/internal/repository"
	"github.com/JonnyWalker81/moodwell/backend/internal/service"
	"github.com/JonnyWalker81/moodwell/backend/pkg/supabase"
)

var riskReportCmd = &cobra.Command{
	Use:   "risk-report",
	Short: "Assess risk for several users concurrently",
	Long: `Assess the current risk of the given users (or the first --limit users when none are
given) with a bounded worker pool and print a JSON report.`,
	RunE: runRiskReport,
}

var (
	reportUsers         []string
	reportLimit         int
	reportAttentionOnly bool
)

func init() {
	riskReportCmd.Flags().StringSliceVarP(&reportUsers, "user", "u", nil, "User ID to assess (repeatable)")
	riskReportCmd.Flags().IntVar(&reportLimit, "limit", 100, "Number of users to assess when no --user is given")
	riskReportCmd.Flags().BoolVar(&reportAttentionOnly, "attention-only", false, "Only include users whose assessment requires attention")
}

// riskReportRow summarizes one user's assessment
type riskReportRow struct {
	UserID            string           `json:"user_id"`
	Score             float64          `json:"score"`
	RiskLevel         models.RiskLevel `json:"risk_level,omitempty"`
	RequiresAttention bool             `json:"requires_attention"`
	LanguageAvailable bool             `json:"language_available"`
	HasData           bool             `json:"has_data"`
	Error             string           `json:"error,omitempty"`
}

type riskReport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Assessed    int             `json:"assessed"`
	Failed      int             `json:"failed"`
	Attention   int             `json:"attention"`
	Users       []riskReportRow `json:"users"`
}

func runRiskReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// stdout carries the report
	setupLogger(cfg.Logging, os.Stderr)

	supabaseClient := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	entryRepo := repository.NewMoodEntryRepository(supabaseClient)
	userRepo := repository.NewUserRepository(supabaseClient)
	riskService := service.NewRiskService(entryRepo, newAnalyzer(cfg.LLM), service.RiskOptions{
		LanguageTimeout:  cfg.Analytics.LanguageTimeout,
		BatchConcurrency: cfg.Analytics.BatchConcurrency,
	})

	ctx := logger.WithFields(cmd.Context(), logger.String("job", "risk-report"))
	report, err := buildRiskReport(ctx, riskService, userRepo, reportUsers, reportLimit, reportAttentionOnly)
	if err != nil {
		return err
	}

	enc := sonic.ConfigDefault.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// buildRiskReport assesses userIDs, or the first limit users from users when userIDs is empty
func buildRiskReport(ctx context.Context, risk service.RiskService, users repository.UserRepository, userIDs []string, limit int, attentionOnly bool) (*riskReport, error) {
	if len(userIDs) == 0 {
		list, err := users.List(ctx, limit, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		for _, u := range list {
			userIDs = append(userIDs, u.ID)
		}
	}

	report := &riskReport{
		GeneratedAt: time.Now().UTC(),
		Users:       []riskReportRow{},
	}

	for _, res := range risk.AssessUsers(ctx, userIDs) {
		row := riskReportRow{UserID: res.UserID}
		if res.Err != nil {
			report.Failed++
			row.Error = res.Err.Error()
			logger.Ctx(ctx).Warn("risk assessment failed",
				logger.String("user_id", res.UserID),
				logger.Err(res.Err),
			)
			report.Users = append(report.Users, row)
			continue
		}

		a := res.Assessment
		report.Assessed++
		if a.RequiresAttention {
			report.Attention++
		} else if attentionOnly {
			continue
		}

		row.Score = a.Score
		row.RiskLevel = a.RiskLevel
		row.RequiresAttention = a.RequiresAttention
		row.LanguageAvailable = a.LanguageAvailable
		row.HasData = a.HasData
		report.Users = append(report.Users, row)
	}

	return report, nil
}
