package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/moodwell/backend/internal/config"
	"github.com/JonnyWalker81/moodwell/backend/internal/llm"
	"github.com/JonnyWalker81/moodwell/backend/internal/logger"
	"github.com/JonnyWalker81/moodwell/backend/internal/service"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

var rootCmd = &cobra.Command{
	Use:          "moodwell-api",
	Short:        "Moodwell API server",
	Long:         `A REST API server and scoring tools for the Moodwell mood tracking application.`,
	Version:      version,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(riskReportCmd)
}

// setupLogger builds the process logger and installs it as the default
func setupLogger(cfg config.LoggingConfig, out io.Writer) logger.Logger {
	l := logger.NewSlogLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Level),
		Format: cfg.Format,
		Output: out,
	})
	logger.SetDefault(l)
	return l
}

// newAnalyzer returns the language collaborator, or a no-op one when no API key is set
func newAnalyzer(cfg config.LLMConfig) service.LanguageAnalyzer {
	if !cfg.Enabled() {
		return llm.NoopAnalyzer{}
	}
	return llm.NewClient(llm.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
}
