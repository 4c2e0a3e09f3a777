package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/moodwell/backend/internal/config"
	"github.com/JonnyWalker81/moodwell/backend/internal/handlers"
	"github.com/JonnyWalker81/moodwell/backend/internal/logger"
	"github.com/JonnyWalker81/moodwell/backend/internal/middleware"
	"github.com/JonnyWalker81/moodwell/backend/internal/repository"
	"github.com/JonnyWalker81/moodwell/backend/internal/service"
	"github.com/JonnyWalker81/moodwell/backend/pkg/supabase"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if port != "" {
		cfg.Server.Port = port
	}

	log := setupLogger(cfg.Logging, os.Stdout)
	log.Info("starting moodwell API server",
		logger.String("env", cfg.Server.Env),
		logger.String("version", version),
		logger.String("supabase_url", cfg.Supabase.URL),
		logger.Bool("language_analysis", cfg.LLM.Enabled()),
	)

	if err := handlers.RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	router := newRouter(cfg, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", logger.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// newRouter wires repositories, services and handlers onto a gin engine
func newRouter(cfg *config.Config, log logger.Logger) *gin.Engine {
	supabaseClient := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)

	// Initialize repositories
	entryRepo := repository.NewMoodEntryRepository(supabaseClient)
	goalRepo := repository.NewGoalRepository(supabaseClient)
	insightRepo := repository.NewInsightRepository(supabaseClient)
	idempotencyRepo := repository.NewIdempotencyRepository(supabaseClient)

	// Initialize services
	goalService := service.NewGoalService(goalRepo, entryRepo)
	insightService := service.NewInsightService(entryRepo, insightRepo, cfg.Analytics.InsightCacheDuration)
	entryService := service.NewMoodEntryService(entryRepo, goalService, insightService)
	analyticsService := service.NewAnalyticsService(entryRepo)
	riskService := service.NewRiskService(entryRepo, newAnalyzer(cfg.LLM), service.RiskOptions{
		LanguageTimeout:  cfg.Analytics.LanguageTimeout,
		BatchConcurrency: cfg.Analytics.BatchConcurrency,
	})

	routes := handlers.Routes{
		Entries:     handlers.NewMoodEntryHandler(entryService),
		Goals:       handlers.NewGoalHandler(goalService),
		Analytics:   handlers.NewAnalyticsHandler(analyticsService, riskService),
		Insights:    handlers.NewInsightsHandler(insightService),
		CreateEntry: []gin.HandlerFunc{middleware.Idempotency(idempotencyRepo)},
		Scoring:     []gin.HandlerFunc{middleware.UserRateLimit(cfg.Server.ScoringRateLimit, cfg.Server.RateLimitWindow, "scoring")},
	}

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(log))
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins()))
	router.Use(middleware.SecurityHeaders(cfg.Server.IsProduction()))
	router.Use(middleware.RateLimit(cfg.Server.RateLimit, cfg.Server.RateLimitWindow, "general"))

	router.GET("/health", handlers.Health(version))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(supabaseClient))
	routes.Register(v1)

	return router
}
