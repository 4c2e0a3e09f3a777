package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every nested key, e.g. MOODWELL_ANALYTICS_BATCH_CONCURRENCY
const EnvPrefix = "MOODWELL"

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Supabase  SupabaseConfig  `mapstructure:"supabase"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port             string        `mapstructure:"port"`
	Env              string        `mapstructure:"env"`
	CORSOrigins      string        `mapstructure:"cors_origins"`
	RateLimit        int           `mapstructure:"rate_limit"`
	RateLimitWindow  time.Duration `mapstructure:"rate_limit_window"`
	ScoringRateLimit int           `mapstructure:"scoring_rate_limit"`
}

// IsProduction reports whether the server runs in production mode
func (s ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

// AllowedOrigins splits the comma-separated CORS origin list
func (s ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(s.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// SupabaseConfig holds Supabase-specific configuration
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// LLMConfig configures the language analysis collaborator. An empty APIKey disables it.
type LLMConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether a language analyzer should be wired
func (l LLMConfig) Enabled() bool {
	return l.APIKey != ""
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AnalyticsConfig tunes the scoring services
type AnalyticsConfig struct {
	InsightCacheDuration time.Duration `mapstructure:"insight_cache_duration"`
	BatchConcurrency     int           `mapstructure:"batch_concurrency"`
	LanguageTimeout      time.Duration `mapstructure:"language_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.cors_origins", "")
	v.SetDefault("server.rate_limit", 120)
	v.SetDefault("server.rate_limit_window", time.Minute)
	// per user, for risk assessments and insight refreshes
	v.SetDefault("server.scoring_rate_limit", 20)

	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.service_key", "")

	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("analytics.insight_cache_duration", 6*time.Hour)
	v.SetDefault("analytics.batch_concurrency", 4)
	v.SetDefault("analytics.language_timeout", 10*time.Second)
}

// Load reads configuration from .env, environment variables and an optional config.yaml.
// It does not validate; callers that need the backend call Validate.
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also bind to non-prefixed environment variables for backward compatibility
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("supabase.url", EnvPrefix+"_SUPABASE_URL", "SUPABASE_URL")
	_ = v.BindEnv("supabase.service_key", EnvPrefix+"_SUPABASE_SERVICE_KEY", "SUPABASE_SERVICE_KEY")
	_ = v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("logging.level", EnvPrefix+"_LOGGING_LEVEL", "LOG_LEVEL")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// Validate checks that all required configuration values are present and sane
func (c *Config) Validate() error {
	var errs []error
	if c.Supabase.URL == "" {
		errs = append(errs, errors.New("SUPABASE_URL is required"))
	}
	if c.Supabase.ServiceKey == "" {
		errs = append(errs, errors.New("SUPABASE_SERVICE_KEY is required"))
	}
	if c.Server.RateLimit <= 0 || c.Server.ScoringRateLimit <= 0 || c.Server.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("server rate limits and window must be positive"))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		errs = append(errs, fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format))
	}
	if c.Analytics.BatchConcurrency < 1 {
		errs = append(errs, errors.New("analytics.batch_concurrency must be at least 1"))
	}
	if c.Analytics.InsightCacheDuration <= 0 {
		errs = append(errs, errors.New("analytics.insight_cache_duration must be positive"))
	}
	if c.Analytics.LanguageTimeout <= 0 {
		errs = append(errs, errors.New("analytics.language_timeout must be positive"))
	}
	return errors.Join(errs...)
}
