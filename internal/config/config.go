package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	LLM      LLMConfig
	Session  SessionConfig
	Planner  PlannerConfig
	App      AppConfig
}

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
	GenerateRatePerMin int
	GenerateBurst      int
}

type DatabaseConfig struct {
	URL         string
	AutoMigrate bool
}

type RedisConfig struct {
	URL string
}

type LLMConfig struct {
	Provider       string
	APIKey         string
	Model          string
	BaseURL        string
	RequestsPerSec float64
	Burst          int
}

type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

type PlannerConfig struct {
	CrewTimeout      time.Duration
	PlanTTL          time.Duration
	HistoryRetention time.Duration
	PurgeSchedule    string
	Timezone         string
}

type AppConfig struct {
	Environment        string
	LogLevel           string
	Version            string
	ExposeErrorDetails bool
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	provider := strings.ToLower(getEnv("LLM_PROVIDER", "openai"))

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
			GenerateRatePerMin: getEnvAsInt("GENERATE_RATE_PER_MIN", 6),
			GenerateBurst:      getEnvAsInt("GENERATE_BURST", 2),
		},
		Database: DatabaseConfig{
			URL:         os.Getenv("POSTGRES_URL"),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		LLM: LLMConfig{
			Provider:       provider,
			APIKey:         llmAPIKey(provider),
			Model:          llmModel(provider),
			BaseURL:        os.Getenv("OPENAI_BASE_URL"),
			RequestsPerSec: getEnvAsFloat("LLM_REQUESTS_PER_SEC", 2),
			Burst:          getEnvAsInt("LLM_BURST", 3),
		},
		Session: SessionConfig{
			Secret:     os.Getenv("SESSION_SECRET"),
			CookieName: getEnv("SESSION_COOKIE_NAME", "trip_session"),
			TTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			Secure:     getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Planner: PlannerConfig{
			CrewTimeout:      getEnvAsDuration("CREW_TIMEOUT", 5*time.Minute),
			PlanTTL:          getEnvAsDuration("PLAN_TTL", 24*time.Hour),
			HistoryRetention: getEnvAsDuration("PLAN_HISTORY_RETENTION", 30*24*time.Hour),
			PurgeSchedule:    getEnv("PLAN_PURGE_SCHEDULE", "0 0 3 * * *"),
			Timezone:         getEnv("TIMEZONE", "UTC"),
		},
		App: AppConfig{
			Environment:        getEnv("APP_ENV", "development"),
			LogLevel:           getEnv("LOG_LEVEL", "info"),
			Version:            getEnv("APP_VERSION", "1.0.0"),
			ExposeErrorDetails: getEnvAsBool("EXPOSE_ERROR_DETAILS", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("POSTGRES_URL is required")
	}
	switch c.LLM.Provider {
	case "openai":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when using OpenAI provider")
		}
	case "gemini":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when using Gemini provider")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}
	if len(c.Session.Secret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 characters")
	}
	if c.Planner.CrewTimeout <= 0 {
		return fmt.Errorf("CREW_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func llmAPIKey(provider string) string {
	if provider == "gemini" {
		return os.Getenv("GEMINI_API_KEY")
	}
	return os.Getenv("OPENAI_API_KEY")
}

func llmModel(provider string) string {
	if provider == "gemini" {
		return getEnv("GEMINI_MODEL", "gemini-1.5-flash")
	}
	return getEnv("OPENAI_MODEL", "gpt-4o-mini")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		zap.L().Warn("invalid integer, using default", zap.String("key", key), zap.Int("default", defaultValue))
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		zap.L().Warn("invalid float, using default", zap.String("key", key), zap.Float64("default", defaultValue))
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		zap.L().Warn("invalid boolean, using default", zap.String("key", key), zap.Bool("default", defaultValue))
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		zap.L().Warn("invalid duration, using default", zap.String("key", key), zap.Duration("default", defaultValue))
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
