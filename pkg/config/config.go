package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds configuration for the lesson-scheduler CLI and solver
// defaults. It is intentionally small: the solver itself is a library
// invoked with explicit SolveOptions, so Config only covers what the
// CLI needs to pick sane defaults without a flag on every invocation.
type Config struct {
	// AppEnv selects development vs production logging defaults.
	AppEnv   string
	LogLevel string

	// OutputDir is where generated fixtures are written by default.
	OutputDir string

	// DefaultSeed seeds generation when no --seed flag is given.
	DefaultSeed int64

	// CatalogPath is the SQLite database backing the fixture catalog.
	CatalogPath string

	// SolveTimeBudget bounds a single solve attempt.
	SolveTimeBudget time.Duration

	// Visualize mirrors the VISUALIZE environment variable: when true,
	// the solver publishes trace events to stderr as JSON lines.
	Visualize bool
}

// Load loads configuration from environment variables, optionally
// preceded by a local .env file (ignored if absent).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		OutputDir:       getEnv("LESSON_SCHEDULER_OUTPUT_DIR", "./fixtures"),
		DefaultSeed:     getInt64Env("LESSON_SCHEDULER_SEED", 1),
		CatalogPath:     getEnv("LESSON_SCHEDULER_CATALOG_PATH", defaultCatalogPath()),
		SolveTimeBudget: getDurationEnv("LESSON_SCHEDULER_SOLVE_BUDGET", 5*time.Second),
		Visualize:       getBoolEnv("VISUALIZE", false),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func defaultCatalogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lesson-scheduler/fixtures.db"
	}
	return filepath.Join(home, ".lesson-scheduler", "fixtures.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
