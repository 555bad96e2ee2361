// Package config loads application configuration from environment
// variables, with optional .env support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// StorageDriver selects the user record persistence backend.
type StorageDriver string

const (
	DriverFile     StorageDriver = "file"
	DriverPostgres StorageDriver = "postgres"
	DriverRedis    StorageDriver = "redis"
)

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// HTTP server
	HTTP HTTPConfig

	// User record persistence
	Storage StorageConfig

	// Course material
	Content ContentConfig

	// Observability
	Observability ObservabilityConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool
	Version     string

	// Timezone for calendar-day boundaries (streaks, daily activity).
	// Default: UTC.
	Timezone string
	Location *time.Location

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration
}

// HTTPConfig holds the HTTP server settings.
type HTTPConfig struct {
	Host string
	Port int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	EnableCORS     bool
	AllowedOrigins []string

	// Requests per minute per IP, 0 disables limiting.
	RateLimitPerMinute int
}

// StorageConfig holds the user record persistence settings.
type StorageConfig struct {
	// Driver selects the backend: file, postgres or redis.
	Driver StorageDriver

	// DataDir is used by the file driver.
	DataDir string

	// DatabaseURL is used by the postgres driver.
	DatabaseURL string

	// Redis settings, used by the redis driver.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// ContentConfig holds the course material settings.
type ContentConfig struct {
	// DataDir is the root of the content tree: chapter_<n>/ directories
	// and question_bank.json.
	DataDir string
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := Environment(getEnv("APP_ENV", "development"))
	dataDir := getEnv("DATA_DIR", "./data")

	timezone := getEnv("APP_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: unknown timezone %q: %w", timezone, err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", "cpa-path-hub"),
			Environment:     env,
			Debug:           env == EnvDevelopment || getEnvBool("APP_DEBUG", false),
			Version:         getEnv("APP_VERSION", "1.0.0"),
			Timezone:        timezone,
			Location:        loc,
			ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		HTTP: HTTPConfig{
			Host:               getEnv("HTTP_HOST", "0.0.0.0"),
			Port:               getEnvInt("PORT", 8000),
			ReadTimeout:        getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:       getEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:        getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			EnableCORS:         getEnvBool("HTTP_ENABLE_CORS", true),
			AllowedOrigins:     getEnvSlice("HTTP_ALLOWED_ORIGINS", []string{"*"}),
			RateLimitPerMinute: getEnvInt("HTTP_RATE_LIMIT_PER_MINUTE", 300),
		},
		Storage: StorageConfig{
			Driver:        StorageDriver(getEnv("STORAGE_DRIVER", string(DriverFile))),
			DataDir:       getEnv("STORAGE_DATA_DIR", dataDir),
			DatabaseURL:   getEnv("DATABASE_URL", ""),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Content: ContentConfig{
			DataDir: dataDir,
		},
		Observability: ObservabilityConfig{
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []string

	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.DataDir == "" {
			errs = append(errs, "STORAGE_DATA_DIR is required for the file driver")
		}
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres driver")
		}
	case DriverRedis:
		if c.Storage.RedisAddr == "" {
			errs = append(errs, "REDIS_ADDR is required for the redis driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown STORAGE_DRIVER %q (expected file, postgres or redis)", c.Storage.Driver))
	}

	if c.Content.DataDir == "" {
		errs = append(errs, "DATA_DIR is required")
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, "PORT must be 1-65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvSlice(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return defaultVal
	}
	return result
}
