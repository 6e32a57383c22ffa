// Package config loads the dastserver settings from .env and the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Render RenderConfig
}

type AppConfig struct {
	Port        string   `validate:"required,numeric"`
	Environment string   `validate:"oneof=development production test"`
	LogFilePath string   `validate:"required"`
	CorsOrigins []string `validate:"min=1,dive,required"`
}

type RenderConfig struct {
	RootTag      string        `validate:"required,alpha"`
	CacheTTL     time.Duration `validate:"gte=0"`
	MaxBodyBytes int64         `validate:"gt=0"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Load reads .env files (missing ones are ignored), then the environment,
// and validates the result.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	cfg := &Config{
		App: AppConfig{
			Port:        getEnv("DAST_PORT", "8080"),
			Environment: getEnv("DAST_ENV", "development"),
			LogFilePath: getEnv("DAST_LOG_FILE", "dastserver.log"),
			CorsOrigins: splitList(getEnv("DAST_CORS_ORIGINS", "*")),
		},
		Render: RenderConfig{
			RootTag:      getEnv("DAST_ROOT_TAG", "div"),
			CacheTTL:     getEnvAsDuration("DAST_CACHE_TTL", 5*time.Minute),
			MaxBodyBytes: int64(getEnvAsInt("DAST_MAX_BODY_BYTES", 2<<20)),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
