// Package config reads runtime settings from the environment. Call
// godotenv.Load before Load to pick up a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DuongTienDung77/Ultra8K/internal/keys"
)

type Config struct {
	// HomeDir holds keys.json and the gallery database.
	HomeDir string

	LogLevel string

	PreferIPv4    bool
	HTTPTimeout   time.Duration
	GeminiBaseURL string

	Autosave bool
	Parallel int
}

func Load() (Config, error) {
	cfg := Config{
		HomeDir:       strings.TrimSpace(getEnv("ULTRA8K_HOME", "")),
		LogLevel:      strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		PreferIPv4:    getEnvBool("PREFER_IPV4", true),
		HTTPTimeout:   time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		GeminiBaseURL: strings.TrimSpace(getEnv("GEMINI_BASE_URL", "")),
		Autosave:      getEnvBool("ULTRA8K_AUTOSAVE", false),
		Parallel:      getEnvInt("ULTRA8K_PARALLEL", 2),
	}

	if cfg.HomeDir == "" {
		dir, err := keys.DefaultDir()
		if err != nil {
			return Config{}, fmt.Errorf("failed to locate config directory: %w", err)
		}
		cfg.HomeDir = dir
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
