package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds settings read from the environment. Command-line flags override them.
type Config struct {
	DBPath       string
	LogLevel     string
	LookbackDays int
	Tier         string
	HTTPTimeout  time.Duration
}

// Load reads an optional .env file from the working directory, then the
// CSMAPSTATS_* environment variables. envLoaded reports whether a .env was found.
func Load() (cfg *Config, envLoaded bool) {
	envLoaded = godotenv.Load() == nil

	cfg = &Config{
		DBPath:       getEnv("CSMAPSTATS_DB", filepath.Join(userHome(), ".csmapstats", "mapstats.db")),
		LogLevel:     getEnv("CSMAPSTATS_LOG_LEVEL", "info"),
		LookbackDays: getEnvInt("CSMAPSTATS_DAYS", 30),
		Tier:         "S",
		HTTPTimeout:  getEnvDuration("CSMAPSTATS_HTTP_TIMEOUT", 30*time.Second),
	}
	// An explicitly empty tier disables the filter.
	if v, ok := os.LookupEnv("CSMAPSTATS_TIER"); ok {
		cfg.Tier = v
	}
	return cfg, envLoaded
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
