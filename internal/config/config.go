// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the ranking service.
type Config struct {
	Port              string
	DatabaseURL       string
	RedisURL          string
	RankIntervalHours int    // How often the rank cycle cron fires
	RankWorkers       int    // Concurrent (job, campaign) pairs per cycle
	WeightsFile       string // Optional JSON weight calibration file
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	interval := 6
	if s := os.Getenv("RANK_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("RANK_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		interval = v
	}

	workers := 4
	if s := os.Getenv("RANK_WORKERS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("RANK_WORKERS must be a positive integer, got %q", s)
		}
		workers = v
	}

	port := os.Getenv("RANKING_PORT")
	if port == "" {
		port = "8083"
	}

	return &Config{
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          redisURL,
		RankIntervalHours: interval,
		RankWorkers:       workers,
		WeightsFile:       os.Getenv("RANK_WEIGHTS_FILE"),
	}, nil
}
