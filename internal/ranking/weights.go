package ranking

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Weights maps a factor name to its non-negative numeric weight.
// Weight totals are free to vary per campaign: the maximum attainable
// rank score is the sum of whatever weights are actually in play, so
// percentage-of-max must always be derived from that sum at display time.
type Weights map[string]float64

// calibrationConfig is the JSON structure of the weight calibration file.
type calibrationConfig struct {
	Version string             `json:"version"`
	Weights map[string]float64 `json:"weights"`
}

// DefaultWeights returns the system-wide default weight table.
// Skills and salary dominate by default; campaigns override per factor.
func DefaultWeights() Weights {
	w := make(Weights, len(factors))
	for _, f := range factors {
		w[f.name] = f.defaultWeight
	}
	return w
}

// LoadWeights loads the default weight table, optionally overridden per
// factor by a JSON calibration file. A missing or unreadable file degrades
// to pure defaults with a warning — calibration is deploy-time tuning, not
// a hard dependency.
func LoadWeights(filePath string) (Weights, error) {
	defaults := DefaultWeights()
	if filePath == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read weight calibration file, using defaults",
			"path", filePath, "error", err)
		return defaults, fmt.Errorf("read calibration file: %w", err)
	}

	var cfg calibrationConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		slog.Warn("failed to parse weight calibration file, using defaults",
			"path", filePath, "error", err)
		return defaults, fmt.Errorf("parse calibration file: %w", err)
	}

	for name, w := range cfg.Weights {
		if _, known := defaults[name]; !known {
			slog.Warn("calibration file names unknown factor, ignoring",
				"path", filePath, "factor", name)
			continue
		}
		if w < 0 {
			slog.Warn("calibration file has negative weight, ignoring",
				"path", filePath, "factor", name, "weight", w)
			continue
		}
		defaults[name] = w
	}

	return defaults, nil
}
