package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/elliotBraem/near-protocol-rewards/validator"
	"github.com/pelletier/go-toml/v2"
)

type thresholdsFile struct {
	Thresholds validator.ThresholdOverrides `toml:"Thresholds"`
}

// ReadGitHubMetrics decodes a GitHub snapshot record from a JSON file
func ReadGitHubMetrics(path string) (validator.GitHubMetrics, error) {
	record := validator.GitHubMetrics{}
	err := readJSON(path, &record)

	return record, err
}

// ReadNearMetrics decodes a NEAR snapshot record from a JSON file
func ReadNearMetrics(path string) (validator.NearMetrics, error) {
	record := validator.NearMetrics{}
	err := readJSON(path, &record)

	return record, err
}

// ReadThresholdOverrides decodes the [Thresholds] table of a TOML file. An empty path means no overrides.
func ReadThresholdOverrides(path string) (validator.ThresholdOverrides, error) {
	if path == "" {
		return validator.ThresholdOverrides{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return validator.ThresholdOverrides{}, fmt.Errorf("failed to read thresholds file '%s': %w", path, err)
	}

	file := thresholdsFile{}
	err = toml.Unmarshal(data, &file)
	if err != nil {
		return validator.ThresholdOverrides{}, fmt.Errorf("failed to decode thresholds file '%s': %w", path, err)
	}

	return file.Thresholds, nil
}

func readJSON(path string, value interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read record file '%s': %w", path, err)
	}

	err = json.Unmarshal(data, value)
	if err != nil {
		return fmt.Errorf("failed to decode record file '%s': %w", path, err)
	}

	return nil
}
