package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a series settings file.
func Load(path string) (*Series, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var series Series
	if err := yaml.Unmarshal(data, &series); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	setDefaults(&series)

	if err := validate(&series); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}

	return &series, nil
}

func setDefaults(series *Series) {
	series.Handle = strings.TrimPrefix(strings.TrimSpace(series.Handle), "@")
	series.Subreddit = strings.TrimPrefix(strings.TrimSpace(series.Subreddit), "/r/")

	if series.Table == "" {
		series.Table = strings.ToLower(series.Handle)
	}
	if series.DisplayName == "" {
		series.DisplayName = series.Handle
	}
	if series.Title == "" {
		series.Title = series.DisplayName
	}
}

func validate(series *Series) error {
	if series.Handle == "" {
		return fmt.Errorf("handle is required")
	}
	if series.Subreddit == "" {
		return fmt.Errorf("subreddit is required")
	}
	return nil
}
