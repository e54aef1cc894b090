package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var viewNamePrefixPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Regions:          append([]string(nil), DefaultRegions...),
		DefaultRegion:    defaultRegion,
		ViewNamePrefix:   defaultViewNamePrefix,
		MaxPagesPerQuery: defaultMaxPagesPerQuery,
	}
}

// loadJSONFromEnv decodes the JSON value of an environment variable into target.
// An unset variable leaves target untouched.
func loadJSONFromEnv(envKey string, target interface{}) error {
	value := os.Getenv(envKey)
	if value == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(value), target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", envKey, err)
	}
	return nil
}

// LoadConfig loads the configuration file at path on top of the defaults and
// applies environment overrides. An empty path means defaults only.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		slog.Debug("Read config file", "path", path, "content", string(data))

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	var regions []string
	if err := loadJSONFromEnv("RESOURCE_COUNT_REGIONS", &regions); err != nil {
		return nil, err
	}
	if regions != nil {
		cfg.Regions = regions
	}
	if region := os.Getenv("RESOURCE_COUNT_DEFAULT_REGION"); region != "" {
		cfg.DefaultRegion = region
	}
	if prefix := os.Getenv("RESOURCE_COUNT_VIEW_NAME_PREFIX"); prefix != "" {
		cfg.ViewNamePrefix = prefix
	}

	slog.Debug("Resolved config",
		"regions_count", len(cfg.Regions),
		"default_region", cfg.DefaultRegion,
		"view_name_prefix", cfg.ViewNamePrefix)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if len(cfg.Regions) == 0 {
		return fmt.Errorf("at least one region must be defined")
	}

	seen := make(map[string]bool)
	for i, region := range cfg.Regions {
		if region == "" {
			return fmt.Errorf("regions[%d]: region name is required", i)
		}
		if seen[region] {
			return fmt.Errorf("regions[%d]: duplicate region: %s", i, region)
		}
		seen[region] = true
	}

	if cfg.DefaultRegion == "" {
		return fmt.Errorf("default_region is required")
	}

	if len(cfg.ViewNamePrefix) > maxViewNamePrefixLen || !viewNamePrefixPattern.MatchString(cfg.ViewNamePrefix) {
		return fmt.Errorf("view_name_prefix must be 1-%d letters, digits or hyphens", maxViewNamePrefixLen)
	}

	if cfg.SearchPageSize < 0 || cfg.SearchPageSize > maxSearchPageSize {
		return fmt.Errorf("search_page_size must be between 0 and %d", maxSearchPageSize)
	}

	if cfg.MaxPagesPerQuery < 0 {
		return fmt.Errorf("max_pages_per_query must not be negative")
	}

	return nil
}
