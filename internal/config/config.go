// Package config provides configuration management for the fetch pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoSources            = errors.New("at least one source is required")
	ErrSourceMissingName    = errors.New("source name is required")
	ErrSourceMissingBaseURL = errors.New("base_url is required")
	ErrInvalidSourceKind    = errors.New("kind must be 'flat' or 'paginated'")
	ErrMissingGroupKeys     = errors.New("group_keys is required for paginated sources")
	ErrMissingValueField    = errors.New("value_field is required for paginated sources")
	ErrInvalidDedupRule     = errors.New("dedup must be 'first' or 'last'")
	ErrInvalidPageOrder     = errors.New("page_order must be 'given' or 'reversed'")
	ErrInvalidCoerceType    = errors.New("coerce type must be 'string' or 'number'")
	ErrNoEnabledSources     = errors.New("at least one source must be enabled")
	ErrInvalidTimeout       = errors.New("fetch.timeout_sec must be at least 1")
	ErrMissingOutputPath    = errors.New("output.base_path is required")
	ErrInvalidOutputFormat  = errors.New("output.format must be 'json', 'csv', or 'markdown'")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat     = errors.New("logging.format must be 'text' or 'json'")
	ErrParamMissingName     = errors.New("param name is required")
	ErrConflictingKeySource = errors.New("key_file and key_env are mutually exclusive")
)

// Config represents the complete pipeline configuration.
type Config struct {
	Fetch   FetchConfig    `yaml:"fetch"`
	Sources []SourceConfig `yaml:"sources"`
	Output  OutputConfig   `yaml:"output"`
	Logging LoggingConfig  `yaml:"logging"`
}

// FetchConfig contains HTTP client settings.
type FetchConfig struct {
	UserAgent  string `yaml:"user_agent"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// GetTimeout returns the client timeout duration.
func (f *FetchConfig) GetTimeout() time.Duration {
	return time.Duration(f.TimeoutSec) * time.Second
}

// ParamConfig is one query parameter. Parameters are an ordered list, not a
// mapping, so the encoded query is stable and a parameter literally named
// "for" needs no special casing.
type ParamConfig struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// SourceConfig represents one API source.
type SourceConfig struct {
	Name       string            `yaml:"name"`
	Kind       string            `yaml:"kind"`
	BaseURL    string            `yaml:"base_url"`
	Segments   []string          `yaml:"segments"`
	Params     []ParamConfig     `yaml:"params"`
	KeyFile    string            `yaml:"key_file"`
	KeyEnv     string            `yaml:"key_env"`
	GroupKeys  []string          `yaml:"group_keys"`
	ValueField string            `yaml:"value_field"`
	Dedup      string            `yaml:"dedup"`
	PageOrder  string            `yaml:"page_order"`
	SortBy     []string          `yaml:"sort_by"`
	Coerce     map[string]string `yaml:"coerce"`
	PerPage    int               `yaml:"per_page"`
	Enabled    bool              `yaml:"enabled"`
}

// IsPaginated returns true for paginated nested-record sources.
func (s *SourceConfig) IsPaginated() bool {
	return s.Kind == "paginated"
}

// OutputConfig defines where and how normalized tables are written.
type OutputConfig struct {
	BasePath string `yaml:"base_path"`
	Format   string `yaml:"format"`
	Sign     bool   `yaml:"sign"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves configuration to a YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	enabledCount := 0

	for i, src := range c.Sources {
		if err := src.validate(); err != nil {
			return fmt.Errorf("%w: source[%d]", err, i)
		}

		if src.Enabled {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledSources
	}

	if c.Fetch.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Output.BasePath == "" {
		return ErrMissingOutputPath
	}

	switch c.Output.Format {
	case "json", "csv", "markdown":
	default:
		return ErrInvalidOutputFormat
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

func (s *SourceConfig) validate() error {
	if s.Name == "" {
		return ErrSourceMissingName
	}

	if s.BaseURL == "" {
		return ErrSourceMissingBaseURL
	}

	if s.Kind != "flat" && s.Kind != "paginated" {
		return ErrInvalidSourceKind
	}

	if s.KeyFile != "" && s.KeyEnv != "" {
		return ErrConflictingKeySource
	}

	for _, p := range s.Params {
		if p.Name == "" {
			return ErrParamMissingName
		}
	}

	if s.IsPaginated() {
		if len(s.GroupKeys) == 0 {
			return ErrMissingGroupKeys
		}

		if s.ValueField == "" {
			return ErrMissingValueField
		}
	}

	switch s.Dedup {
	case "", "first", "last":
	default:
		return ErrInvalidDedupRule
	}

	switch s.PageOrder {
	case "", "given", "reversed":
	default:
		return ErrInvalidPageOrder
	}

	for column, typ := range s.Coerce {
		if typ != "string" && typ != "number" {
			return fmt.Errorf("%w: column %q", ErrInvalidCoerceType, column)
		}
	}

	return nil
}

// GetEnabledSources returns only enabled sources.
func (c *Config) GetEnabledSources() []SourceConfig {
	var enabled []SourceConfig

	for _, src := range c.Sources {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}

	return enabled
}

// GetSourceByName returns the named source, enabled or not.
func (c *Config) GetSourceByName(name string) (SourceConfig, bool) {
	for _, src := range c.Sources {
		if src.Name == name {
			return src, true
		}
	}

	return SourceConfig{}, false
}

// GetOutputPath follows the structure {base_path}/{source_name}/table.{ext}.
func (c *Config) GetOutputPath(sourceName string) string {
	ext := c.Output.Format
	if ext == "markdown" {
		ext = "md"
	}

	return fmt.Sprintf("%s/%s/table.%s", c.Output.BasePath, sourceName, ext)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Sources: %d, TimeoutSec: %d, Output: %s}",
		len(c.Sources),
		c.Fetch.TimeoutSec,
		c.Output.BasePath,
	)
}
