// Package config provides configuration management for the UF scraper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"ufscraper/pkg/utils"
)

// DefaultURL is the Banco Central de Chile page publishing the daily UF table.
const DefaultURL = "https://si3.bcentral.cl/Siete/ES/Siete/Cuadro/CAP_PRECIOS/MN_CAP_PRECIOS/UF_IVP_DIARIO/UF_IVP_DIARIO"

// EnvPrefix prefixes every environment override, e.g. UF_SOURCE_URL.
const EnvPrefix = "UF"

// Configuration validation errors.
var (
	ErrSourceMissingURLOrFile = errors.New("source.url or source.file is required")
	ErrSourceBothURLAndFile   = errors.New("source.url and source.file are mutually exclusive")
	ErrInvalidSourceURL       = errors.New("source.url must be an absolute http, https or file URL")
	ErrMissingSeriesLabel     = errors.New("series.label is required")
	ErrMissingOutputPath      = errors.New("output.path is required")
	ErrInvalidTimeout         = errors.New("http.timeout_sec must be at least 1")
	ErrInvalidBufferSize      = errors.New("http.buffer_size_kb must be at least 1")
	ErrInvalidLogLevel        = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat       = errors.New("logging.format must be 'text' or 'json'")
)

// Config represents the complete scraper configuration.
// Leaf fields must not carry envconfig tags: envconfig falls back to the bare
// tag name (PATH, FILE, ...) when the prefixed variable is unset.
type Config struct {
	Source  SourceConfig  `yaml:"source" envconfig:"SOURCE"`
	Series  SeriesConfig  `yaml:"series" envconfig:"SERIES"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	HTTP    HTTPConfig    `yaml:"http" envconfig:"HTTP"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// SourceConfig points at the page holding the series table.
type SourceConfig struct {
	URL  string `yaml:"url"`
	File string `yaml:"file"`
}

// IsLocalFile returns true if this source uses a local file.
func (s *SourceConfig) IsLocalFile() bool {
	return s.File != ""
}

// GetSource returns the file path if local, or URL if remote.
func (s *SourceConfig) GetSource() string {
	if s.IsLocalFile() {
		return s.File
	}

	return s.URL
}

// SeriesConfig selects the series row and the non-date columns.
type SeriesConfig struct {
	Label          string   `yaml:"label"`
	ExcludeColumns []string `yaml:"exclude_columns" split_words:"true"`
}

// OutputConfig defines output behavior.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// HTTPConfig bounds the single fetch of the source page.
type HTTPConfig struct {
	UserAgent    string `yaml:"user_agent" split_words:"true"`
	TimeoutSec   int    `yaml:"timeout_sec" split_words:"true"`
	BufferSizeKb int    `yaml:"buffer_size_kb" split_words:"true"`
}

// GetTimeout returns the timeout duration.
func (h *HTTPConfig) GetTimeout() time.Duration {
	return time.Duration(h.TimeoutSec) * time.Second
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file or environment is given.
func Default() *Config {
	return &Config{
		Source: SourceConfig{URL: DefaultURL},
		Series: SeriesConfig{
			Label:          "Unidad de fomento",
			ExcludeColumns: []string{"Serie", "Sel."},
		},
		Output: OutputConfig{Path: "data/uf.json"},
		HTTP: HTTPConfig{
			TimeoutSec:   30,
			BufferSizeKb: 4096,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// UF_* environment variables, in that order of precedence.
func Load(filepath string) (*Config, error) {
	cfg := Default()

	if filepath != "" {
		if err := cfg.loadFile(filepath); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.preferLocalFile()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(filepath string) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// preferLocalFile drops the default URL once a local file has been configured.
func (c *Config) preferLocalFile() {
	if c.Source.File != "" && c.Source.URL == DefaultURL {
		c.Source.URL = ""
	}
}

// SetSource points the config at a URL or a local file, replacing the other.
func (c *Config) SetSource(url, file string) {
	switch {
	case file != "":
		c.Source = SourceConfig{File: file}
	case url != "":
		c.Source = SourceConfig{URL: url}
	}
}

// SaveConfig saves configuration to YAML file.
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
	// Exactly one of URL or File
	if c.Source.URL == "" && c.Source.File == "" {
		return ErrSourceMissingURLOrFile
	}

	if c.Source.URL != "" && c.Source.File != "" {
		return ErrSourceBothURLAndFile
	}

	if c.Source.URL != "" && !utils.IsValidURL(c.Source.URL) {
		return fmt.Errorf("%w: %q", ErrInvalidSourceURL, c.Source.URL)
	}

	if strings.TrimSpace(c.Series.Label) == "" {
		return ErrMissingSeriesLabel
	}

	if c.Output.Path == "" {
		return ErrMissingOutputPath
	}

	if c.HTTP.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.HTTP.BufferSizeKb < 1 {
		return ErrInvalidBufferSize
	}

	// Validate logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Source: %s, Series: %q, Output: %s}",
		c.Source.GetSource(),
		c.Series.Label,
		c.Output.Path,
	)
}
