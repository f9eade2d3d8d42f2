// Package config handles benchreport configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/benchlab/benchreport/pkg/classify"
	"github.com/benchlab/benchreport/pkg/errors"
	"github.com/benchlab/benchreport/pkg/logging"
	"github.com/benchlab/benchreport/pkg/organize"
	"github.com/benchlab/benchreport/pkg/report"
)

// Report format names.
const (
	FormatPDF      = "pdf"
	FormatMarkdown = "markdown"
)

// Config is the root configuration structure.
type Config struct {
	Report   ReportConfig   `yaml:"report"`
	Organize OrganizeConfig `yaml:"organize"`
	Logging  logging.Config `yaml:"logging"`
}

// ReportConfig holds report rendering settings.
type ReportConfig struct {
	Format string `yaml:"format"` // "pdf" or "markdown"
	Title  string `yaml:"title"`

	// InvertOrder lists bucket names whose item order is reversed
	// before layout (bottom-first presentation).
	InvertOrder []string `yaml:"invert_order"`

	// ShowLocalTime adds a site-local time line shifted by
	// LocalTimeOffsetHours from the recorded bench time.
	ShowLocalTime        bool `yaml:"show_local_time"`
	LocalTimeOffsetHours int  `yaml:"local_time_offset_hours"`

	Geometry report.Geometry `yaml:"geometry"`
}

// OrganizeConfig holds classification/scan settings.
type OrganizeConfig struct {
	ImageExtensions []string `yaml:"image_extensions"`
	MetadataDirs    []string `yaml:"metadata_dirs"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			Format:   FormatPDF,
			Title:    "Data Analysis Report",
			Geometry: report.DefaultGeometry(),
		},
		Organize: OrganizeConfig{
			ImageExtensions: classify.DefaultImageExtensions(),
			MetadataDirs:    organize.DefaultMetadataDirs(),
		},
		Logging: logging.DefaultConfig(),
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Report.Format != FormatPDF && c.Report.Format != FormatMarkdown {
		return errors.ValidationErrorf("BAD_FORMAT",
			"report format must be %q or %q, got %q", FormatPDF, FormatMarkdown, c.Report.Format)
	}
	if len(c.Organize.ImageExtensions) == 0 {
		return errors.ValidationError("NO_IMAGE_EXTS", "image extension set is empty")
	}
	return nil
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads config from path, or returns default if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if _, err := os.Stat("benchreport.yaml"); err == nil {
		return "benchreport.yaml"
	}
	if _, err := os.Stat(filepath.Join("config", "benchreport.yaml")); err == nil {
		return filepath.Join("config", "benchreport.yaml")
	}
	return "benchreport.yaml"
}

// InitConfig creates a default config file if it doesn't exist.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // Already exists
	}

	cfg := Default()
	return cfg.Save(path)
}
