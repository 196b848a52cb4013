package config

import (
	"fmt"
	"os"

	"github.com/vitebski/mysql-duplicate-checker/internal/checks"
	"github.com/vitebski/mysql-duplicate-checker/pkg/models"
	"gopkg.in/yaml.v3"
)

// ChecksConfig is the top level of a checks file
type ChecksConfig struct {
	Version string        `yaml:"version"`
	Checks  []CheckConfig `yaml:"checks"`
}

// CheckConfig describes one duplicate check over one dataset
type CheckConfig struct {
	Name          string       `yaml:"name"`
	Source        SourceConfig `yaml:"source"`
	Columns       []string     `yaml:"columns,omitempty"`
	IgnoreColumns []string     `yaml:"ignore_columns,omitempty"`
	NToShow       *int         `yaml:"n_to_show,omitempty"`
	MaxRatio      *float64     `yaml:"max_ratio,omitempty"`
}

// SourceConfig points at a CSV file or a MySQL table
type SourceConfig struct {
	CSV         string   `yaml:"csv,omitempty"`
	Table       string   `yaml:"table,omitempty"`
	Index       string   `yaml:"index,omitempty"`
	Categorical []string `yaml:"categorical,omitempty"`
	NullValues  []string `yaml:"null_values,omitempty"`
	Limit       int      `yaml:"limit,omitempty"`
}

// Load reads and validates a checks file
func Load(path string) (*ChecksConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checks file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates checks file content
func Parse(data []byte) (*ChecksConfig, error) {
	var cfg ChecksConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse checks file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the file for structural mistakes before anything runs
func (c *ChecksConfig) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("checks file must declare a version")
	}
	if len(c.Checks) == 0 {
		return fmt.Errorf("checks file must declare at least one check")
	}

	names := make(map[string]bool, len(c.Checks))
	for i, check := range c.Checks {
		if check.Name == "" {
			return fmt.Errorf("check #%d has no name", i+1)
		}
		if names[check.Name] {
			return fmt.Errorf("check %q is declared more than once", check.Name)
		}
		names[check.Name] = true

		if (check.Source.CSV == "") == (check.Source.Table == "") {
			return fmt.Errorf("check %q must set exactly one of source.csv and source.table", check.Name)
		}
		if _, err := checks.NewColumnSelector(check.Columns, check.IgnoreColumns); err != nil {
			return fmt.Errorf("check %q: %w", check.Name, err)
		}
		if check.NToShow != nil && *check.NToShow < 0 {
			return fmt.Errorf("check %q: n_to_show must be non-negative", check.Name)
		}
		if check.MaxRatio != nil && (*check.MaxRatio < 0 || *check.MaxRatio > 1) {
			return fmt.Errorf("check %q: max_ratio must be between 0 and 1", check.Name)
		}
		if check.Source.Limit < 0 {
			return fmt.Errorf("check %q: source.limit must be non-negative", check.Name)
		}
	}
	return nil
}

// UsesMySQL reports whether any check reads a MySQL table
func (c *ChecksConfig) UsesMySQL() bool {
	for _, check := range c.Checks {
		if check.Source.Table != "" {
			return true
		}
	}
	return false
}

// Options converts the entry into DataDuplicates options. defaultNToShow
// applies when the entry leaves n_to_show unset.
func (c CheckConfig) Options(defaultNToShow int) checks.Config {
	cfg := checks.Config{
		Columns:       c.Columns,
		IgnoreColumns: c.IgnoreColumns,
		NToShow:       defaultNToShow,
	}
	if c.NToShow != nil {
		cfg.NToShow = *c.NToShow
	}
	return cfg
}

// Threshold returns the configured max_ratio or fallback
func (c CheckConfig) Threshold(fallback float64) float64 {
	if c.MaxRatio != nil {
		return *c.MaxRatio
	}
	return fallback
}

// CheckSource converts the source section into the shared model
func (s SourceConfig) CheckSource() models.CheckSource {
	return models.CheckSource{
		CSV:         s.CSV,
		Table:       s.Table,
		Index:       s.Index,
		Categorical: s.Categorical,
		NullValues:  s.NullValues,
		Limit:       s.Limit,
	}
}
