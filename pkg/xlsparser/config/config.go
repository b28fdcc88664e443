// Package config loads xlsparser settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. XLSPARSER_SHEET.
const EnvPrefix = "XLSPARSER"

// DefaultSheet is the gross production sheet of the monthly reports.
const DefaultSheet = "לוח 2 ייצור ברוטו בפועל "

// Config holds all xlsparser settings.
type Config struct {
	// Sheet is a sheet name or 0-based index.
	Sheet string `yaml:"sheet" envconfig:"SHEET"`
	// Mapping is the path of the name to category mapping (.csv, .xlsx or .json).
	Mapping string `yaml:"mapping" envconfig:"MAPPING"`
	// Aliases is an optional YAML file of alias: canonical name.
	Aliases string `yaml:"aliases" envconfig:"ALIASES"`
	// AliasesInline are merged over the aliases file.
	AliasesInline map[string]string `yaml:"aliases_inline" ignored:"true"`
	// Skip lists names excluded from aggregation and reconciliation.
	Skip []string `yaml:"skip" envconfig:"SKIP"`
	// SearchWindow bounds the anchor search, in A1 notation.
	SearchWindow string `yaml:"search_window" envconfig:"SEARCH_WINDOW"`
	// InputRoot and OutputRoot drive output path derivation.
	InputRoot  string `yaml:"input_root" envconfig:"INPUT_ROOT"`
	OutputRoot string `yaml:"output_root" envconfig:"OUTPUT_ROOT"`
	// DuplicateColumns is "overwrite" or "error".
	DuplicateColumns string `yaml:"duplicate_columns" envconfig:"DUPLICATE_COLUMNS"`
	// OddLength is "error" or "truncate".
	OddLength string `yaml:"odd_length" envconfig:"ODD_LENGTH"`
	// ReportExt is the extension of the report file.
	ReportExt string `yaml:"report_ext" envconfig:"REPORT_EXT"`
}

// DefaultConfig returns the settings used when no file or environment overrides exist.
func DefaultConfig() *Config {
	return &Config{
		Sheet:            DefaultSheet,
		Mapping:          "inputs/mapping/mapping.csv",
		SearchWindow:     "A1:AY51",
		InputRoot:        "inputs",
		OutputRoot:       "outputs",
		DuplicateColumns: "overwrite",
		OddLength:        "error",
		ReportExt:        ".report",
	}
}

// Load starts from DefaultConfig, overlays the YAML file at path when path is
// non-empty, then applies XLSPARSER_* environment variables.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.DuplicateColumns {
	case "overwrite", "error":
	default:
		return fmt.Errorf("invalid duplicate_columns: %s (must be overwrite or error)", c.DuplicateColumns)
	}
	switch c.OddLength {
	case "error", "truncate":
	default:
		return fmt.Errorf("invalid odd_length: %s (must be error or truncate)", c.OddLength)
	}
	if c.Mapping == "" {
		return fmt.Errorf("mapping path is required")
	}
	return nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
