//-------------------------------------------------------------------------
//
// pgEdge Vendor Summary
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-vendorsummary.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for pgedge-vendorsummary.
type Config struct {
	// Connection is the PostgreSQL connection string of the tabular store.
	Connection string `mapstructure:"connection"`

	// SourceDir is the directory scanned for CSV snapshots.
	SourceDir string `mapstructure:"source_dir"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// LogFile is an optional append-only log file.
	LogFile string `mapstructure:"log_file"`

	// Run holds configuration for the run subcommand.
	Run RunConfig `mapstructure:"run"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`
}

// RunConfig holds configuration for a summary refresh.
type RunConfig struct {
	// Engine selects the aggregation engine: "sql" or "memory".
	Engine string `mapstructure:"engine"`

	// PreviewRows is how many leading rows are logged after each stage.
	PreviewRows int `mapstructure:"preview_rows"`

	// SkipIngest reuses the raw tables already in the store.
	SkipIngest bool `mapstructure:"skip_ingest"`

	// DryRun computes the summary without replacing the output table.
	DryRun bool `mapstructure:"dry_run"`
}

// GenerateConfig holds configuration for synthetic CSV generation.
type GenerateConfig struct {
	// OutputDir is where the CSV files are written.
	OutputDir string `mapstructure:"output_dir"`

	// Vendors is the number of distinct vendors.
	Vendors int `mapstructure:"vendors"`

	// Brands is the number of distinct brands in the price list.
	Brands int `mapstructure:"brands"`

	// Purchases is the number of purchase lines.
	Purchases int `mapstructure:"purchases"`

	// Sales is the number of sale lines.
	Sales int `mapstructure:"sales"`

	// Seed makes generation reproducible when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		SourceDir: "data",
		LogLevel:  "info",
		Run: RunConfig{
			Engine:      "sql",
			PreviewRows: 5,
		},
		Generate: GenerateConfig{
			OutputDir: "data",
			Vendors:   20,
			Brands:    200,
			Purchases: 5000,
			Sales:     10000,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-vendorsummary.yaml
// 3. ~/.config/pgedge-vendorsummary/pgedge-vendorsummary.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-vendorsummary")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-vendorsummary"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateIngest checks configuration required for ingest command.
func (c *Config) ValidateIngest() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.SourceDir == "" {
		return fmt.Errorf("source directory is required")
	}
	return nil
}

// ValidateRun checks configuration required for run command.
func (c *Config) ValidateRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.Run.SkipIngest && c.SourceDir == "" {
		return fmt.Errorf("source directory is required unless skip_ingest is set")
	}
	if c.Run.Engine != "sql" && c.Run.Engine != "memory" {
		return fmt.Errorf("engine must be 'sql' or 'memory'")
	}
	if c.Run.PreviewRows < 0 {
		return fmt.Errorf("preview_rows must be non-negative")
	}
	return nil
}

// ValidateGenerate checks configuration required for generate command.
// No database connection is needed to generate CSV files.
func (c *Config) ValidateGenerate() error {
	if c.Generate.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Generate.Vendors < 1 {
		return fmt.Errorf("vendors must be at least 1")
	}
	if c.Generate.Brands < 1 {
		return fmt.Errorf("brands must be at least 1")
	}
	if c.Generate.Purchases < 0 || c.Generate.Sales < 0 {
		return fmt.Errorf("purchases and sales must be non-negative")
	}
	return nil
}
