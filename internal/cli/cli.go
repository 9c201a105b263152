//-------------------------------------------------------------------------
//
// pgEdge Vendor Summary
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-vendorsummary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-vendorsummary/internal/aggregate"
	"github.com/pgEdge/pgedge-vendorsummary/internal/config"
	"github.com/pgEdge/pgedge-vendorsummary/internal/logging"
	"github.com/pgEdge/pgedge-vendorsummary/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	sourceDir  string
	logLevel   string
	logFile    string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-vendorsummary",
		Short: "Vendor sales summary pipeline for PostgreSQL",
		Long: `pgedge-vendorsummary loads purchase, price, sales and freight CSV
snapshots into PostgreSQL, aggregates them per vendor and brand, derives
profitability metrics and publishes the result as the vendor_sales_summary
table.

Each run replaces the raw tables and the summary table wholesale; running
it twice on the same inputs produces the same summary.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	defer logging.Close()
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-vendorsummary.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&sourceDir, "source-dir", "",
		"directory containing the source CSV files")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"append log events to this file")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(enginesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if sourceDir != "" {
		cfg.SourceDir = sourceDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}

	// Reinitialize logger with config
	return logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
		File:   cfg.LogFile,
	})
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List available aggregation engines",
	Long: `List the aggregation engines that can be selected with
'pgedge-vendorsummary run --engine'. Every engine produces the same
summary; they differ in where the grouping runs.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available aggregation engines:")
		cmd.Println()
		for _, name := range aggregate.List() {
			engine, err := aggregate.Get(name)
			if err != nil {
				continue
			}
			cmd.Printf("  %-8s - %s\n", name, engine.Description())
		}
	},
}
