package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-vendorsummary/internal/logging"
	"github.com/pgEdge/pgedge-vendorsummary/internal/pipeline"
)

var (
	runEngine      string
	runPreviewRows int
	runSkipIngest  bool
	runDryRun      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Ingest the source CSVs and publish the vendor summary",
	Long: `Run the full refresh: every CSV in the source directory replaces the
raw table of the same name, the raw tables are aggregated per vendor and
brand, the metrics are derived, and vendor_sales_summary is replaced.

Example:
  pgedge-vendorsummary run --source-dir ./data --connection "postgres://..."
  pgedge-vendorsummary run --engine memory --preview-rows 10
  pgedge-vendorsummary run --skip-ingest --dry-run`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runEngine, "engine", "",
		"aggregation engine: sql or memory")
	runCmd.Flags().IntVar(&runPreviewRows, "preview-rows", -1,
		"number of leading rows to log after each stage")
	runCmd.Flags().BoolVar(&runSkipIngest, "skip-ingest", false,
		"reuse the raw tables already in the database")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false,
		"compute the summary without replacing vendor_sales_summary")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if runEngine != "" {
		cfg.Run.Engine = runEngine
	}
	if runPreviewRows >= 0 {
		cfg.Run.PreviewRows = runPreviewRows
	}
	if runSkipIngest {
		cfg.Run.SkipIngest = true
	}
	if runDryRun {
		cfg.Run.DryRun = true
	}

	// Validate configuration
	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := pipeline.Run(ctx, pipeline.Options{
		Connection:  cfg.Connection,
		SourceDir:   cfg.SourceDir,
		Engine:      cfg.Run.Engine,
		PreviewRows: cfg.Run.PreviewRows,
		SkipIngest:  cfg.Run.SkipIngest,
		DryRun:      cfg.Run.DryRun,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Vendor summary refresh failed")
		return err
	}

	cmd.Printf("Run %s: %d summary rows (%s engine, %s)\n",
		res.RunID, len(res.Summary), res.Engine, res.Elapsed.Round(time.Millisecond))
	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
