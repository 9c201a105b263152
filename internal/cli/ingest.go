package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-vendorsummary/internal/db"
	"github.com/pgEdge/pgedge-vendorsummary/internal/logging"
	"github.com/pgEdge/pgedge-vendorsummary/internal/pipeline"
	"github.com/pgEdge/pgedge-vendorsummary/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the source CSVs into raw tables",
	Long: `Load every CSV file in the source directory into a table named after
the file, replacing any previous contents. The summary is not rebuilt.

Example:
  pgedge-vendorsummary ingest --source-dir ./data --connection "postgres://..."`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateIngest(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	conn, err := db.ConnectSingle(ctx, cfg.Connection, "ingest")
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	ingested, err := pipeline.Ingest(ctx, store.New(conn), cfg.SourceDir)
	if err != nil {
		logging.Error().Err(err).Msg("Ingest failed")
		return err
	}

	for _, t := range ingested {
		cmd.Printf("  %-20s %10d rows  %s\n", t.Table, t.Rows, t.Elapsed.Round(time.Millisecond))
	}
	return nil
}
