package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-vendorsummary/internal/db"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last completed refresh",
	Long: `Show the metadata recorded by the last successful run: run id,
completion time, engine and row counts.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	conn, err := db.ConnectSingle(ctx, cfg.Connection, "status")
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	exists, err := db.MetadataExists(ctx, conn)
	if err != nil {
		return fmt.Errorf("failed to check metadata: %w", err)
	}
	if !exists {
		cmd.Println("No completed run recorded; run 'pgedge-vendorsummary run' first.")
		return nil
	}

	metadata, err := db.GetAllMetadata(ctx, conn)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cmd.Println("Last completed run:")
	for _, k := range keys {
		cmd.Printf("  %-14s %s\n", k, metadata[k])
	}
	return nil
}
