//go:build integration
// +build integration

// Integration tests for the PostgreSQL store.
// Run with: go test -tags=integration ./internal/store/...
// Set PGEDGE_TEST_CONN to override the connection string, or
// PGEDGE_TEST_CONTAINERS=1 to start a disposable container.

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-vendorsummary/internal/db"
	"github.com/pgEdge/pgedge-vendorsummary/internal/store"
	"github.com/pgEdge/pgedge-vendorsummary/internal/testutil"
	"github.com/pgEdge/pgedge-vendorsummary/pkg/vendorsummary"
)

var invoiceTable = store.Table{
	Name: "vendor_invoice",
	Columns: []store.Column{
		{Name: "VendorNumber", Type: store.Integer},
		{Name: "Freight", Type: store.Numeric},
	},
}

type failingSource struct {
	pgx.CopyFromSource
	err error
}

func (f *failingSource) Err() error { return f.err }

func setup(t *testing.T) (context.Context, *store.Store, *pgx.Conn) {
	t.Helper()
	base := testutil.SkipIfNoPostgres(t)
	connStr := testutil.CreateTestDB(t, base, "store")
	conn := testutil.ConnectTestDB(t, connStr)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)
	return ctx, store.New(conn), conn
}

func TestReplaceTable(t *testing.T) {
	ctx, s, conn := setup(t)

	exists, err := s.TableExists(ctx, invoiceTable.Name)
	require.NoError(t, err)
	assert.False(t, exists)

	n, err := s.ReplaceTable(ctx, invoiceTable, pgx.CopyFromRows([][]any{
		{int64(1), decimal.RequireFromString("1.10")},
		{int64(1), decimal.RequireFromString("2.20")},
		{int64(2), nil},
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	exists, err = s.TableExists(ctx, invoiceTable.Name)
	require.NoError(t, err)
	assert.True(t, exists)

	var total string
	require.NoError(t, conn.QueryRow(ctx, `SELECT SUM("Freight")::text FROM vendor_invoice`).Scan(&total))
	assert.Equal(t, "3.30", total, "NUMERIC values are stored exactly")

	// A second replace discards the previous contents.
	n, err = s.ReplaceTable(ctx, invoiceTable, pgx.CopyFromRows([][]any{
		{int64(9), decimal.RequireFromString("5")},
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var count int
	require.NoError(t, conn.QueryRow(ctx, `SELECT count(*) FROM vendor_invoice`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestReplaceTableFailureKeepsPreviousContents(t *testing.T) {
	ctx, s, conn := setup(t)

	_, err := s.ReplaceTable(ctx, invoiceTable, pgx.CopyFromRows([][]any{
		{int64(1), decimal.RequireFromString("1")},
	}))
	require.NoError(t, err)

	srcErr := &vendorsummary.SourceReadError{Path: "vendor_invoice.csv", Line: 3, Err: errors.New("bad row")}
	_, err = s.ReplaceTable(ctx, invoiceTable, &failingSource{
		CopyFromSource: pgx.CopyFromRows([][]any{}),
		err:            srcErr,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, vendorsummary.ErrSourceRead)

	var count int
	require.NoError(t, conn.QueryRow(ctx, `SELECT count(*) FROM vendor_invoice`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRecordRun(t *testing.T) {
	ctx, s, conn := setup(t)

	exists, err := db.MetadataExists(ctx, conn)
	require.NoError(t, err)
	assert.False(t, exists)

	runID := uuid.New()
	require.NoError(t, s.RecordRun(ctx, db.RunInfo{
		RunID:       runID,
		Engine:      "sql",
		SourceDir:   "data",
		RawTables:   4,
		SummaryRows: 12,
		FinishedAt:  time.Now(),
	}))

	metadata, err := db.GetAllMetadata(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, runID.String(), metadata["last_run_id"])
	assert.Equal(t, "sql", metadata["engine"])
	assert.Equal(t, "12", metadata["summary_rows"])

	// A later run overwrites the previous values.
	require.NoError(t, s.RecordRun(ctx, db.RunInfo{RunID: uuid.New(), Engine: "memory", FinishedAt: time.Now()}))
	engine, err := db.GetMetadataValue(ctx, conn, "engine")
	require.NoError(t, err)
	assert.Equal(t, "memory", engine)
}
