//-------------------------------------------------------------------------
//
// pgEdge Vendor Summary
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package store implements the tabular store on PostgreSQL: whole-table
// replacement via COPY and read-query execution.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-vendorsummary/internal/db"
	"github.com/pgEdge/pgedge-vendorsummary/internal/logging"
	"github.com/pgEdge/pgedge-vendorsummary/pkg/vendorsummary"
)

// Store is a PostgreSQL-backed tabular store.
type Store struct {
	db db.DB
}

// New returns a store that issues all statements through d.
func New(d db.DB) *Store {
	return &Store{db: d}
}

// DB returns the underlying database handle.
func (s *Store) DB() db.DB {
	return s.db
}

// ReplaceTable drops the named table, recreates it with the given columns
// and bulk-loads rows with COPY. All three steps run in one transaction so
// a failure leaves the previous contents in place.
func (s *Store) ReplaceTable(ctx context.Context, table Table, rows pgx.CopyFromSource) (int64, error) {
	start := time.Now()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, &vendorsummary.StoreConnectionError{Op: "begin", Err: err}
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, table.DropSQL()); err != nil {
		return 0, &vendorsummary.StoreConnectionError{Op: "drop " + table.Name, Err: err}
	}
	if _, err := tx.Exec(ctx, table.CreateSQL()); err != nil {
		return 0, &vendorsummary.StoreConnectionError{Op: "create " + table.Name, Err: err}
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{table.Name}, table.ColumnNames(), &encodingSource{src: rows})
	if err != nil {
		// A source error surfaces through CopyFrom; keep its classification.
		if srcErr := rows.Err(); srcErr != nil {
			return 0, srcErr
		}
		return 0, &vendorsummary.StoreConnectionError{Op: "copy into " + table.Name, Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, &vendorsummary.StoreConnectionError{Op: "commit " + table.Name, Err: err}
	}

	logging.Debug().
		Str("table", table.Name).
		Int64("rows", n).
		Dur("elapsed", time.Since(start)).
		Msg("Replaced table")

	return n, nil
}

// TableExists reports whether a table of that name is visible in the
// current schema.
func (s *Store) TableExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_schema = current_schema() AND table_name = $1
        )
    `, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return exists, nil
}

// Query runs a read query.
func (s *Store) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return s.db.Query(ctx, sql, args...)
}

// encodingSource converts decimal values to pgtype.Numeric so NUMERIC
// columns receive exact values over the binary COPY protocol.
type encodingSource struct {
	src pgx.CopyFromSource
}

func (e *encodingSource) Next() bool { return e.src.Next() }

func (e *encodingSource) Err() error { return e.src.Err() }

func (e *encodingSource) Values() ([]any, error) {
	values, err := e.src.Values()
	if err != nil {
		return nil, err
	}
	out := make([]any, len(values))
	for i, v := range values {
		switch d := v.(type) {
		case decimal.Decimal:
			out[i] = NumericFromDecimal(d)
		case decimal.NullDecimal:
			if d.Valid {
				out[i] = NumericFromDecimal(d.Decimal)
			}
		default:
			out[i] = v
		}
	}
	return out, nil
}

// NumericFromDecimal converts a decimal to its exact pgtype.Numeric form.
func NumericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

// RecordRun saves the run metadata for a completed refresh.
func (s *Store) RecordRun(ctx context.Context, info db.RunInfo) error {
	if err := db.SaveRunMetadata(ctx, s.db, info); err != nil {
		return &vendorsummary.StoreConnectionError{Op: "save run metadata", Err: err}
	}
	return nil
}
