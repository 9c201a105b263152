//-------------------------------------------------------------------------
//
// pgEdge Vendor Summary
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package aggregate computes the grouped purchase, sales and freight join
// that feeds the vendor summary.
package aggregate

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pgEdge/pgedge-vendorsummary/internal/source"
	"github.com/pgEdge/pgedge-vendorsummary/pkg/vendorsummary"
)

// Row is one purchase group joined with its sales and freight totals.
// Sales and freight columns are NULL when no matching rows exist.
type Row struct {
	VendorNumber          pgtype.Int8
	VendorName            pgtype.Text
	Brand                 pgtype.Text
	Description           pgtype.Text
	PurchasePrice         pgtype.Float8
	ActualPrice           pgtype.Float8
	Volume                pgtype.Text
	TotalPurchaseQuantity pgtype.Float8
	TotalPurchaseDollars  pgtype.Float8
	TotalSalesQuantity    pgtype.Float8
	TotalSalesDollars     pgtype.Float8
	TotalSalesPrice       pgtype.Float8
	TotalExciseTax        pgtype.Float8
	FreightCost           pgtype.Float8
}

// Source is the read side of the tabular store.
type Source interface {
	TableExists(ctx context.Context, name string) (bool, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Engine computes the aggregation from the raw tables.
type Engine interface {
	// Name returns the engine name used in configuration.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Aggregate returns one Row per purchase group, sorted by
	// TotalPurchaseDollars descending.
	Aggregate(ctx context.Context, src Source) ([]Row, error)
}

// CheckTables verifies that every raw table the aggregation reads exists.
func CheckTables(ctx context.Context, src Source) error {
	for _, name := range source.RequiredTables {
		exists, err := src.TableExists(ctx, name)
		if err != nil {
			return classify(name, err)
		}
		if !exists {
			return &vendorsummary.DataSourceError{Table: name, Err: errors.New("table does not exist")}
		}
	}
	return nil
}

// classify maps a query failure to the error taxonomy. Network and
// connect failures belong to the store; anything else (a server error, a
// type mismatch, a value that will not parse) means the raw tables could
// not be read.
func classify(table string, err error) error {
	var netErr net.Error
	var connectErr *pgconn.ConnectError
	if errors.As(err, &netErr) || errors.As(err, &connectErr) {
		return &vendorsummary.StoreConnectionError{Op: "query " + table, Err: err}
	}
	return &vendorsummary.DataSourceError{Table: table, Err: err}
}
