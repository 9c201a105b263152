//-------------------------------------------------------------------------
//
// pgEdge Vendor Summary
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package aggregate

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// vendorSummarySQL groups freight per vendor, purchases per
// (vendor, brand, description, price, list price, volume) and sales per
// (vendor, brand), then left-joins sales and freight onto the purchase
// groups. Sums stay NUMERIC until the final projection so the float
// values are rounded exactly once. Text tie-breakers use the C collation
// to give a stable byte-wise order.
const vendorSummarySQL = `
WITH freight_summary AS (
    SELECT
        "VendorNumber",
        SUM("Freight") AS "FreightCost"
    FROM vendor_invoice
    GROUP BY "VendorNumber"
),

purchase_summary AS (
    SELECT
        p."VendorNumber",
        p."VendorName",
        p."Brand",
        p."Description",
        p."PurchasePrice",
        pp."Price" AS "ActualPrice",
        pp."Volume",
        SUM(p."Quantity") AS "TotalPurchaseQuantity",
        SUM(p."Dollars") AS "TotalPurchaseDollars"
    FROM purchases p
    JOIN purchase_prices pp
        ON p."Brand" = pp."Brand"
    WHERE p."PurchasePrice" > 0
    GROUP BY
        p."VendorNumber",
        p."VendorName",
        p."Brand",
        p."Description",
        p."PurchasePrice",
        pp."Price",
        pp."Volume"
),

sales_summary AS (
    SELECT
        "VendorNo",
        "Brand",
        SUM("SalesQuantity") AS "TotalSalesQuantity",
        SUM("SalesDollars") AS "TotalSalesDollars",
        SUM("SalesPrice") AS "TotalSalesPrice",
        SUM("ExciseTax") AS "TotalExciseTax"
    FROM sales
    GROUP BY "VendorNo", "Brand"
)

SELECT
    ps."VendorNumber",
    ps."VendorName",
    ps."Brand",
    ps."Description",
    ps."PurchasePrice"::float8,
    ps."ActualPrice"::float8,
    ps."Volume",
    ps."TotalPurchaseQuantity"::float8,
    ps."TotalPurchaseDollars"::float8,
    ss."TotalSalesQuantity"::float8,
    ss."TotalSalesDollars"::float8,
    ss."TotalSalesPrice"::float8,
    ss."TotalExciseTax"::float8,
    fs."FreightCost"::float8
FROM purchase_summary ps
LEFT JOIN sales_summary ss
    ON ps."VendorNumber" = ss."VendorNo"
    AND ps."Brand" = ss."Brand"
LEFT JOIN freight_summary fs
    ON ps."VendorNumber" = fs."VendorNumber"
ORDER BY
    ps."TotalPurchaseDollars" DESC NULLS LAST,
    ps."VendorNumber",
    ps."VendorName" COLLATE "C",
    ps."Brand" COLLATE "C",
    ps."Description" COLLATE "C",
    ps."PurchasePrice",
    ps."ActualPrice",
    ps."Volume" COLLATE "C"
`

// SQLEngine runs the aggregation as a single query inside the store.
type SQLEngine struct{}

// NewSQLEngine creates the SQL aggregation engine.
func NewSQLEngine() *SQLEngine {
	return &SQLEngine{}
}

// Name returns the engine name.
func (e *SQLEngine) Name() string {
	return "sql"
}

// Description returns a human-readable description.
func (e *SQLEngine) Description() string {
	return "Grouped CTE query executed by PostgreSQL"
}

// Aggregate runs the vendor summary query.
func (e *SQLEngine) Aggregate(ctx context.Context, src Source) ([]Row, error) {
	if err := CheckTables(ctx, src); err != nil {
		return nil, err
	}

	rows, err := src.Query(ctx, vendorSummarySQL)
	if err != nil {
		return nil, classify("vendor summary query", err)
	}

	result, err := pgx.CollectRows(rows, scanRow)
	if err != nil {
		return nil, classify("vendor summary query", err)
	}
	return result, nil
}

func scanRow(row pgx.CollectableRow) (Row, error) {
	var r Row
	err := row.Scan(
		&r.VendorNumber,
		&r.VendorName,
		&r.Brand,
		&r.Description,
		&r.PurchasePrice,
		&r.ActualPrice,
		&r.Volume,
		&r.TotalPurchaseQuantity,
		&r.TotalPurchaseDollars,
		&r.TotalSalesQuantity,
		&r.TotalSalesDollars,
		&r.TotalSalesPrice,
		&r.TotalExciseTax,
		&r.FreightCost,
	)
	return r, err
}
