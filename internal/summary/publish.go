//-------------------------------------------------------------------------
//
// pgEdge Vendor Summary
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package summary

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-vendorsummary/internal/logging"
	"github.com/pgEdge/pgedge-vendorsummary/internal/store"
)

// TableName is the published summary table.
const TableName = "vendor_sales_summary"

// Table is the layout of the published summary, in column order.
var Table = store.Table{
	Name: TableName,
	Columns: []store.Column{
		{Name: "VendorNumber", Type: store.Integer},
		{Name: "VendorName", Type: store.Text},
		{Name: "Brand", Type: store.Text},
		{Name: "Description", Type: store.Text},
		{Name: "PurchasePrice", Type: store.Float},
		{Name: "ActualPrice", Type: store.Float},
		{Name: "Volume", Type: store.Float},
		{Name: "TotalPurchaseQuantity", Type: store.Float},
		{Name: "TotalPurchaseDollars", Type: store.Float},
		{Name: "TotalSalesQuantity", Type: store.Float},
		{Name: "TotalSalesDollars", Type: store.Float},
		{Name: "TotalSalesPrice", Type: store.Float},
		{Name: "TotalExciseTax", Type: store.Float},
		{Name: "FreightCost", Type: store.Float},
		{Name: "GrossProfit", Type: store.Float},
		{Name: "ProfitMargin", Type: store.Float},
		{Name: "StockTurnover", Type: store.Float},
		{Name: "SalesToPurchaseRatio", Type: store.Float},
	},
}

// Replacer replaces a whole table in the tabular store.
type Replacer interface {
	ReplaceTable(ctx context.Context, table store.Table, rows pgx.CopyFromSource) (int64, error)
}

// Values returns the row in Table column order.
func (s VendorSummary) Values() []any {
	return []any{
		s.VendorNumber,
		s.VendorName,
		s.Brand,
		s.Description,
		s.PurchasePrice,
		s.ActualPrice,
		s.Volume,
		s.TotalPurchaseQuantity,
		s.TotalPurchaseDollars,
		s.TotalSalesQuantity,
		s.TotalSalesDollars,
		s.TotalSalesPrice,
		s.TotalExciseTax,
		s.FreightCost,
		s.GrossProfit,
		s.ProfitMargin,
		s.StockTurnover,
		s.SalesToPurchaseRatio,
	}
}

// Publish replaces the summary table with rows, discarding its previous
// contents.
func Publish(ctx context.Context, r Replacer, rows []VendorSummary) (int64, error) {
	values := make([][]any, len(rows))
	for i, row := range rows {
		values[i] = row.Values()
	}

	n, err := r.ReplaceTable(ctx, Table, pgx.CopyFromRows(values))
	if err != nil {
		return 0, err
	}

	logging.Info().
		Str("table", TableName).
		Int64("rows", n).
		Msg("Published vendor summary")

	return n, nil
}

// LogPreview logs the first n rows at info level.
func LogPreview(stage string, rows []VendorSummary, n int) {
	for i := 0; i < n && i < len(rows); i++ {
		r := rows[i]
		logging.Info().
			Str("stage", stage).
			Int("row", i).
			Int64("vendor_number", r.VendorNumber).
			Str("vendor_name", r.VendorName).
			Str("brand", r.Brand).
			Str("description", r.Description).
			Float64("total_purchase_dollars", r.TotalPurchaseDollars).
			Float64("total_sales_dollars", r.TotalSalesDollars).
			Float64("freight_cost", r.FreightCost).
			Float64("gross_profit", r.GrossProfit).
			Float64("profit_margin", r.ProfitMargin).
			Float64("stock_turnover", r.StockTurnover).
			Float64("sales_to_purchase_ratio", r.SalesToPurchaseRatio).
			Msg("Preview")
	}
}
