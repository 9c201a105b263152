//-------------------------------------------------------------------------
//
// pgEdge Vendor Summary
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package source

import "github.com/pgEdge/pgedge-vendorsummary/internal/store"

// Raw table names, one per input CSV.
const (
	PurchasesTable      = "purchases"
	PurchasePricesTable = "purchase_prices"
	SalesTable          = "sales"
	VendorInvoiceTable  = "vendor_invoice"
)

// RequiredTables lists the raw tables the aggregation reads.
var RequiredTables = []string{
	PurchasesTable,
	PurchasePricesTable,
	SalesTable,
	VendorInvoiceTable,
}

// knownColumns gives the required, typed columns of each known CSV.
// Any other column in the file is loaded as text.
var knownColumns = map[string][]store.Column{
	PurchasesTable: {
		{Name: "VendorNumber", Type: store.Integer},
		{Name: "VendorName", Type: store.Text},
		{Name: "Brand", Type: store.Text},
		{Name: "Description", Type: store.Text},
		{Name: "PurchasePrice", Type: store.Numeric},
		{Name: "Quantity", Type: store.Numeric},
		{Name: "Dollars", Type: store.Numeric},
	},
	PurchasePricesTable: {
		{Name: "Brand", Type: store.Text},
		{Name: "Price", Type: store.Numeric},
		{Name: "Volume", Type: store.Text},
	},
	SalesTable: {
		{Name: "VendorNo", Type: store.Integer},
		{Name: "Brand", Type: store.Text},
		{Name: "SalesQuantity", Type: store.Numeric},
		{Name: "SalesDollars", Type: store.Numeric},
		{Name: "SalesPrice", Type: store.Numeric},
		{Name: "ExciseTax", Type: store.Numeric},
	},
	VendorInvoiceTable: {
		{Name: "VendorNumber", Type: store.Integer},
		{Name: "Freight", Type: store.Numeric},
	},
}

// RequiredColumns returns the required columns of a known table, or nil
// for a table the pipeline does not read.
func RequiredColumns(table string) []store.Column {
	return knownColumns[table]
}
