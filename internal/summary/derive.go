//-------------------------------------------------------------------------
//
// pgEdge Vendor Summary
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package summary turns aggregation rows into the published vendor
// summary: cleaning, derived ratios and the replace-write of the table.
package summary

import (
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pgEdge/pgedge-vendorsummary/internal/aggregate"
)

// VendorSummary is one row of the published summary table. No field is
// ever NULL, NaN or infinite.
type VendorSummary struct {
	VendorNumber          int64
	VendorName            string
	Brand                 string
	Description           string
	PurchasePrice         float64
	ActualPrice           float64
	Volume                float64
	TotalPurchaseQuantity float64
	TotalPurchaseDollars  float64
	TotalSalesQuantity    float64
	TotalSalesDollars     float64
	TotalSalesPrice       float64
	TotalExciseTax        float64
	FreightCost           float64
	GrossProfit           float64
	ProfitMargin          float64
	StockTurnover         float64
	SalesToPurchaseRatio  float64
}

// Derive cleans each aggregation row and computes the derived metrics.
// Order is preserved.
func Derive(rows []aggregate.Row) []VendorSummary {
	out := make([]VendorSummary, len(rows))
	for i, r := range rows {
		out[i] = DeriveRow(r)
	}
	return out
}

// DeriveRow cleans one row: text is trimmed, Volume becomes a float,
// missing numbers become 0, and every ratio whose denominator is 0 is 0.
func DeriveRow(r aggregate.Row) VendorSummary {
	s := VendorSummary{
		VendorNumber:          r.VendorNumber.Int64,
		VendorName:            strings.TrimSpace(text(r.VendorName)),
		Brand:                 text(r.Brand),
		Description:           strings.TrimSpace(text(r.Description)),
		PurchasePrice:         num(r.PurchasePrice),
		ActualPrice:           num(r.ActualPrice),
		Volume:                volume(r.Volume),
		TotalPurchaseQuantity: num(r.TotalPurchaseQuantity),
		TotalPurchaseDollars:  num(r.TotalPurchaseDollars),
		TotalSalesQuantity:    num(r.TotalSalesQuantity),
		TotalSalesDollars:     num(r.TotalSalesDollars),
		TotalSalesPrice:       num(r.TotalSalesPrice),
		TotalExciseTax:        num(r.TotalExciseTax),
		FreightCost:           num(r.FreightCost),
	}

	s.GrossProfit = s.TotalSalesDollars - s.TotalPurchaseDollars
	s.ProfitMargin = ratio(s.GrossProfit, s.TotalSalesDollars) * 100
	s.StockTurnover = ratio(s.TotalSalesQuantity, s.TotalPurchaseQuantity)
	s.SalesToPurchaseRatio = ratio(s.TotalSalesDollars, s.TotalPurchaseDollars)
	return s
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return finite(num / den)
}

func text(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func num(f pgtype.Float8) float64 {
	if !f.Valid {
		return 0
	}
	return finite(f.Float64)
}

// volume parses the price list's Volume text. Values that are not numbers
// count as missing.
func volume(t pgtype.Text) float64 {
	if !t.Valid {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(t.String), 64)
	if err != nil {
		return 0
	}
	return finite(v)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
