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
	"cmp"
	"context"
	"slices"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Purchase is one purchase line.
type Purchase struct {
	VendorNumber  pgtype.Int8
	VendorName    pgtype.Text
	Brand         pgtype.Text
	Description   pgtype.Text
	PurchasePrice decimal.NullDecimal
	Quantity      decimal.NullDecimal
	Dollars       decimal.NullDecimal
}

// PurchasePrice is one entry of the brand price list.
type PurchasePrice struct {
	Brand  pgtype.Text
	Price  decimal.NullDecimal
	Volume pgtype.Text
}

// Sale is one sale line.
type Sale struct {
	VendorNo      pgtype.Int8
	Brand         pgtype.Text
	SalesQuantity decimal.NullDecimal
	SalesDollars  decimal.NullDecimal
	SalesPrice    decimal.NullDecimal
	ExciseTax     decimal.NullDecimal
}

// Invoice is one vendor invoice.
type Invoice struct {
	VendorNumber pgtype.Int8
	Freight      decimal.NullDecimal
}

// Input holds the four raw tables.
type Input struct {
	Purchases      []Purchase
	PurchasePrices []PurchasePrice
	Sales          []Sale
	Invoices       []Invoice
}

// MemoryEngine reads the raw tables and aggregates them in Go.
type MemoryEngine struct{}

// NewMemoryEngine creates the in-memory aggregation engine.
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{}
}

// Name returns the engine name.
func (e *MemoryEngine) Name() string {
	return "memory"
}

// Description returns a human-readable description.
func (e *MemoryEngine) Description() string {
	return "Raw tables loaded into memory and grouped with exact decimal sums"
}

// Aggregate loads the raw tables and aggregates them.
func (e *MemoryEngine) Aggregate(ctx context.Context, src Source) ([]Row, error) {
	if err := CheckTables(ctx, src); err != nil {
		return nil, err
	}
	in, err := LoadInput(ctx, src)
	if err != nil {
		return nil, err
	}
	return Aggregate(in), nil
}

// sum is a nullable running total with SQL SUM semantics: NULL inputs are
// skipped and the total stays NULL until a non-NULL value arrives.
type sum struct {
	v decimal.NullDecimal
}

func (s *sum) add(d decimal.NullDecimal) {
	if !d.Valid {
		return
	}
	if !s.v.Valid {
		s.v = d
		return
	}
	s.v.Decimal = s.v.Decimal.Add(d.Decimal)
}

// nullKey is a comparable form of a nullable value for use in map keys.
type nullKey struct {
	valid bool
	s     string
	n     int64
}

func textKey(t pgtype.Text) nullKey { return nullKey{valid: t.Valid, s: t.String} }
func intKey(i pgtype.Int8) nullKey { return nullKey{valid: i.Valid, n: i.Int64} }
func decKey(d decimal.NullDecimal) nullKey {
	if !d.Valid {
		return nullKey{}
	}
	return nullKey{valid: true, s: d.Decimal.String()}
}

type purchaseKey struct {
	vendorNumber  nullKey
	vendorName    nullKey
	brand         nullKey
	description   nullKey
	purchasePrice nullKey
	actualPrice   nullKey
	volume        nullKey
}

type vendorBrand struct {
	vendor int64
	brand  string
}

type purchaseGroup struct {
	vendorNumber  pgtype.Int8
	vendorName    pgtype.Text
	brand         pgtype.Text
	description   pgtype.Text
	purchasePrice decimal.NullDecimal
	actualPrice   decimal.NullDecimal
	volume        pgtype.Text
	quantity      sum
	dollars       sum
}

type salesGroup struct {
	quantity  sum
	dollars   sum
	price     sum
	exciseTax sum
}

// Aggregate groups the raw tables the same way the SQL engine does:
// freight per vendor, purchases joined to the price list and grouped by
// the seven-column key, sales per (vendor, brand), then lookups for the
// two left joins.
func Aggregate(in Input) []Row {
	freight := make(map[int64]*sum)
	for _, inv := range in.Invoices {
		if !inv.VendorNumber.Valid {
			continue
		}
		acc, ok := freight[inv.VendorNumber.Int64]
		if !ok {
			acc = &sum{}
			freight[inv.VendorNumber.Int64] = acc
		}
		acc.add(inv.Freight)
	}

	prices := make(map[string][]PurchasePrice)
	for _, pp := range in.PurchasePrices {
		if pp.Brand.Valid {
			prices[pp.Brand.String] = append(prices[pp.Brand.String], pp)
		}
	}

	groups := make(map[purchaseKey]*purchaseGroup)
	var order []*purchaseGroup
	for _, p := range in.Purchases {
		if !p.Brand.Valid || !p.PurchasePrice.Valid || !p.PurchasePrice.Decimal.IsPositive() {
			continue
		}
		for _, pp := range prices[p.Brand.String] {
			key := purchaseKey{
				vendorNumber:  intKey(p.VendorNumber),
				vendorName:    textKey(p.VendorName),
				brand:         textKey(p.Brand),
				description:   textKey(p.Description),
				purchasePrice: decKey(p.PurchasePrice),
				actualPrice:   decKey(pp.Price),
				volume:        textKey(pp.Volume),
			}
			g, ok := groups[key]
			if !ok {
				g = &purchaseGroup{
					vendorNumber:  p.VendorNumber,
					vendorName:    p.VendorName,
					brand:         p.Brand,
					description:   p.Description,
					purchasePrice: p.PurchasePrice,
					actualPrice:   pp.Price,
					volume:        pp.Volume,
				}
				groups[key] = g
				order = append(order, g)
			}
			g.quantity.add(p.Quantity)
			g.dollars.add(p.Dollars)
		}
	}

	sales := make(map[vendorBrand]*salesGroup)
	for _, s := range in.Sales {
		if !s.VendorNo.Valid || !s.Brand.Valid {
			continue
		}
		key := vendorBrand{vendor: s.VendorNo.Int64, brand: s.Brand.String}
		acc, ok := sales[key]
		if !ok {
			acc = &salesGroup{}
			sales[key] = acc
		}
		acc.quantity.add(s.SalesQuantity)
		acc.dollars.add(s.SalesDollars)
		acc.price.add(s.SalesPrice)
		acc.exciseTax.add(s.ExciseTax)
	}

	slices.SortStableFunc(order, comparePurchaseGroups)

	rows := make([]Row, 0, len(order))
	for _, g := range order {
		row := Row{
			VendorNumber:          g.vendorNumber,
			VendorName:            g.vendorName,
			Brand:                 g.brand,
			Description:           g.description,
			PurchasePrice:         toFloat(g.purchasePrice),
			ActualPrice:           toFloat(g.actualPrice),
			Volume:                g.volume,
			TotalPurchaseQuantity: toFloat(g.quantity.v),
			TotalPurchaseDollars:  toFloat(g.dollars.v),
		}
		if g.vendorNumber.Valid {
			if s, ok := sales[vendorBrand{vendor: g.vendorNumber.Int64, brand: g.brand.String}]; ok {
				row.TotalSalesQuantity = toFloat(s.quantity.v)
				row.TotalSalesDollars = toFloat(s.dollars.v)
				row.TotalSalesPrice = toFloat(s.price.v)
				row.TotalExciseTax = toFloat(s.exciseTax.v)
			}
			if f, ok := freight[g.vendorNumber.Int64]; ok {
				row.FreightCost = toFloat(f.v)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func toFloat(d decimal.NullDecimal) pgtype.Float8 {
	if !d.Valid {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: d.Decimal.InexactFloat64(), Valid: true}
}

// comparePurchaseGroups orders by total purchase dollars descending with
// NULLs last, then by the grouping key ascending with NULLs last.
func comparePurchaseGroups(a, b *purchaseGroup) int {
	if c := compareNull(a.dollars.v.Valid, b.dollars.v.Valid); c != 0 {
		return c
	}
	if a.dollars.v.Valid {
		if c := b.dollars.v.Decimal.Cmp(a.dollars.v.Decimal); c != 0 {
			return c
		}
	}
	if c := compareInt(a.vendorNumber, b.vendorNumber); c != 0 {
		return c
	}
	if c := compareText(a.vendorName, b.vendorName); c != 0 {
		return c
	}
	if c := compareText(a.brand, b.brand); c != 0 {
		return c
	}
	if c := compareText(a.description, b.description); c != 0 {
		return c
	}
	if c := compareDecimal(a.purchasePrice, b.purchasePrice); c != 0 {
		return c
	}
	if c := compareDecimal(a.actualPrice, b.actualPrice); c != 0 {
		return c
	}
	return compareText(a.volume, b.volume)
}

// compareNull orders a valid value before a NULL one. It returns 0 when
// both are valid or both are NULL.
func compareNull(aValid, bValid bool) int {
	switch {
	case aValid == bValid:
		return 0
	case aValid:
		return -1
	default:
		return 1
	}
}

// compareInt compares ascending with NULLs last.
func compareInt(a, b pgtype.Int8) int {
	if c := compareNull(a.Valid, b.Valid); c != 0 || !a.Valid {
		return c
	}
	return cmp.Compare(a.Int64, b.Int64)
}

// compareDecimal compares ascending with NULLs last.
func compareDecimal(a, b decimal.NullDecimal) int {
	if c := compareNull(a.Valid, b.Valid); c != 0 || !a.Valid {
		return c
	}
	return a.Decimal.Cmp(b.Decimal)
}

// compareText compares byte-wise ascending with NULLs last.
func compareText(a, b pgtype.Text) int {
	if c := compareNull(a.Valid, b.Valid); c != 0 || !a.Valid {
		return c
	}
	return cmp.Compare(a.String, b.String)
}
