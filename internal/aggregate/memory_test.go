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
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txt(s string) pgtype.Text { return pgtype.Text{String: s, Valid: true} }

func i8(n int64) pgtype.Int8 { return pgtype.Int8{Int64: n, Valid: true} }

func dec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func f8(f float64) pgtype.Float8 { return pgtype.Float8{Float64: f, Valid: true} }

func purchase(vendor int64, brand, price, qty, dollars string) Purchase {
	return Purchase{
		VendorNumber:  i8(vendor),
		VendorName:    txt("VENDOR"),
		Brand:         txt(brand),
		Description:   txt("Desc " + brand),
		PurchasePrice: dec(price),
		Quantity:      dec(qty),
		Dollars:       dec(dollars),
	}
}

func price(brand, p, volume string) PurchasePrice {
	return PurchasePrice{Brand: txt(brand), Price: dec(p), Volume: txt(volume)}
}

func sale(vendor int64, brand, qty, dollars, unitPrice, tax string) Sale {
	return Sale{
		VendorNo:      i8(vendor),
		Brand:         txt(brand),
		SalesQuantity: dec(qty),
		SalesDollars:  dec(dollars),
		SalesPrice:    dec(unitPrice),
		ExciseTax:     dec(tax),
	}
}

func TestAggregateWorkedExample(t *testing.T) {
	rows := Aggregate(Input{
		Purchases:      []Purchase{purchase(1, "A", "10", "5", "50")},
		PurchasePrices: []PurchasePrice{price("A", "12", "750")},
		Sales:          []Sale{sale(1, "A", "3", "36", "12", "0.5")},
	})

	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, i8(1), r.VendorNumber)
	assert.Equal(t, txt("A"), r.Brand)
	assert.Equal(t, f8(10), r.PurchasePrice)
	assert.Equal(t, f8(12), r.ActualPrice)
	assert.Equal(t, txt("750"), r.Volume)
	assert.Equal(t, f8(5), r.TotalPurchaseQuantity)
	assert.Equal(t, f8(50), r.TotalPurchaseDollars)
	assert.Equal(t, f8(3), r.TotalSalesQuantity)
	assert.Equal(t, f8(36), r.TotalSalesDollars)
	assert.Equal(t, f8(12), r.TotalSalesPrice)
	assert.Equal(t, f8(0.5), r.TotalExciseTax)
	assert.False(t, r.FreightCost.Valid, "no invoice rows means NULL freight")
}

func TestAggregateExcludesNonPositivePurchasePrice(t *testing.T) {
	noPrice := purchase(1, "A", "1", "1", "1")
	noPrice.PurchasePrice = decimal.NullDecimal{}

	rows := Aggregate(Input{
		Purchases: []Purchase{
			purchase(1, "A", "0", "5", "50"),
			purchase(1, "A", "-2", "5", "50"),
			noPrice,
		},
		PurchasePrices: []PurchasePrice{price("A", "12", "750")},
	})

	assert.Empty(t, rows)
}

func TestAggregateInnerJoinsPriceList(t *testing.T) {
	rows := Aggregate(Input{
		Purchases: []Purchase{
			purchase(1, "A", "10", "5", "50"),
			purchase(1, "B", "10", "5", "50"),
		},
		PurchasePrices: []PurchasePrice{price("A", "12", "750")},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, txt("A"), rows[0].Brand)
}

func TestAggregateGroupsAndSums(t *testing.T) {
	rows := Aggregate(Input{
		Purchases: []Purchase{
			purchase(1, "A", "9.28", "2", "18.56"),
			purchase(1, "A", "9.280", "3", "27.84"),
			purchase(1, "A", "8.00", "1", "8.00"),
		},
		PurchasePrices: []PurchasePrice{price("A", "12.99", "750")},
	})

	require.Len(t, rows, 2, "same price with different scale groups together")
	assert.Equal(t, f8(9.28), rows[0].PurchasePrice)
	assert.Equal(t, f8(5), rows[0].TotalPurchaseQuantity)
	assert.Equal(t, f8(46.4), rows[0].TotalPurchaseDollars)
	assert.Equal(t, f8(8), rows[1].PurchasePrice)
}

func TestAggregateDuplicatePriceRowsSplitGroups(t *testing.T) {
	rows := Aggregate(Input{
		Purchases: []Purchase{purchase(1, "A", "10", "5", "50")},
		PurchasePrices: []PurchasePrice{
			price("A", "12", "750"),
			price("A", "12", "1000"),
		},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, txt("1000"), rows[0].Volume)
	assert.Equal(t, txt("750"), rows[1].Volume)
	for _, r := range rows {
		assert.Equal(t, f8(50), r.TotalPurchaseDollars)
	}
}

func TestAggregateLeftJoinCompleteness(t *testing.T) {
	rows := Aggregate(Input{
		Purchases: []Purchase{
			purchase(1, "A", "10", "5", "50"),
			purchase(1, "B", "10", "5", "60"),
			purchase(2, "A", "10", "5", "70"),
		},
		PurchasePrices: []PurchasePrice{
			price("A", "12", "750"),
			price("B", "14", "1750"),
		},
		Sales: []Sale{
			sale(1, "B", "2", "28", "14", "0.1"),
			sale(1, "B", "1", "14", "14", "0.1"),
			sale(3, "A", "9", "99", "11", "1"),
		},
		Invoices: []Invoice{
			{VendorNumber: i8(1), Freight: dec("1.25")},
			{VendorNumber: i8(1), Freight: dec("2.50")},
			{VendorNumber: i8(9), Freight: dec("100")},
		},
	})

	require.Len(t, rows, 3)

	byKey := make(map[[2]string]Row)
	for _, r := range rows {
		key := [2]string{decimal.NewFromInt(r.VendorNumber.Int64).String(), r.Brand.String}
		_, dup := byKey[key]
		assert.False(t, dup, "group %v appears more than once", key)
		byKey[key] = r
	}

	b1 := byKey[[2]string{"1", "B"}]
	assert.Equal(t, f8(3), b1.TotalSalesQuantity)
	assert.Equal(t, f8(42), b1.TotalSalesDollars)
	assert.Equal(t, f8(28), b1.TotalSalesPrice, "sales price is summed, not averaged")
	assert.Equal(t, f8(3.75), b1.FreightCost)

	a1 := byKey[[2]string{"1", "A"}]
	assert.False(t, a1.TotalSalesDollars.Valid)
	assert.Equal(t, f8(3.75), a1.FreightCost)

	a2 := byKey[[2]string{"2", "A"}]
	assert.False(t, a2.TotalSalesDollars.Valid)
	assert.False(t, a2.FreightCost.Valid)
}

func TestAggregateSortOrder(t *testing.T) {
	nullDollars := purchase(5, "A", "10", "1", "0")
	nullDollars.Dollars = decimal.NullDecimal{}

	rows := Aggregate(Input{
		Purchases: []Purchase{
			nullDollars,
			purchase(3, "A", "10", "1", "20"),
			purchase(1, "A", "10", "1", "100"),
			purchase(2, "B", "10", "1", "20"),
			purchase(2, "A", "10", "1", "20"),
		},
		PurchasePrices: []PurchasePrice{
			price("A", "12", "750"),
			price("B", "12", "750"),
		},
	})

	require.Len(t, rows, 5)
	got := make([][2]any, len(rows))
	for i, r := range rows {
		got[i] = [2]any{r.VendorNumber.Int64, r.Brand.String}
	}
	assert.Equal(t, [][2]any{
		{int64(1), "A"},
		{int64(2), "A"},
		{int64(2), "B"},
		{int64(3), "A"},
		{int64(5), "A"},
	}, got)

	for i := 1; i < len(rows)-1; i++ {
		assert.GreaterOrEqual(t, rows[i-1].TotalPurchaseDollars.Float64, rows[i].TotalPurchaseDollars.Float64)
	}
	assert.False(t, rows[4].TotalPurchaseDollars.Valid, "NULL totals sort last")
}

func TestAggregateNullSumsStayNull(t *testing.T) {
	p := purchase(1, "A", "10", "5", "50")
	p.Quantity = decimal.NullDecimal{}

	rows := Aggregate(Input{
		Purchases:      []Purchase{p},
		PurchasePrices: []PurchasePrice{price("A", "12", "750")},
		Invoices:       []Invoice{{VendorNumber: i8(1)}},
	})

	require.Len(t, rows, 1)
	assert.False(t, rows[0].TotalPurchaseQuantity.Valid)
	assert.False(t, rows[0].FreightCost.Valid, "freight of only NULLs is NULL")
}

func TestAggregateEmptyInput(t *testing.T) {
	rows := Aggregate(Input{})
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestAggregateIsDeterministic(t *testing.T) {
	in := Input{
		Purchases: []Purchase{
			purchase(2, "B", "10", "1", "20"),
			purchase(1, "A", "10", "1", "20"),
			purchase(3, "C", "10", "1", "20"),
		},
		PurchasePrices: []PurchasePrice{
			price("A", "12", "750"),
			price("B", "12", "750"),
			price("C", "12", "750"),
		},
	}

	first := Aggregate(in)
	in.Purchases[0], in.Purchases[2] = in.Purchases[2], in.Purchases[0]
	second := Aggregate(in)

	assert.Equal(t, first, second)
}
