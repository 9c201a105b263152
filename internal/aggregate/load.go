package aggregate

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-vendorsummary/internal/logging"
	"github.com/pgEdge/pgedge-vendorsummary/internal/source"
)

// NUMERIC columns are read as text so they can be parsed into exact
// decimals without an intermediate float.
const (
	selectPurchasesSQL = `
SELECT "VendorNumber", "VendorName", "Brand", "Description",
       "PurchasePrice"::text, "Quantity"::text, "Dollars"::text
FROM purchases`

	selectPurchasePricesSQL = `
SELECT "Brand", "Price"::text, "Volume"
FROM purchase_prices`

	selectSalesSQL = `
SELECT "VendorNo", "Brand",
       "SalesQuantity"::text, "SalesDollars"::text, "SalesPrice"::text, "ExciseTax"::text
FROM sales`

	selectInvoicesSQL = `
SELECT "VendorNumber", "Freight"::text
FROM vendor_invoice`
)

// LoadInput reads the four raw tables into memory.
func LoadInput(ctx context.Context, src Source) (Input, error) {
	var in Input
	var err error

	in.Purchases, err = load(ctx, src, source.PurchasesTable, selectPurchasesSQL, scanPurchase)
	if err != nil {
		return Input{}, err
	}
	in.PurchasePrices, err = load(ctx, src, source.PurchasePricesTable, selectPurchasePricesSQL, scanPurchasePrice)
	if err != nil {
		return Input{}, err
	}
	in.Sales, err = load(ctx, src, source.SalesTable, selectSalesSQL, scanSale)
	if err != nil {
		return Input{}, err
	}
	in.Invoices, err = load(ctx, src, source.VendorInvoiceTable, selectInvoicesSQL, scanInvoice)
	if err != nil {
		return Input{}, err
	}

	logging.Debug().
		Int("purchases", len(in.Purchases)).
		Int("purchase_prices", len(in.PurchasePrices)).
		Int("sales", len(in.Sales)).
		Int("invoices", len(in.Invoices)).
		Msg("Loaded raw tables")

	return in, nil
}

func load[T any](ctx context.Context, src Source, table, query string, fn pgx.RowToFunc[T]) ([]T, error) {
	rows, err := src.Query(ctx, query)
	if err != nil {
		return nil, classify(table, err)
	}
	out, err := pgx.CollectRows(rows, fn)
	if err != nil {
		return nil, classify(table, err)
	}
	return out, nil
}

func scanPurchase(row pgx.CollectableRow) (Purchase, error) {
	var p Purchase
	var price, qty, dollars pgtype.Text
	if err := row.Scan(&p.VendorNumber, &p.VendorName, &p.Brand, &p.Description, &price, &qty, &dollars); err != nil {
		return p, err
	}
	var err error
	if p.PurchasePrice, err = parseDecimal(price); err != nil {
		return p, err
	}
	if p.Quantity, err = parseDecimal(qty); err != nil {
		return p, err
	}
	p.Dollars, err = parseDecimal(dollars)
	return p, err
}

func scanPurchasePrice(row pgx.CollectableRow) (PurchasePrice, error) {
	var pp PurchasePrice
	var price pgtype.Text
	if err := row.Scan(&pp.Brand, &price, &pp.Volume); err != nil {
		return pp, err
	}
	var err error
	pp.Price, err = parseDecimal(price)
	return pp, err
}

func scanSale(row pgx.CollectableRow) (Sale, error) {
	var s Sale
	var qty, dollars, price, tax pgtype.Text
	if err := row.Scan(&s.VendorNo, &s.Brand, &qty, &dollars, &price, &tax); err != nil {
		return s, err
	}
	var err error
	if s.SalesQuantity, err = parseDecimal(qty); err != nil {
		return s, err
	}
	if s.SalesDollars, err = parseDecimal(dollars); err != nil {
		return s, err
	}
	if s.SalesPrice, err = parseDecimal(price); err != nil {
		return s, err
	}
	s.ExciseTax, err = parseDecimal(tax)
	return s, err
}

func scanInvoice(row pgx.CollectableRow) (Invoice, error) {
	var inv Invoice
	var freight pgtype.Text
	if err := row.Scan(&inv.VendorNumber, &freight); err != nil {
		return inv, err
	}
	var err error
	inv.Freight, err = parseDecimal(freight)
	return inv, err
}

func parseDecimal(t pgtype.Text) (decimal.NullDecimal, error) {
	if !t.Valid {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(t.String)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid numeric value %q: %w", t.String, err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
