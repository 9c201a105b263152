//-------------------------------------------------------------------------
//
// pgEdge Vendor Summary
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen generates synthetic source CSV files for the vendor
// summary pipeline.
package datagen

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-vendorsummary/internal/source"
)

// Config controls the size and shape of the generated data.
type Config struct {
	OutputDir string
	Vendors   int
	Brands    int
	Purchases int
	Sales     int

	// Seed makes the output reproducible. Zero picks a random seed.
	Seed uint64

	// ProgressInterval is how often to log progress (in rows).
	ProgressInterval int64
}

// Every zeroPriceEvery-th purchase line has a zero unit price and every
// unknownVolumeEvery-th brand has a non-numeric volume, so generated data
// always exercises the price filter and the volume coercion.
const (
	zeroPriceEvery     = 50
	unknownVolumeEvery = 40
)

var (
	volumes       = []string{"50", "375", "750", "1000", "1750"}
	volumeWeights = []int{10, 15, 50, 15, 10}

	periodStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
)

type vendor struct {
	number int64
	name   string
}

type brand struct {
	id          string
	description string
	volume      string
	price       decimal.Decimal
	cost        decimal.Decimal
	vendor      vendor
}

// GeneratedFile describes one written CSV.
type GeneratedFile struct {
	Table string
	Path  string
	Rows  int64
	Bytes int64
}

// Generate writes purchases.csv, purchase_prices.csv, sales.csv and
// vendor_invoice.csv to cfg.OutputDir. Vendors, brands and prices are
// consistent across the four files.
func Generate(ctx context.Context, cfg Config) ([]GeneratedFile, error) {
	if cfg.Vendors < 1 || cfg.Brands < 1 {
		return nil, fmt.Errorf("at least one vendor and one brand are required")
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = 100000
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	f := NewFaker()
	if cfg.Seed != 0 {
		f = NewFakerWithSeed(cfg.Seed)
	}

	vendors := make([]vendor, cfg.Vendors)
	for i := range vendors {
		vendors[i] = vendor{number: int64(1000 + i*7), name: f.VendorName()}
	}

	brands := make([]brand, cfg.Brands)
	for i := range brands {
		price := f.Money(5, 80)
		volume := ChooseWeighted(f, volumes, volumeWeights)
		if i%unknownVolumeEvery == unknownVolumeEvery-1 {
			volume = "Unknown"
		}
		brands[i] = brand{
			id:          strconv.Itoa(100 + i),
			description: fmt.Sprintf("%s %smL", f.ProductName(), volume),
			volume:      volume,
			price:       price,
			cost:        price.Mul(decimal.NewFromFloat(f.Float64(0.55, 0.85))).Round(2),
			vendor:      Choose(f, vendors),
		}
	}

	g := &generator{cfg: cfg, faker: f, vendors: vendors, brands: brands}

	steps := []struct {
		table string
		fn    func(context.Context, *csv.Writer, *ProgressReporter) error
		total int64
	}{
		{source.PurchasePricesTable, g.writePrices, int64(len(brands))},
		{source.PurchasesTable, g.writePurchases, int64(cfg.Purchases)},
		{source.SalesTable, g.writeSales, int64(cfg.Sales)},
		{source.VendorInvoiceTable, g.writeInvoices, int64(len(vendors))},
	}

	files := make([]GeneratedFile, 0, len(steps))
	for _, s := range steps {
		gf, err := g.writeFile(ctx, s.table, s.total, s.fn)
		if err != nil {
			return nil, err
		}
		files = append(files, gf)
	}
	return files, nil
}

type generator struct {
	cfg     Config
	faker   *Faker
	vendors []vendor
	brands  []brand
}

func (g *generator) writeFile(
	ctx context.Context,
	table string,
	total int64,
	fn func(context.Context, *csv.Writer, *ProgressReporter) error,
) (GeneratedFile, error) {
	path := filepath.Join(g.cfg.OutputDir, table+".csv")
	out, err := os.Create(path)
	if err != nil {
		return GeneratedFile{}, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	progress := NewProgressReporter(table, total, g.cfg.ProgressInterval)
	if err := fn(ctx, w, progress); err != nil {
		return GeneratedFile{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return GeneratedFile{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return GeneratedFile{}, fmt.Errorf("failed to close %s: %w", path, err)
	}
	progress.Done()

	info, err := os.Stat(path)
	if err != nil {
		return GeneratedFile{}, err
	}
	return GeneratedFile{Table: table, Path: path, Rows: progress.Rows(), Bytes: info.Size()}, nil
}

func (g *generator) writePrices(ctx context.Context, w *csv.Writer, p *ProgressReporter) error {
	if err := w.Write([]string{"Brand", "Description", "Price", "Size", "Volume", "VendorNumber", "VendorName"}); err != nil {
		return err
	}
	for _, b := range g.brands {
		if err := w.Write([]string{
			b.id, b.description, b.price.StringFixed(2), b.volume + "mL", b.volume,
			strconv.FormatInt(b.vendor.number, 10), b.vendor.name,
		}); err != nil {
			return err
		}
		p.Update(1)
	}
	return nil
}

func (g *generator) writePurchases(ctx context.Context, w *csv.Writer, p *ProgressReporter) error {
	if err := w.Write([]string{
		"PONumber", "VendorNumber", "VendorName", "Brand", "Description",
		"PODate", "PurchasePrice", "Quantity", "Dollars",
	}); err != nil {
		return err
	}
	for i := 0; i < g.cfg.Purchases; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		b := Choose(g.faker, g.brands)
		cost := b.cost
		if i%zeroPriceEvery == zeroPriceEvery-1 {
			cost = decimal.Zero
		}
		qty := int64(g.faker.Int(1, 36))
		name := b.vendor.name
		// Source systems pad some names; the summary trims them.
		if g.faker.Int(0, 9) == 0 {
			name += "  "
		}
		if err := w.Write([]string{
			strconv.Itoa(8000 + i),
			strconv.FormatInt(b.vendor.number, 10),
			name,
			b.id,
			b.description,
			g.faker.Date(periodStart, periodEnd).Format(time.DateOnly),
			cost.StringFixed(2),
			strconv.FormatInt(qty, 10),
			cost.Mul(decimal.NewFromInt(qty)).StringFixed(2),
		}); err != nil {
			return err
		}
		p.Update(1)
	}
	return nil
}

func (g *generator) writeSales(ctx context.Context, w *csv.Writer, p *ProgressReporter) error {
	if err := w.Write([]string{
		"Brand", "Description", "SalesQuantity", "SalesDollars", "SalesPrice",
		"SalesDate", "ExciseTax", "VendorNo", "VendorName",
	}); err != nil {
		return err
	}
	for i := 0; i < g.cfg.Sales; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		b := Choose(g.faker, g.brands)
		qty := int64(g.faker.Int(1, 12))
		dollars := b.price.Mul(decimal.NewFromInt(qty))
		tax := dollars.Mul(decimal.NewFromFloat(0.02)).Round(2)
		if err := w.Write([]string{
			b.id,
			b.description,
			strconv.FormatInt(qty, 10),
			dollars.StringFixed(2),
			b.price.StringFixed(2),
			g.faker.Date(periodStart, periodEnd).Format(time.DateOnly),
			tax.StringFixed(2),
			strconv.FormatInt(b.vendor.number, 10),
			b.vendor.name,
		}); err != nil {
			return err
		}
		p.Update(1)
	}
	return nil
}

func (g *generator) writeInvoices(ctx context.Context, w *csv.Writer, p *ProgressReporter) error {
	if err := w.Write([]string{"VendorNumber", "VendorName", "InvoiceDate", "Dollars", "Freight"}); err != nil {
		return err
	}
	for _, v := range g.vendors {
		dollars := g.faker.Money(500, 50000)
		freight := dollars.Mul(decimal.NewFromFloat(g.faker.Float64(0.002, 0.01))).Round(2)
		if err := w.Write([]string{
			strconv.FormatInt(v.number, 10),
			v.name,
			g.faker.Date(periodStart, periodEnd).Format(time.DateOnly),
			dollars.StringFixed(2),
			freight.StringFixed(2),
		}); err != nil {
			return err
		}
		p.Update(1)
	}
	return nil
}
