//-------------------------------------------------------------------------
//
// pgEdge Vendor Summary
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package source reads CSV snapshots as typed rows for the tabular store.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-vendorsummary/internal/store"
	"github.com/pgEdge/pgedge-vendorsummary/pkg/vendorsummary"
)

// File is a CSV file and the raw table it loads into.
type File struct {
	Path  string
	Table string
}

// Discover lists the CSV files in dir, sorted by name. Each file maps to a
// table named after the file without its extension.
func Discover(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &vendorsummary.SourceReadError{Path: dir, Err: err}
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, ".csv") {
			continue
		}
		files = append(files, File{
			Path:  filepath.Join(dir, name),
			Table: strings.TrimSuffix(name, ext),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Table < files[j].Table })
	return files, nil
}

// Reader lazily yields typed rows from one CSV file. It implements
// pgx.CopyFromSource so it can be streamed straight into COPY.
type Reader struct {
	path   string
	file   *os.File
	csv    *csv.Reader
	table  store.Table
	values []any
	err    error
}

// Open opens path and reads its header. The table is named after the file;
// known tables must carry their required columns.
func Open(path string) (*Reader, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	f, err := os.Open(path)
	if err != nil {
		return nil, &vendorsummary.SourceReadError{Path: path, Err: err}
	}

	r, err := NewReader(f, path, name)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// NewReader reads CSV data from in for the named table. path is used only
// in error messages.
func NewReader(in io.Reader, path, table string) (*Reader, error) {
	cr := csv.NewReader(in)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("no header row")
		}
		return nil, &vendorsummary.SourceReadError{Path: path, Line: 1, Err: err}
	}

	tbl, err := buildTable(table, header)
	if err != nil {
		return nil, &vendorsummary.SourceReadError{Path: path, Line: 1, Err: err}
	}

	return &Reader{path: path, csv: cr, table: tbl}, nil
}

func buildTable(name string, header []string) (store.Table, error) {
	types := make(map[string]store.ColumnType)
	for _, c := range RequiredColumns(name) {
		types[c.Name] = c.Type
	}

	tbl := store.Table{Name: name, Columns: make([]store.Column, len(header))}
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		col := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if col == "" {
			return store.Table{}, fmt.Errorf("column %d has an empty name", i+1)
		}
		if seen[col] {
			return store.Table{}, fmt.Errorf("duplicate column %q", col)
		}
		seen[col] = true
		tbl.Columns[i] = store.Column{Name: col, Type: types[col]}
	}

	var missing []string
	for _, c := range RequiredColumns(name) {
		if !seen[c.Name] {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) > 0 {
		return store.Table{}, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return tbl, nil
}

// Table returns the table layout derived from the header.
func (r *Reader) Table() store.Table {
	return r.table
}

// Next advances to the next row. It returns false at end of file or on
// the first error, which is then available from Err.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}

	record, err := r.csv.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = r.wrap(err)
		}
		return false
	}

	values := make([]any, len(record))
	for i, cell := range record {
		v, err := parseCell(cell, r.table.Columns[i].Type)
		if err != nil {
			line, _ := r.csv.FieldPos(i)
			r.err = &vendorsummary.SourceReadError{
				Path: r.path,
				Line: line,
				Err:  fmt.Errorf("column %s: %w", r.table.Columns[i].Name, err),
			}
			return false
		}
		values[i] = v
	}
	r.values = values
	return true
}

// Values returns the current row.
func (r *Reader) Values() ([]any, error) {
	return r.values, r.err
}

// Err returns the first error encountered.
func (r *Reader) Err() error {
	return r.err
}

// Close closes the underlying file when the reader was created by Open.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

func (r *Reader) wrap(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &vendorsummary.SourceReadError{Path: r.path, Line: pe.Line, Err: pe.Err}
	}
	return &vendorsummary.SourceReadError{Path: r.path, Err: err}
}

// parseCell converts a raw CSV cell to the column's Go value. Empty cells
// are NULL.
func parseCell(cell string, typ store.ColumnType) (any, error) {
	if typ == store.Text {
		if cell == "" {
			return nil, nil
		}
		return cell, nil
	}

	s := strings.TrimSpace(cell)
	if s == "" {
		return nil, nil
	}

	switch typ {
	case store.Integer:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil || !d.Equal(d.Truncate(0)) {
			return nil, fmt.Errorf("invalid integer %q", cell)
		}
		return d.IntPart(), nil
	case store.Numeric:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", cell)
		}
		return d, nil
	case store.Float:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", cell)
		}
		return f, nil
	}
	return cell, nil
}
