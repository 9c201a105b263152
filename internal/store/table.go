//-------------------------------------------------------------------------
//
// pgEdge Vendor Summary
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package store

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ColumnType is the storage type of a column.
type ColumnType int

const (
	// Text columns hold strings.
	Text ColumnType = iota
	// Integer columns hold int64 values.
	Integer
	// Numeric columns hold exact decimal values.
	Numeric
	// Float columns hold float64 values.
	Float
)

// SQLType returns the PostgreSQL type name for the column type.
func (t ColumnType) SQLType() string {
	switch t {
	case Integer:
		return "BIGINT"
	case Numeric:
		return "NUMERIC"
	case Float:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

func (t ColumnType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Numeric:
		return "numeric"
	case Float:
		return "float"
	default:
		return "text"
	}
}

// Column describes one column of a table.
type Column struct {
	Name string
	Type ColumnType
}

// Table describes a table by name and ordered columns.
type Table struct {
	Name    string
	Columns []Column
}

// ColumnNames returns the column names in table order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// CreateSQL returns the CREATE TABLE statement for the table.
// All identifiers are quoted so mixed-case CSV headers survive.
func (t Table) CreateSQL() string {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = fmt.Sprintf("%s %s", pgx.Identifier{c.Name}.Sanitize(), c.Type.SQLType())
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n)",
		pgx.Identifier{t.Name}.Sanitize(), strings.Join(defs, ",\n    "))
}

// DropSQL returns the DROP TABLE statement for the table.
func (t Table) DropSQL() string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{t.Name}.Sanitize())
}
