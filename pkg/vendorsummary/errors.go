//-------------------------------------------------------------------------
//
// pgEdge Vendor Summary
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package vendorsummary holds the public error taxonomy and exit codes
// shared by the vendor summary pipeline and its command line.
package vendorsummary

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three fatal failure classes. Callers use
// errors.Is to classify an error returned by the pipeline.
var (
	// ErrSourceRead indicates a CSV file could not be read or parsed.
	ErrSourceRead = errors.New("source read error")

	// ErrStoreConnection indicates the tabular store could not be opened or written.
	ErrStoreConnection = errors.New("store connection error")

	// ErrDataSource indicates a raw table needed for aggregation is missing or unreadable.
	ErrDataSource = errors.New("data source error")
)

// Process exit codes.
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitSourceError     = 3
	ExitConnectionError = 4
	ExitDataSourceError = 5
)

// SourceReadError reports a CSV that cannot be parsed.
type SourceReadError struct {
	Path string
	Line int
	Err  error
}

func (e *SourceReadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("read %s (line %d): %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// Is matches ErrSourceRead.
func (e *SourceReadError) Is(target error) bool { return target == ErrSourceRead }

// StoreConnectionError reports a store that cannot be opened or written.
type StoreConnectionError struct {
	Op  string
	Err error
}

func (e *StoreConnectionError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreConnectionError) Unwrap() error { return e.Err }

// Is matches ErrStoreConnection.
func (e *StoreConnectionError) Is(target error) bool { return target == ErrStoreConnection }

// DataSourceError reports a raw table that is absent or unreadable.
type DataSourceError struct {
	Table string
	Err   error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("raw table %q: %v", e.Table, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// Is matches ErrDataSource.
func (e *DataSourceError) Is(target error) bool { return target == ErrDataSource }

// ExitCodeForError returns the process exit code for an error.
func ExitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrSourceRead):
		return ExitSourceError
	case errors.Is(err, ErrStoreConnection):
		return ExitConnectionError
	case errors.Is(err, ErrDataSource):
		return ExitDataSourceError
	}
	return ExitGeneralError
}
