//-------------------------------------------------------------------------
//
// pgEdge Vendor Summary
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline runs the vendor summary refresh end to end: ingest the
// source CSVs, aggregate, derive the metrics and publish the summary.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-vendorsummary/internal/aggregate"
	"github.com/pgEdge/pgedge-vendorsummary/internal/db"
	"github.com/pgEdge/pgedge-vendorsummary/internal/logging"
	"github.com/pgEdge/pgedge-vendorsummary/internal/source"
	"github.com/pgEdge/pgedge-vendorsummary/internal/store"
	"github.com/pgEdge/pgedge-vendorsummary/internal/summary"
)

// Options configures a refresh.
type Options struct {
	Connection  string
	SourceDir   string
	Engine      string
	PreviewRows int
	SkipIngest  bool
	DryRun      bool
}

// Target is the tabular store a refresh reads from and writes to.
type Target interface {
	ReplaceTable(ctx context.Context, table store.Table, rows pgx.CopyFromSource) (int64, error)
	TableExists(ctx context.Context, name string) (bool, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	RecordRun(ctx context.Context, info db.RunInfo) error
}

// IngestedTable reports one loaded CSV file.
type IngestedTable struct {
	Table   string
	Path    string
	Rows    int64
	Elapsed time.Duration
}

// Result reports a completed refresh.
type Result struct {
	RunID     uuid.UUID
	Engine    string
	Ingested  []IngestedTable
	Summary   []summary.VendorSummary
	Published int64
	Elapsed   time.Duration
}

// Run connects to the store and performs one refresh.
func Run(ctx context.Context, opts Options) (*Result, error) {
	engine, err := aggregate.Get(opts.Engine)
	if err != nil {
		return nil, err
	}

	conn, err := db.ConnectSingle(ctx, opts.Connection, "run")
	if err != nil {
		return nil, err
	}
	defer conn.Close(ctx)

	return Execute(ctx, store.New(conn), engine, opts)
}

// Execute performs one refresh against an open target.
func Execute(ctx context.Context, t Target, engine aggregate.Engine, opts Options) (*Result, error) {
	start := time.Now()
	res := &Result{
		RunID:  uuid.New(),
		Engine: engine.Name(),
	}
	runID := res.RunID.String()

	logging.Info().
		Str("run_id", runID).
		Str("engine", engine.Name()).
		Str("source_dir", opts.SourceDir).
		Bool("dry_run", opts.DryRun).
		Msg("Starting vendor summary refresh")

	if !opts.SkipIngest {
		ingested, err := Ingest(ctx, t, opts.SourceDir)
		if err != nil {
			return nil, err
		}
		res.Ingested = ingested
	}

	aggStart := time.Now()
	rows, err := engine.Aggregate(ctx, t)
	if err != nil {
		return nil, err
	}
	logging.Info().
		Str("run_id", runID).
		Int("rows", len(rows)).
		Dur("elapsed", time.Since(aggStart)).
		Msg("Aggregated vendor summary")
	aggregate.LogPreview(rows, opts.PreviewRows)

	res.Summary = summary.Derive(rows)
	summary.LogPreview("derive", res.Summary, opts.PreviewRows)

	if opts.DryRun {
		res.Elapsed = time.Since(start)
		logging.Info().
			Str("run_id", runID).
			Int("rows", len(res.Summary)).
			Msg("Dry run; summary not published")
		return res, nil
	}

	res.Published, err = summary.Publish(ctx, t, res.Summary)
	if err != nil {
		return nil, err
	}

	res.Elapsed = time.Since(start)
	if err := t.RecordRun(ctx, db.RunInfo{
		RunID:       res.RunID,
		Engine:      engine.Name(),
		SourceDir:   opts.SourceDir,
		RawTables:   len(res.Ingested),
		SummaryRows: len(res.Summary),
		FinishedAt:  time.Now(),
	}); err != nil {
		return nil, err
	}

	logging.Info().
		Str("run_id", runID).
		Int64("rows", res.Published).
		Dur("elapsed", res.Elapsed).
		Msg("Vendor summary refresh complete")

	return res, nil
}

// Ingest replaces one raw table per CSV file found in dir. Files are
// loaded in table-name order; the first failure stops the ingest.
func Ingest(ctx context.Context, r summary.Replacer, dir string) ([]IngestedTable, error) {
	files, err := source.Discover(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logging.Warn().Str("dir", dir).Msg("No CSV files found")
	}

	ingested := make([]IngestedTable, 0, len(files))
	for _, f := range files {
		t, err := ingestFile(ctx, r, f)
		if err != nil {
			return nil, err
		}
		ingested = append(ingested, t)
	}
	return ingested, nil
}

func ingestFile(ctx context.Context, r summary.Replacer, f source.File) (IngestedTable, error) {
	start := time.Now()

	rd, err := source.Open(f.Path)
	if err != nil {
		return IngestedTable{}, err
	}
	defer rd.Close()

	n, err := r.ReplaceTable(ctx, rd.Table(), rd)
	if err != nil {
		return IngestedTable{}, fmt.Errorf("ingest %s: %w", f.Path, err)
	}

	t := IngestedTable{
		Table:   f.Table,
		Path:    f.Path,
		Rows:    n,
		Elapsed: time.Since(start),
	}
	logging.Info().
		Str("table", t.Table).
		Str("path", t.Path).
		Int64("rows", t.Rows).
		Dur("elapsed", t.Elapsed).
		Msg("Ingested CSV")

	return t, nil
}
