//-------------------------------------------------------------------------
//
// pgEdge Vendor Summary
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package db provides database connection management for pgedge-vendorsummary.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pgEdge/pgedge-vendorsummary/internal/logging"
	"github.com/pgEdge/pgedge-vendorsummary/pkg/vendorsummary"
	"github.com/pgEdge/pgedge-vendorsummary/pkg/version"
)

// ApplicationName is reported to PostgreSQL as application_name.
const ApplicationName = version.Name

// DB is an interface that *pgxpool.Pool, *pgx.Conn and pgx.Tx all satisfy.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ConnectSingle opens one dedicated connection to the PostgreSQL database.
// The purpose is appended to the application name so concurrent tools can
// be told apart in pg_stat_activity.
func ConnectSingle(ctx context.Context, connString string, purpose string) (*pgx.Conn, error) {
	config, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, &vendorsummary.StoreConnectionError{Op: "parse connection string", Err: err}
	}

	appName := ApplicationName
	if purpose != "" {
		appName += "/" + purpose
	}
	config.RuntimeParams["application_name"] = appName

	logging.Debug().
		Str("host", config.Host).
		Uint16("port", config.Port).
		Str("database", config.Database).
		Str("purpose", purpose).
		Msg("Connecting to database")

	conn, err := pgx.ConnectConfig(ctx, config)
	if err != nil {
		return nil, &vendorsummary.StoreConnectionError{Op: "connect", Err: err}
	}

	// Verify connection
	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx)
		return nil, &vendorsummary.StoreConnectionError{Op: "ping", Err: err}
	}

	logging.Info().
		Str("host", config.Host).
		Str("database", config.Database).
		Msg("Connected to database")

	return conn, nil
}
