// SPDX-License-Identifier: Apache-2.0
// Copyright 2025 The SelfOS Authors

package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/selfos/sync-server/internal/config"
	"github.com/selfos/sync-server/internal/logger"
)

type dialect string

const (
	dialectPostgres dialect = "pgx"
	dialectSQLite   dialect = "sqlite3"
)

// DB wraps the raw connection pool with the dialect it speaks and a
// driver-specific error classifier.
type DB struct {
	*sql.DB
	dialect            dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// querier is satisfied by both *sql.DB and *sql.Tx so repository
// helpers can run inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewDB dials the configured storage backend and runs schema setup.
func NewDB(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch dialect(cfg.Driver) {
	case dialectPostgres:
		return NewConnectPostgres(ctx, cfg.DSN, log)
	case dialectSQLite:
		return NewConnectSQLite(ctx, cfg.DSN, log)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
	}
}

// Builder returns a squirrel statement builder with the placeholder
// format of the underlying dialect.
func (db *DB) Builder() sq.StatementBuilderType {
	if db.dialect == dialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// IsUniqueViolation reports whether err was caused by a primary key or
// unique constraint violation on the current dialect.
func (db *DB) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return db.errorClassificator.IsUniqueViolation(err)
}

func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	return db.DB.Close()
}
