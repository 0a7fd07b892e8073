// SPDX-License-Identifier: Apache-2.0

// Package executor runs a query.Builder against a live connection. It is
// the only package that calls query.Builder.Build and touches a
// *sql.Rows — everything above it works with typed builders and Go
// values.
package executor

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/polarstack/icequery/pkg/db"
	"github.com/polarstack/icequery/pkg/query"
)

// Executor runs builders against one connection.
type Executor struct {
	DB db.DB
}

func New(conn db.DB) *Executor {
	return &Executor{DB: conn}
}

// Exec runs an UPDATE or DELETE builder and returns the affected row
// count.
func (e *Executor) Exec(ctx context.Context, b *query.Builder) (int64, error) {
	sqlText, params, err := b.Build()
	if err != nil {
		return 0, fmt.Errorf("executor: %w", err)
	}
	res, err := e.DB.ExecContext(ctx, sqlText, params...)
	if err != nil {
		return 0, fmt.Errorf("executor: %w", err)
	}
	return res.RowsAffected()
}

// Query runs a SELECT builder and, for each row, calls newDest for a
// slice of pointers matching the builder's rendered select list, in
// order (query.Builder.SelectRaw), scans the row into it, then calls
// scan. Query closes rows itself.
func (e *Executor) Query(ctx context.Context, b *query.Builder, newDest func() []any, scan func() error) error {
	sqlText, params, err := b.Build()
	if err != nil {
		return fmt.Errorf("executor: %w", err)
	}

	rows, err := e.DB.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return fmt.Errorf("executor: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := rows.Scan(newDest()...); err != nil {
			return fmt.Errorf("executor: scan: %w", err)
		}
		if err := scan(); err != nil {
			return err
		}
	}
	return rows.Err()
}

// QueryRow runs a SELECT builder expected to return exactly one row and
// scans it into dest.
func (e *Executor) QueryRow(ctx context.Context, b *query.Builder, dest ...any) error {
	sqlText, params, err := b.Build()
	if err != nil {
		return fmt.Errorf("executor: %w", err)
	}
	row := e.DB.QueryRowContext(ctx, sqlText, params...)
	if err := row.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("executor: scan: %w", err)
	}
	return nil
}
