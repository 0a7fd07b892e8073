// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cloudflare/backoff"
	"github.com/lib/pq"
)

const (
	lockNotAvailableErrorCode pq.ErrorCode = "55P03"
	maxBackoffDuration                     = 1 * time.Minute
	backoffInterval                        = 1 * time.Second
)

// DB is the connection boundary every other package depends on: query
// execution, row fetches and transactional DDL application all go
// through it, never through *sql.DB directly.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	WithRetryableTransaction(ctx context.Context, f func(context.Context, *sql.Tx) error) error
	Close() error
}

// RDB wraps a *sql.DB and retries queries using an exponential backoff
// (with jitter) whenever Postgres reports lock_timeout (55P03) — the
// error a concurrent DDL statement produces when it can't acquire its
// lock before another session's lock_timeout fires first.
type RDB struct {
	DB *sql.DB
}

func (db *RDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	b := backoff.New(maxBackoffDuration, backoffInterval)

	for {
		res, err := db.DB.ExecContext(ctx, query, args...)
		if err == nil {
			return res, nil
		}
		if !isLockNotAvailable(err) {
			return nil, err
		}
		if err := sleepCtx(ctx, b.Duration()); err != nil {
			return nil, err
		}
	}
}

func (db *RDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	b := backoff.New(maxBackoffDuration, backoffInterval)

	for {
		rows, err := db.DB.QueryContext(ctx, query, args...)
		if err == nil {
			return rows, nil
		}
		if !isLockNotAvailable(err) {
			return nil, err
		}
		if err := sleepCtx(ctx, b.Duration()); err != nil {
			return nil, err
		}
	}
}

// WithRetryableTransaction runs f in a transaction, rolling back and
// retrying the whole transaction on lock_timeout errors.
func (db *RDB) WithRetryableTransaction(ctx context.Context, f func(context.Context, *sql.Tx) error) error {
	b := backoff.New(maxBackoffDuration, backoffInterval)

	for {
		tx, err := db.DB.BeginTx(ctx, nil)
		if err != nil {
			return err
		}

		err = f(ctx, tx)
		if err == nil {
			return tx.Commit()
		}

		if errRollback := tx.Rollback(); errRollback != nil {
			return errRollback
		}

		if !isLockNotAvailable(err) {
			return err
		}
		if err := sleepCtx(ctx, b.Duration()); err != nil {
			return err
		}
	}
}

// QueryRowContext does not retry on lock_timeout: *sql.Row defers its
// error until Scan, by which point there's nothing left to retry.
// Callers that need retry-on-lock_timeout semantics should use
// QueryContext instead.
func (db *RDB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRowContext(ctx, query, args...)
}

func (db *RDB) Close() error {
	return db.DB.Close()
}

func isLockNotAvailable(err error) bool {
	pqErr := &pq.Error{}
	return errors.As(err, &pqErr) && pqErr.Code == lockNotAvailableErrorCode
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// ScanFirstValue scans the first column of the first row, for queries
// known to return at most one row.
func ScanFirstValue[T any](rows *sql.Rows, dest *T) error {
	if rows.Next() {
		if err := rows.Scan(dest); err != nil {
			return err
		}
	}
	return rows.Err()
}
