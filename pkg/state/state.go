// SPDX-License-Identifier: Apache-2.0

// Package state persists the history of applied snapshots in the target
// database itself, so a second process (or a CI run) can compute a Diff
// against the last-applied schema without a separate migrations
// directory to keep in sync.
package state

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/polarstack/icequery/pkg/db"
	"github.com/polarstack/icequery/pkg/planner"
)

const sqlInit = `
CREATE SCHEMA IF NOT EXISTS %[1]s;

CREATE TABLE IF NOT EXISTS %[1]s.revisions (
	schema      NAME NOT NULL,
	name        TEXT NOT NULL,
	snapshot    JSONB NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,

	parent      TEXT,

	PRIMARY KEY (schema, name),
	FOREIGN KEY (schema, parent) REFERENCES %[1]s.revisions(schema, name)
);

-- Only the first revision of a schema can exist without a parent.
CREATE UNIQUE INDEX IF NOT EXISTS only_first_revision_without_parent
	ON %[1]s.revisions (schema) WHERE parent IS NULL;

-- A revision has at most one child: history is linear.
CREATE UNIQUE INDEX IF NOT EXISTS revision_history_is_linear
	ON %[1]s.revisions (schema, parent);
`

// State tracks one Postgres schema's revision history inside a
// dedicated bookkeeping schema (default "icequery").
type State struct {
	db         db.DB
	pgSchema   string
	bookSchema string
}

func New(ctx context.Context, conn db.DB, pgSchema, bookkeepingSchema string) (*State, error) {
	s := &State{db: conn, pgSchema: pgSchema, bookSchema: bookkeepingSchema}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(sqlInit, bookkeepingSchema)); err != nil {
		return nil, fmt.Errorf("state: init: %w", err)
	}
	return s, nil
}

// Latest returns the most recently recorded snapshot for this schema, or
// nil if none has been recorded yet.
func (s *State) Latest(ctx context.Context) (*planner.Snapshot, error) {
	query := fmt.Sprintf(`
		SELECT snapshot FROM %[1]s.revisions
		WHERE schema = $1
		AND name NOT IN (SELECT parent FROM %[1]s.revisions WHERE schema = $1 AND parent IS NOT NULL)
	`, s.bookSchema)

	rows, err := s.db.QueryContext(ctx, query, s.pgSchema)
	if err != nil {
		return nil, fmt.Errorf("state: latest: %w", err)
	}
	defer rows.Close()

	var raw []byte
	if err := db.ScanFirstValue(rows, &raw); err != nil {
		return nil, fmt.Errorf("state: latest: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	return DecodeSnapshot(raw)
}

// Save records a new revision as the child of the current latest
// revision (or as the root revision, if none exists yet).
func (s *State) Save(ctx context.Context, tx *sql.Tx, name string, snapshot *planner.Snapshot) error {
	data, err := EncodeSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("state: encode: %w", err)
	}

	parentQuery := fmt.Sprintf(`
		SELECT name FROM %[1]s.revisions
		WHERE schema = $1
		AND name NOT IN (SELECT parent FROM %[1]s.revisions WHERE schema = $1 AND parent IS NOT NULL)
	`, s.bookSchema)

	var parent sql.NullString
	row := tx.QueryRowContext(ctx, parentQuery, s.pgSchema)
	if err := row.Scan(&parent); err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("state: find parent: %w", err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %[1]s.revisions (schema, name, snapshot, parent)
		VALUES ($1, $2, $3, $4)
	`, s.bookSchema)

	var parentArg interface{}
	if parent.Valid {
		parentArg = parent.String
	}

	if _, err := tx.ExecContext(ctx, insert, s.pgSchema, name, data, parentArg); err != nil {
		return fmt.Errorf("state: save: %w", err)
	}
	return nil
}
