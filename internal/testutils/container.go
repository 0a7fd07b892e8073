// SPDX-License-Identifier: Apache-2.0

// Package testutils supplies the ephemeral Postgres container integration
// tests run against, so pkg/apply and pkg/state can be exercised over a
// real connection rather than mocked out.
package testutils

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/polarstack/icequery/pkg/db"
)

const defaultPostgresImage = "postgres:15.3"

// WithContainerDB starts a throwaway Postgres container, opens a
// connection to it wrapped in db.RDB, and hands it to fn. The container
// is terminated when the test completes.
func WithContainerDB(t *testing.T, fn func(conn db.DB, sqlDB *sql.DB)) {
	t.Helper()
	ctx := context.Background()

	waitForLogs := wait.
		ForLog("database system is ready to accept connections").
		WithOccurrence(2).
		WithStartupTimeout(30 * time.Second)

	ctr, err := postgres.RunContainer(ctx,
		testcontainers.WithImage(defaultPostgresImage),
		testcontainers.WithWaitStrategy(waitForLogs),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := ctr.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}

	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Logf("failed to close connection: %v", err)
		}
	})

	fn(&db.RDB{DB: sqlDB}, sqlDB)
}
