// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/polarstack/icequery/cmd/flags"
	"github.com/polarstack/icequery/internal/connstr"
	"github.com/polarstack/icequery/pkg/db"
	"github.com/polarstack/icequery/pkg/state"
)

// Version is the icequery version.
var Version = "development"

func init() {
	viper.SetEnvPrefix("ICEQUERY")
	viper.AutomaticEnv()
	flags.PgConnectionFlags(rootCmd)
}

var rootCmd = &cobra.Command{
	Use:          "icequery",
	SilenceUsage: true,
	Version:      Version,
}

// connect opens a connection to the target database with search_path
// set to the configured schema, and wraps it in the retrying db.DB.
func connect(ctx context.Context) (db.DB, error) {
	pgURL, err := connstr.AppendSearchPathOption(flags.PostgresURL(), flags.Schema())
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open("postgres", pgURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if role := flags.Role(); role != "" {
		if _, err := sqlDB.ExecContext(ctx, fmt.Sprintf("SET ROLE %s", role)); err != nil {
			return nil, fmt.Errorf("setting role: %w", err)
		}
	}

	return &db.RDB{DB: sqlDB}, nil
}

func newState(ctx context.Context, conn db.DB) (*state.State, error) {
	return state.New(ctx, conn, flags.Schema(), flags.StateSchema())
}

// Execute executes the root command.
func Execute() error {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(applyCmd())
	rootCmd.AddCommand(statusCmd())

	return rootCmd.Execute()
}
