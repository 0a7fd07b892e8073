// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/polarstack/icequery/pkg/apply"
	"github.com/polarstack/icequery/pkg/db"
	"github.com/polarstack/icequery/pkg/planner"
	"github.com/polarstack/icequery/pkg/state"
)

func applyCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the schema directory's changes to the database and record the new revision",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			conn, err := connect(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			st, err := newState(ctx, conn)
			if err != nil {
				return err
			}

			next, rec, err := computeDiff(ctx, st)
			if err != nil {
				return err
			}

			if len(rec.Actions) == 0 {
				pterm.Info.Println("No changes")
				return nil
			}

			sp, _ := pterm.DefaultSpinner.WithText(fmt.Sprintf("Applying %d action(s)...", countNonComment(rec))).Start()
			if err := apply.Apply(ctx, conn, rec); err != nil {
				sp.Fail(fmt.Sprintf("Failed to apply: %s", err))
				return err
			}

			if err := recordRevision(ctx, conn, st, name, next); err != nil {
				sp.Fail(fmt.Sprintf("Applied, but failed to record revision: %s", err))
				return err
			}

			sp.Success("Applied")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name for this revision (defaults to a generated label)")
	return cmd
}

func recordRevision(ctx context.Context, conn db.DB, st *state.State, name string, snapshot *planner.Snapshot) error {
	if name == "" {
		name = fmt.Sprintf("r%d", time.Now().UnixNano())
	}
	return conn.WithRetryableTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return st.Save(ctx, tx, name, snapshot)
	})
}

func countNonComment(rec *planner.ActionRecorder) int {
	n := 0
	for _, a := range rec.Actions {
		if a.Kind == planner.ActionKindAction {
			n++
		}
	}
	return n
}
