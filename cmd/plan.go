// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/polarstack/icequery/cmd/flags"
	"github.com/polarstack/icequery/pkg/planner"
	"github.com/polarstack/icequery/pkg/schemasrc"
	"github.com/polarstack/icequery/pkg/state"
)

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the actions that apply would run, without running them",
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

			_, rec, err := computeDiff(ctx, st)
			if err != nil {
				return err
			}

			if len(rec.Actions) == 0 {
				pterm.Info.Println("No changes")
				return nil
			}
			for _, a := range rec.Actions {
				printAction(a)
			}
			return nil
		},
	}
}

// computeDiff loads the next snapshot from the schema directory, fetches
// the last-applied snapshot from state (an empty Snapshot if this is the
// first run), and records the diff between them.
func computeDiff(ctx context.Context, st *state.State) (*planner.Snapshot, *planner.ActionRecorder, error) {
	next, err := loadNextSnapshot()
	if err != nil {
		return nil, nil, err
	}

	prev, err := st.Latest(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading current revision: %w", err)
	}
	if prev == nil {
		prev = &planner.Snapshot{}
	}

	entries := planner.Diff(prev, next)
	rec := &planner.ActionRecorder{}
	planner.Emit(entries, rec)

	return next, rec, nil
}

func loadNextSnapshot() (*planner.Snapshot, error) {
	tables, err := schemasrc.Load(os.DirFS(flags.SchemaDir()))
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	return planner.NewSnapshot(tables)
}

func printAction(a planner.RecordedAction) {
	if a.Kind == planner.ActionKindComment {
		pterm.FgGray.Printfln("-- %s", a.Args[0])
		return
	}
	pterm.Info.Printfln("%s %v", a.Method, a.Args)
}
