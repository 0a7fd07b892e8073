// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the revision-history schema used to track applied snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			conn, err := connect(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			sp, _ := pterm.DefaultSpinner.WithText("Initializing icequery state...").Start()
			if _, err := newState(ctx, conn); err != nil {
				sp.Fail(fmt.Sprintf("Failed to initialize: %s", err))
				return err
			}

			sp.Success("Initialization complete")
			return nil
		},
	}
}
