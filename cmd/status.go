// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/polarstack/icequery/cmd/flags"
)

type statusLine struct {
	Schema      string
	NodeCount   int
	HasRevision bool
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the last recorded revision for this schema",
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

			latest, err := st.Latest(ctx)
			if err != nil {
				return err
			}

			line := statusLine{Schema: flags.Schema()}
			if latest != nil {
				line.HasRevision = true
				line.NodeCount = len(latest.Order)
			}

			out, err := json.MarshalIndent(line, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
