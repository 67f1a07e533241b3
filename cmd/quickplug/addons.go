// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewAddonsCmd creates the addons subcommand.
func NewAddonsCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "addons",
		Short: "List installed addons",
		Long:  `List the addons found in the configured addon directories.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, _, err := setup(cmd)
			if err != nil {
				return err
			}

			installed := db.All()
			if filter != "" {
				installed, err = db.Match(filter)
				if err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tVERSION\tNAME")
			for _, a := range installed {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					a.Manifest.ID, a.Manifest.Version, a.Manifest.Name)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "glob pattern matched against addon ids")
	return cmd
}
