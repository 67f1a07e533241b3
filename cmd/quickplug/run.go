// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/quickplug/quickplug/internal/driver"
)

// NewRunCmd creates the run subcommand.
func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <addon-id|plugin-url>",
		Short: "Execute one addon request and print the result",
		Long: `Dispatch a single plugin URL through the addon's entry binary and
print the returned listing or resolved target, without entering the
interactive menu loop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			d := driver.New(db,
				driver.WithLogger(logger),
				driver.WithProfileRoot(cfg.ProfileDir))

			res, err := d.Execute(ctx, args[0])
			if err != nil {
				return err
			}
			if !res.Succeeded {
				return fmt.Errorf("addon reported failure, check the log")
			}

			out := cmd.OutOrStdout()
			if res.Resolved != nil {
				fmt.Fprintf(out, "resolved: %s\n", res.Resolved.Path)
				return nil
			}
			if res.Category != "" {
				fmt.Fprintf(out, "%s (%s)\n", res.Category, res.ContentType)
			}
			for i, it := range res.Items {
				marker := " "
				if it.IsFolder {
					marker = "/"
				}
				fmt.Fprintf(out, "%3d. %s%s  %s\n", i, it.Label, marker, it.Path)
			}
			return nil
		},
	}
}
