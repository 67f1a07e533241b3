// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/quickplug/quickplug/internal/driver"
	"github.com/quickplug/quickplug/internal/observability"
)

// NewInteractiveCmd creates the interactive subcommand.
func NewInteractiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive <addon-id|plugin-url>",
		Short: "Browse an addon as interactive terminal menus",
		Long: `Run an addon interactively: every selected menu entry dispatches the
addon's entry binary for that plugin URL and renders the returned
listing as the next menu. Interrupt (Ctrl-C) exits cleanly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if cfg.MetricsAddr != "" {
				srv := observability.NewServer(cfg.MetricsAddr, nil)
				if _, err := srv.Start(); err != nil {
					return err
				}
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Stop(shutdownCtx)
				}()
			}

			d := driver.New(db,
				driver.WithLogger(logger),
				driver.WithProfileRoot(cfg.ProfileDir))

			if err := d.Run(ctx, args[0]); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
