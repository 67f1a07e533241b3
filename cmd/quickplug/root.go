// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quickplug/quickplug/internal/addon"
	"github.com/quickplug/quickplug/internal/config"
	"github.com/quickplug/quickplug/pkg/logging"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the quickplug CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quickplug",
		Short: "Quickplug - a command-line host for media-center addons",
		Long: `Quickplug runs media-center addons outside the host GUI: it executes
an addon's routed callbacks, renders listings as terminal menus, and
navigates them interactively.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	cmd.PersistentFlags().StringSlice("addon-dirs", nil, "directories searched for installed addons")
	cmd.PersistentFlags().String("profile-dir", "", "base directory for addon profiles")
	cmd.PersistentFlags().String("log-format", "", "log output format: text or json")
	cmd.PersistentFlags().String("metrics-addr", "", "listen address for the metrics endpoint")

	// Add subcommands
	cmd.AddCommand(NewInteractiveCmd())
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewAddonsCmd())

	return cmd
}

// setup loads the configuration, wires logging and opens the addon
// database. Shared by every subcommand.
func setup(cmd *cobra.Command) (config.Config, *addon.DB, *slog.Logger, error) {
	cfg, err := config.Load(configFile, cmd.Root().PersistentFlags())
	if err != nil {
		return cfg, nil, nil, err
	}

	logger := logging.Setup("quickplug", cfg.LogFormat, os.Stderr)

	db, err := addon.Load(logger, cfg.AddonDirs...)
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, db, logger, nil
}
