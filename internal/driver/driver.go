// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

// Package driver runs addons interactively from a terminal, standing in
// for the media-center host: it executes the addon's entry binary as a
// child process per request, renders returned listings as numbered menus
// and navigates a parent stack of plugin URLs.
package driver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/quickplug/quickplug/internal/addon"
	"github.com/quickplug/quickplug/internal/xdg"
	"github.com/quickplug/quickplug/pkg/host"
)

// failMessage is printed when a child reports a failed cycle.
const failMessage = "Failed to execute addon. Please check log."

// Driver executes addons and drives the interactive menu loop.
type Driver struct {
	db          *addon.DB
	in          *bufio.Reader
	out         io.Writer
	stderr      io.Writer
	logger      *slog.Logger
	profileRoot string
}

// Option configures a Driver.
type Option func(*Driver)

// WithIO sets the user-facing input and output streams. Defaults to
// stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(d *Driver) {
		d.in = bufio.NewReader(in)
		d.out = out
	}
}

// WithStderr sets the sink for child process stderr.
func WithStderr(w io.Writer) Option {
	return func(d *Driver) {
		d.stderr = w
	}
}

// WithLogger sets the driver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithProfileRoot overrides the base directory for addon profiles.
func WithProfileRoot(dir string) Option {
	return func(d *Driver) {
		d.profileRoot = dir
	}
}

// New creates a driver over an addon database.
func New(db *addon.DB, opts ...Option) *Driver {
	d := &Driver{
		db:     db,
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		stderr: os.Stderr,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run drives the interactive loop for a target: an addon id or a full
// plugin:// URL. It returns when the user backs out of the root listing,
// input ends, or the context is cancelled.
func (d *Driver) Run(ctx context.Context, target string) error {
	current, err := d.resolveTarget(target)
	if err != nil {
		return err
	}

	var stack []string
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		res, err := d.execute(ctx, current)
		if err != nil {
			return err
		}

		if !res.Succeeded {
			fmt.Fprintln(d.out, failMessage)
			d.waitForEnter()
			if len(stack) == 0 {
				return nil
			}
			current, stack = stack[len(stack)-1], stack[:len(stack)-1]
			continue
		}

		if res.Resolved != nil {
			fmt.Fprintf(d.out, "resolved: %s\n", res.Resolved.Path)
			if len(stack) == 0 {
				return nil
			}
			current, stack = stack[len(stack)-1], stack[:len(stack)-1]
			continue
		}

		selected, err := chooseItem(d.in, d.out, res, len(stack) > 0)
		if err != nil {
			return err
		}
		if selected == "" {
			// Back out of this level.
			if len(stack) == 0 {
				return nil
			}
			current, stack = stack[len(stack)-1], stack[:len(stack)-1]
			continue
		}

		stack = append(stack, current)
		current = selected
	}
}

// Execute runs exactly one dispatch cycle for a target and returns the
// child's result without entering the menu loop.
func (d *Driver) Execute(ctx context.Context, target string) (*host.Result, error) {
	rawURL, err := d.resolveTarget(target)
	if err != nil {
		return nil, err
	}
	return d.execute(ctx, rawURL)
}

// resolveTarget turns an addon id or plugin URL into the first request
// URL, verifying the addon and its dependency closure are installed.
func (d *Driver) resolveTarget(target string) (string, error) {
	rawURL := target
	if !strings.HasPrefix(target, "plugin://") {
		a, ok := d.db.Get(target)
		if !ok {
			return "", fmt.Errorf("addon %q is not installed", target)
		}
		rawURL = a.BaseURL()
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid plugin url %q: %w", rawURL, err)
	}
	if _, err := d.db.Resolve(u.Host); err != nil {
		return "", err
	}
	return rawURL, nil
}

// profileDir returns the profile directory for an addon id.
func (d *Driver) profileDir(addonID string) string {
	if d.profileRoot != "" {
		return d.profileRoot + "/" + addonID
	}
	return xdg.ProfileDir(addonID)
}

// waitForEnter blocks until the user presses enter or input ends.
func (d *Driver) waitForEnter() {
	fmt.Fprint(d.out, "Press enter to continue: ")
	_, _ = d.in.ReadString('\n')
}

// failedResult is the synthetic result for a child that died without
// sending one.
func failedResult() *host.Result {
	return &host.Result{Succeeded: false}
}
