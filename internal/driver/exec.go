// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package driver

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/oj"
	"golang.org/x/sync/errgroup"

	"github.com/quickplug/quickplug/internal/addon"
	"github.com/quickplug/quickplug/internal/xdg"
	"github.com/quickplug/quickplug/pkg/host"
)

// driverHandle is the request handle passed to interactive children. The
// value only correlates request and response within one invocation.
const driverHandle = "1"

// execute runs one dispatch cycle: it starts the addon's entry binary
// for the given plugin URL and relays the pipe conversation until the
// child sends its result. Child failure surfaces as Succeeded=false,
// never as an error.
func (d *Driver) execute(ctx context.Context, rawURL string) (*host.Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid plugin url %q: %w", rawURL, err)
	}

	a, ok := d.db.Get(u.Host)
	if !ok {
		return nil, fmt.Errorf("addon %q is not installed", u.Host)
	}

	env, err := d.childEnv(a)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, a.EntryPath(),
		rawURL, driverHandle, "?"+u.RawQuery)
	cmd.Env = env

	childIn, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening child stdin: %w", err)
	}
	childOut, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening child stdout: %w", err)
	}
	childErr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("opening child stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting addon %q: %w", a.Manifest.ID, err)
	}

	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(d.stderr, childErr)
		return err
	})

	res, convErr := relay(childOut, childIn, d.in, d.out)

	_ = childIn.Close()
	if err := g.Wait(); err != nil {
		d.logger.Warn("draining child stderr failed", "error", err)
	}
	if err := cmd.Wait(); err != nil {
		d.logger.Warn("addon process exited abnormally",
			"addon", a.Manifest.ID,
			"error", err)
	}
	if convErr != nil {
		return nil, convErr
	}
	return res, nil
}

// relay pumps the line-JSON conversation with a child: prompts are
// answered with one line of user input, notifications are printed, and
// the first result message ends the conversation. Lines are read without
// a length cap so a large listing still fits in one result message. A
// child that closes its pipe without a result counts as failed.
func relay(childOut io.Reader, childIn io.Writer, userIn *bufio.Reader, userOut io.Writer) (*host.Result, error) {
	reader := bufio.NewReader(childOut)
	for {
		line, readErr := reader.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			var msg host.Message
			if err := oj.Unmarshal(trimmed, &msg); err != nil {
				return nil, fmt.Errorf("malformed message from addon: %w", err)
			}

			switch {
			case msg.Result != nil:
				return msg.Result, nil

			case msg.Notice != nil:
				fmt.Fprintf(userOut, "[%s] %s\n", msg.Notice.Heading, msg.Notice.Message)

			case msg.Prompt != nil:
				fmt.Fprint(userOut, *msg.Prompt)
				reply, err := userIn.ReadString('\n')
				if err != nil && !strings.HasSuffix(reply, "\n") {
					reply += "\n"
				}
				if _, err := io.WriteString(childIn, reply); err != nil {
					return nil, fmt.Errorf("answering addon prompt: %w", err)
				}
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return failedResult(), nil
			}
			return nil, fmt.Errorf("reading addon output: %w", readErr)
		}
	}
}

// childEnv builds the environment for an addon child process: the IPC
// marker plus the addon's identity, settings, strings and profile dir.
func (d *Driver) childEnv(a *addon.Installed) ([]string, error) {
	profile := d.profileDir(a.Manifest.ID)
	if err := xdg.EnsureDir(profile); err != nil {
		return nil, err
	}

	settings, err := addon.LoadSettings(a.Dir, profile)
	if err != nil {
		return nil, err
	}
	settingsJSON, err := oj.Marshal(settings.All())
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}

	strs, err := addon.LoadStrings(a.Dir)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]string, len(strs))
	for id, text := range strs {
		byKey[strconv.Itoa(id)] = text
	}
	stringsJSON, err := oj.Marshal(byKey)
	if err != nil {
		return nil, fmt.Errorf("encoding strings: %w", err)
	}

	return append(os.Environ(),
		host.EnvIPC+"=1",
		host.EnvAddonID+"="+a.Manifest.ID,
		host.EnvSettings+"="+string(settingsJSON),
		host.EnvStrings+"="+string(stringsJSON),
		host.EnvProfile+"="+profile,
	), nil
}
