// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package driver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/quickplug/quickplug/pkg/host"
)

// Menu prompt and reprompt texts. The reprompts distinguish why the last
// input was rejected.
const (
	promptChoose     = "Choose an item: "
	repromptInteger  = "You entered a non-integer, Choice must be an integer: "
	repromptRange    = "You entered an invalid integer, Choice must be from above list: "
	repromptNotRoute = "Selection is not a valid plugin path, Please choose again: "
)

// parentEntry is the synthetic menu entry for navigating up one level.
const parentEntry = ".."

// chooseItem renders a listing as a numbered menu and prompts until the
// user selects a plugin path or backs out. It returns the selected
// plugin URL, or "" when the user wants to go up a level (the ".."
// entry, an empty line, or end of input).
func chooseItem(in *bufio.Reader, out io.Writer, res *host.Result, hasParent bool) (string, error) {
	entries := menuEntries(res, hasParent)
	renderMenu(out, res, entries)

	fmt.Fprint(out, promptChoose)
	for {
		line, err := in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			// Covers the empty line and end of input: both back out.
			return "", nil
		}

		choice, convErr := strconv.Atoi(line)
		switch {
		case convErr != nil:
			fmt.Fprint(out, repromptInteger)
		case choice < 0 || choice >= len(entries):
			fmt.Fprint(out, repromptRange)
		case entries[choice].path == parentEntry:
			return "", nil
		case !strings.HasPrefix(entries[choice].path, "plugin://"):
			fmt.Fprint(out, repromptNotRoute)
		default:
			return entries[choice].path, nil
		}

		if err != nil {
			// Input ended after a rejected line; back out.
			return "", nil
		}
	}
}

// menuEntry is one selectable line of the menu.
type menuEntry struct {
	label string
	path  string
}

// menuEntries builds the selectable entries, with ".." first when the
// listing has a parent level.
func menuEntries(res *host.Result, hasParent bool) []menuEntry {
	entries := make([]menuEntry, 0, len(res.Items)+1)
	if hasParent {
		entries = append(entries, menuEntry{label: parentEntry, path: parentEntry})
	}
	for _, it := range res.Items {
		entries = append(entries, menuEntry{label: it.Label, path: it.Path})
	}
	return entries
}

// renderMenu prints the listing header and the numbered entries.
func renderMenu(out io.Writer, res *host.Result, entries []menuEntry) {
	if res.Category != "" {
		fmt.Fprintf(out, "\n%s (%s)\n", res.Category, res.ContentType)
	} else {
		fmt.Fprintln(out)
	}
	for i, e := range entries {
		fmt.Fprintf(out, "%3d. %s\n", i, e.label)
	}
}
