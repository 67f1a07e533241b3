// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package host

import (
	"fmt"
	"io"

	"github.com/quickplug/quickplug/pkg/listing"
)

// TermHost implements Host and Renderer on a plain text writer, for
// running a plugin binary directly outside the host GUI and outside the
// interactive driver.
type TermHost struct {
	out      io.Writer
	settings map[string]string
	strings  map[int]string
}

// NewTermHost creates a terminal host writing to w.
func NewTermHost(w io.Writer) *TermHost {
	return &TermHost{
		out:      w,
		settings: make(map[string]string),
		strings:  make(map[int]string),
	}
}

// Setting returns the addon setting for key.
func (h *TermHost) Setting(key string) string {
	return h.settings[key]
}

// LocalizedString returns the localized string for id.
func (h *TermHost) LocalizedString(id int) string {
	return h.strings[id]
}

// Notify prints the notification.
func (h *TermHost) Notify(heading, message, _ string) {
	fmt.Fprintf(h.out, "[%s] %s\n", heading, message)
}

// Display prints the listing as a plain table.
func (h *TermHost) Display(_ int, l *listing.Listing) error {
	if l.Category != "" {
		fmt.Fprintf(h.out, "%s (%s)\n", l.Category, l.ContentType)
	}
	for i, it := range l.Items {
		marker := " "
		if it.IsFolder {
			marker = "/"
		}
		fmt.Fprintf(h.out, "%3d. %s%s  %s\n", i, it.Label, marker, it.Path)
	}
	return nil
}

// EndOfDirectory prints the completion flag.
func (h *TermHost) EndOfDirectory(_ int, succeeded bool) {
	if !succeeded {
		fmt.Fprintln(h.out, "(no content)")
	}
}

// Resolve prints the resolved target.
func (h *TermHost) Resolve(_ int, item *listing.Item) error {
	fmt.Fprintf(h.out, "resolved: %s\n", item.Path)
	return nil
}
