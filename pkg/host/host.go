// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

// Package host defines the external collaborator contracts the routing
// core depends on: the media-center host surface (settings, localized
// strings, notifications) and the rendering boundary that receives
// validated listings. It also provides the pipe-backed implementation
// used when a plugin runs as a child of the interactive driver.
package host

import (
	"github.com/quickplug/quickplug/pkg/listing"
)

// Notification icons.
const (
	IconInfo    = "info"
	IconWarning = "warning"
	IconError   = "error"
)

// Host is the media-center host surface available to callbacks.
type Host interface {
	// Setting returns the addon setting for key, or "" when unset.
	Setting(key string) string

	// LocalizedString returns the localized string for id, or "" when
	// the id is unknown.
	LocalizedString(id int) string

	// Notify shows a notification dialog. Fire-and-forget: it never
	// fails and never blocks on user input.
	Notify(heading, message, icon string)
}

// Renderer receives the validated output of a dispatch cycle.
type Renderer interface {
	// Display renders a folder listing under the given request handle.
	Display(handle int, l *listing.Listing) error

	// EndOfDirectory signals cycle completion without content, used for
	// deliberate no-op returns and for failed cycles.
	EndOfDirectory(handle int, succeeded bool)

	// Resolve hands a playable item to the host player.
	Resolve(handle int, item *listing.Item) error
}
