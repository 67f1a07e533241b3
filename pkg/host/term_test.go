// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package host

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickplug/quickplug/pkg/listing"
)

func TestTermHost_Display(t *testing.T) {
	var buf bytes.Buffer
	h := NewTermHost(&buf)

	err := h.Display(0, &listing.Listing{
		Items: []*listing.Item{
			{Label: "Recent", Path: "plugin://demo/videos/recent", IsFolder: true},
			{Label: "Clip", Path: "https://cdn.example/c.mp4"},
		},
		Category:    "Videos",
		ContentType: "videos",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Videos (videos)")
	assert.Contains(t, out, "Recent/")
	assert.Contains(t, out, "https://cdn.example/c.mp4")
}

func TestTermHost_NotifyAndResolve(t *testing.T) {
	var buf bytes.Buffer
	h := NewTermHost(&buf)

	h.Notify("ROUTE_NOT_FOUND", "no route registered", IconError)
	require.NoError(t, h.Resolve(0, &listing.Item{Path: "https://cdn.example/m.mp4"}))
	h.EndOfDirectory(0, false)

	out := buf.String()
	assert.Contains(t, out, "[ROUTE_NOT_FOUND] no route registered")
	assert.Contains(t, out, "resolved: https://cdn.example/m.mp4")
	assert.Contains(t, out, "(no content)")
}
