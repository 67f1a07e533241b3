// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package host

import (
	"github.com/quickplug/quickplug/pkg/listing"
)

// Result is the wire form of one dispatch cycle's outcome, sent from a
// driver child process back to the parent. Failures cross the process
// boundary as Succeeded=false rather than as an error.
type Result struct {
	Succeeded     bool          `json:"succeeded"`
	UpdateListing bool          `json:"updatelisting,omitempty"`
	ContentType   string        `json:"contenttype,omitempty"`
	Category      string        `json:"category,omitempty"`
	SortMethods   []string      `json:"sortmethods,omitempty"`
	Items         []*ResultItem `json:"listitems,omitempty"`
	Resolved      *ResultItem   `json:"resolved,omitempty"`
}

// ResultItem is the wire form of a single listing item.
type ResultItem struct {
	Label      string            `json:"label"`
	Path       string            `json:"path"`
	IsFolder   bool              `json:"folder,omitempty"`
	IsPlayable bool              `json:"playable,omitempty"`
	MediaType  string            `json:"mediatype,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// resultItem converts a listing item to its wire form.
func resultItem(it *listing.Item) *ResultItem {
	return &ResultItem{
		Label:      it.Label,
		Path:       it.Path,
		IsFolder:   it.IsFolder,
		IsPlayable: it.IsPlayable,
		MediaType:  it.MediaType,
		Properties: it.Properties,
	}
}

// resultFromListing converts a validated listing to its wire form.
func resultFromListing(l *listing.Listing) *Result {
	res := &Result{
		Succeeded:     true,
		UpdateListing: l.UpdateListing,
		ContentType:   l.ContentType,
		Category:      l.Category,
		SortMethods:   l.SortMethods,
	}
	for _, it := range l.Items {
		res.Items = append(res.Items, resultItem(it))
	}
	return res
}
