// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

// Package listing defines the item model handed from route callbacks to
// the rendering collaborator, plus the sort-hint and content-type
// vocabularies used when classifying a folder listing.
package listing

// Sort-hint tokens. Manual hints keep their insertion order; auto-collected
// hints are merged in token-sorted order.
const (
	SortUnsorted = "unsorted"
	SortLabel    = "label"
	SortTitle    = "title"
	SortDate     = "date"
	SortYear     = "year"
	SortGenre    = "genre"
	SortDuration = "duration"
	SortEpisode  = "episode"
)

// Media kinds recognized by content-type inference, in tie-break priority
// order. A known kind maps to its pluralized content type.
var KindPriority = []string{
	"video", "movie", "tvshow", "episode", "musicvideo", "song", "album", "artist",
}

// Item is one entry of a folder listing or a resolved playable target.
type Item struct {
	// Label is the display text shown by the host.
	Label string

	// Path is the target URL. Paths under the plugin scheme re-enter the
	// dispatcher on selection; anything else is handed to the player.
	Path string

	// IsFolder marks the item as a drill-down folder entry.
	IsFolder bool

	// IsPlayable marks the item as directly playable.
	IsPlayable bool

	// MediaType is the media-kind tag used for content-type inference,
	// e.g. "movie" or "episode". Empty when unknown.
	MediaType string

	// Properties carries host-specific string properties.
	Properties map[string]string
}

// Property returns the named property or "".
func (it *Item) Property(key string) string {
	if it.Properties == nil {
		return ""
	}
	return it.Properties[key]
}

// SetProperty sets a host property, allocating the map on first use.
func (it *Item) SetProperty(key, value string) {
	if it.Properties == nil {
		it.Properties = make(map[string]string)
	}
	it.Properties[key] = value
}

// Listing is the validated output of a folder callback, ready for the
// rendering collaborator.
type Listing struct {
	Items         []*Item
	Category      string
	ContentType   string
	SortMethods   []string
	UpdateListing bool
	CacheToDisc   bool
}
