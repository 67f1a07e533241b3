// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package route

import (
	"iter"
	"slices"

	"github.com/quickplug/quickplug/pkg/listing"
)

// ValidateItems checks a folder callback's return value. It returns the
// materialized items, or noop=true for the deliberate silent no-op
// signal. Lazy sequences are materialized eagerly; nil entries are
// dropped. An empty result is an error: the host must always receive at
// least a no-op signal or real content, never silent nothing.
func ValidateItems(path string, result any) (items []*listing.Item, noop bool, err error) {
	switch v := result.(type) {
	case nil:
		return nil, false, ErrEmptyResult(path)

	case noopValue:
		return nil, true, nil

	case []*listing.Item:
		items = compactItems(v)

	case iter.Seq[*listing.Item]:
		items = compactItems(slices.Collect(v))

	case []any:
		if len(v) == 1 {
			if _, ok := v[0].(noopValue); ok {
				return nil, true, nil
			}
		}
		items = make([]*listing.Item, 0, len(v))
		for _, raw := range v {
			if raw == nil {
				continue
			}
			it, ok := raw.(*listing.Item)
			if !ok {
				return nil, false, ErrBadResultType(path, raw)
			}
			if it != nil {
				items = append(items, it)
			}
		}

	default:
		return nil, false, ErrBadResultType(path, result)
	}

	if len(items) == 0 {
		return nil, false, ErrEmptyResult(path)
	}
	return items, false, nil
}

// resolveResult checks a resolver callback's return value: a playable
// URL string, a full item, or the no-op signal.
func resolveResult(path string, result any) (item *listing.Item, noop bool, err error) {
	switch v := result.(type) {
	case noopValue:
		return nil, true, nil
	case string:
		if v == "" {
			return nil, false, ErrEmptyResult(path)
		}
		return &listing.Item{Path: v, IsPlayable: true}, false, nil
	case *listing.Item:
		if v == nil {
			return nil, false, ErrEmptyResult(path)
		}
		return v, false, nil
	default:
		return nil, false, ErrBadResultType(path, result)
	}
}

// compactItems drops nil entries.
func compactItems(items []*listing.Item) []*listing.Item {
	out := items[:0:len(items)]
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	return out
}

// GuessContentType classifies a listing from its items' metadata. The
// most frequent media kind wins, ties broken by the fixed kind-priority
// order; known kinds pluralize into the host content-type vocabulary.
// Without kind metadata the folder-like fraction decides: more than half
// folders means "files", anything else "videos".
func GuessContentType(items []*listing.Item) string {
	counts := make(map[string]int)
	folders := 0
	for _, it := range items {
		if it.MediaType != "" {
			counts[it.MediaType]++
		}
		if it.IsFolder {
			folders++
		}
	}

	if len(counts) > 0 {
		best, bestCount := "", -1
		for kind, n := range counts {
			if n > bestCount || (n == bestCount && kindPriority(kind) < kindPriority(best)) {
				best, bestCount = kind, n
			}
		}
		if kindPriority(best) < len(listing.KindPriority) {
			return best + "s"
		}
	}

	if len(items) > 0 && folders > len(items)/2 {
		return "files"
	}
	return "videos"
}

// kindPriority returns the tie-break rank of a media kind; unknown kinds
// rank last.
func kindPriority(kind string) int {
	for i, k := range listing.KindPriority {
		if k == kind {
			return i
		}
	}
	return len(listing.KindPriority)
}

// BuildSortMethods merges manual and auto-collected sort hints. Manual
// hints keep their insertion order and always come first; auto hints are
// deduplicated against them and appended in their own sorted order. With
// autosort enabled and neither manual hints nor a date-based auto hint,
// an "unsorted" hint is injected first so the listing has a defined
// baseline order. An empty merge defaults to a single "unsorted" hint.
func BuildSortMethods(manual, auto []string, autosort bool) []string {
	merged := slices.Clone(manual)

	if autosort && len(auto) > 0 {
		if len(manual) == 0 && !slices.Contains(auto, listing.SortDate) {
			merged = append(merged, listing.SortUnsorted)
		}
		sortedAuto := slices.Clone(auto)
		slices.Sort(sortedAuto)
		for _, hint := range sortedAuto {
			if !slices.Contains(merged, hint) {
				merged = append(merged, hint)
			}
		}
	}

	if len(merged) == 0 {
		return []string{listing.SortUnsorted}
	}
	return merged
}
