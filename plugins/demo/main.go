// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

// Package main implements a demo video addon for Quickplug. It browses a
// small built-in catalog: recent videos with pagination, genre folders,
// and a prompt-driven search whose terms persist in the addon profile.
//
// Build and install:
//
//	go build -o ~/.local/share/quickplug/addons/plugin.video.demo/bin/demo ./plugins/demo
//	cp -r plugins/demo/addon.yaml plugins/demo/resources ~/.local/share/quickplug/addons/plugin.video.demo/
//
// Then browse it:
//
//	quickplug interactive plugin.video.demo
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/quickplug/quickplug/pkg/host"
	"github.com/quickplug/quickplug/pkg/listing"
	"github.com/quickplug/quickplug/pkg/params"
	"github.com/quickplug/quickplug/pkg/route"
	"github.com/quickplug/quickplug/pkg/storage"
)

// Localized string ids, matching resources/strings.po.
const (
	msgRecent       = 30000
	msgGenres       = 30001
	msgSearch       = 30002
	msgClearHistory = 30003
	msgNextPage     = 30004
	msgSearchPrompt = 30005
	msgHistoryClear = 30006
	msgNothingFound = 30007
)

// video is one catalog entry.
type video struct {
	ID    string
	Title string
	Genre string
	Year  int
	URL   string
}

// catalog is the built-in demo library, newest first.
var catalog = []video{
	{"v1", "Sunrise Over Docks", "documentary", 2026, "https://media.example.com/v1.mp4"},
	{"v2", "The Last Compile", "drama", 2025, "https://media.example.com/v2.mp4"},
	{"v3", "Gophers in the Wild", "documentary", 2025, "https://media.example.com/v3.mp4"},
	{"v4", "Midnight Refactor", "thriller", 2024, "https://media.example.com/v4.mp4"},
	{"v5", "Channel Surfing", "drama", 2024, "https://media.example.com/v5.mp4"},
	{"v6", "Race Detector", "thriller", 2023, "https://media.example.com/v6.mp4"},
	{"v7", "Garbage Collected", "documentary", 2023, "https://media.example.com/v7.mp4"},
}

var routes = []route.Descriptor{
	{Path: route.RootPath, Kind: route.KindFolder, Func: root, Source: "demo"},
	{Path: "recent", Kind: route.KindFolder, Func: recent, ArgNames: []string{"page"}, Source: "demo"},
	{Path: "genres", Kind: route.KindFolder, Func: genres, Source: "demo"},
	{Path: "genres/videos", Kind: route.KindFolder, Func: genreVideos, ArgNames: []string{"genre"}, Source: "demo"},
	{Path: "search", Kind: route.KindFolder, Func: search, ArgNames: []string{"term"}, Source: "demo"},
	{Path: "search/clear", Kind: route.KindScript, Func: clearSearches, Source: "demo"},
	{Path: "play", Kind: route.KindResolver, Func: play, ArgNames: []string{"id"}, Source: "demo"},
}

func main() {
	reg := route.NewRegistry()
	if err := reg.RegisterAll(routes); err != nil {
		fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		os.Exit(1)
	}
	os.Exit(route.Run(reg))
}

// root lists the top-level menu.
func root(ctx *route.Context, _ params.Mapping) (any, error) {
	items := make([]*listing.Item, 0, 4)

	for _, entry := range []struct {
		label int
		path  string
	}{
		{msgRecent, "recent"},
		{msgGenres, "genres"},
		{msgSearch, "search"},
		{msgClearHistory, "search/clear"},
	} {
		desc, err := ctx.Registry().Lookup(entry.path)
		if err != nil {
			return nil, err
		}
		target, err := ctx.BuildPath(route.WithTarget(desc))
		if err != nil {
			return nil, err
		}
		items = append(items, &listing.Item{
			Label:    ctx.Localize(entry.label),
			Path:     target,
			IsFolder: true,
		})
	}
	return items, nil
}

// recent lists the catalog newest first, one page at a time. The page
// size comes from the addon settings.
func recent(ctx *route.Context, p params.Mapping) (any, error) {
	page := intParam(p, "page", 1)
	size := pageSize(ctx)

	start := (page - 1) * size
	if start >= len(catalog) {
		return route.Noop, nil
	}
	end := start + size
	if end > len(catalog) {
		end = len(catalog)
	}

	ctx.AddSortMethods(listing.SortDate)
	items := make([]*listing.Item, 0, size+1)
	for _, v := range catalog[start:end] {
		it, err := videoItem(ctx, v)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	if end < len(catalog) {
		self := ctx.Descriptor()
		next, err := ctx.BuildPath(
			route.WithTarget(self),
			route.WithArgs(page+1))
		if err != nil {
			return nil, err
		}
		items = append(items, &listing.Item{
			Label:    ctx.Localize(msgNextPage),
			Path:     next,
			IsFolder: true,
		})
	}
	return items, nil
}

// genres lists one folder per distinct genre.
func genres(ctx *route.Context, _ params.Mapping) (any, error) {
	seen := map[string]bool{}
	var names []string
	for _, v := range catalog {
		if !seen[v.Genre] {
			seen[v.Genre] = true
			names = append(names, v.Genre)
		}
	}

	target, err := ctx.Registry().Lookup("genres/videos")
	if err != nil {
		return nil, err
	}

	ctx.AddSortMethods(listing.SortLabel)
	items := make([]*listing.Item, 0, len(names))
	for _, name := range names {
		label := titleCase(name)
		path, err := ctx.BuildPath(
			route.WithTarget(target),
			route.WithArgs(name),
			route.WithParam("_title_", label))
		if err != nil {
			return nil, err
		}
		items = append(items, &listing.Item{
			Label:    label,
			Path:     path,
			IsFolder: true,
		})
	}
	return items, nil
}

// genreVideos lists every catalog entry in a genre.
func genreVideos(ctx *route.Context, p params.Mapping) (any, error) {
	genre := p.String("genre")
	var items []*listing.Item
	for _, v := range catalog {
		if v.Genre != genre {
			continue
		}
		it, err := videoItem(ctx, v)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// prompter is satisfied by the pipe host when running under the driver.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// search filters the catalog on a term. Without a term parameter it asks
// the user for one and remembers it in the profile.
func search(ctx *route.Context, p params.Mapping) (any, error) {
	term := p.String("term")
	if term == "" {
		ph, ok := ctx.Host().(prompter)
		if !ok {
			return route.Noop, nil
		}
		reply, err := ph.Prompt(ctx.Localize(msgSearchPrompt))
		if err != nil {
			return nil, err
		}
		term = strings.TrimSpace(reply)
		if term == "" {
			return route.Noop, nil
		}
		if err := rememberSearch(term); err != nil {
			ctx.Log().Warn("could not persist search term", "error", err)
		}
	}

	needle := strings.ToLower(term)
	var items []*listing.Item
	for _, v := range catalog {
		if !strings.Contains(strings.ToLower(v.Title), needle) {
			continue
		}
		it, err := videoItem(ctx, v)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		ctx.Notify(ctx.Localize(msgSearch), ctx.Localize(msgNothingFound), host.IconInfo)
		return route.Noop, nil
	}
	return items, nil
}

// clearSearches wipes the saved search history.
func clearSearches(ctx *route.Context, _ params.Mapping) (any, error) {
	path := searchStorePath()
	if path == "" {
		return nil, nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	ctx.Notify(ctx.Localize(msgSearch), ctx.Localize(msgHistoryClear), host.IconInfo)
	return nil, nil
}

// play resolves a catalog id to its media URL.
func play(_ *route.Context, p params.Mapping) (any, error) {
	id := p.String("id")
	for _, v := range catalog {
		if v.ID == id {
			return v.URL, nil
		}
	}
	return nil, fmt.Errorf("unknown video id %q", id)
}

// videoItem builds the playable listing entry for a catalog video.
func videoItem(ctx *route.Context, v video) (*listing.Item, error) {
	target, err := ctx.Registry().Lookup("play")
	if err != nil {
		return nil, err
	}
	path, err := ctx.BuildPath(
		route.WithTarget(target),
		route.WithQuery(params.Mapping{"id": v.ID}))
	if err != nil {
		return nil, err
	}
	return &listing.Item{
		Label:      fmt.Sprintf("%s (%d)", v.Title, v.Year),
		Path:       path,
		IsPlayable: true,
		MediaType:  "video",
	}, nil
}

// rememberSearch appends a term to the profile search history.
func rememberSearch(term string) error {
	path := searchStorePath()
	if path == "" {
		return nil
	}
	l, err := storage.OpenList(path)
	if err != nil {
		return err
	}
	for _, v := range l.Data {
		if s, ok := v.(string); ok && s == term {
			return nil
		}
	}
	l.Append(term)
	return l.Close()
}

// searchStorePath locates the search history file, or "" when running
// without a profile directory.
func searchStorePath() string {
	profile := os.Getenv(host.EnvProfile)
	if profile == "" {
		return ""
	}
	return filepath.Join(profile, "searches.json")
}

// pageSize reads the page_size setting, defaulting to 3.
func pageSize(ctx *route.Context) int {
	if n, err := strconv.Atoi(ctx.Setting("page_size")); err == nil && n > 0 {
		return n
	}
	return 3
}

// titleCase upper-cases the first letter of a genre name for display.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// intParam reads an integer parameter arriving as either a native int64
// (opaque channel) or a decimal string (plain channel).
func intParam(p params.Mapping, key string, fallback int) int {
	switch v := p[key].(type) {
	case int64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
