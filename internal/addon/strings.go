// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package addon

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// stringsCandidates are the paths searched for the localized strings
// catalog, relative to the addon directory.
var stringsCandidates = []string{
	filepath.Join("resources", "strings.po"),
	filepath.Join("resources", "language", "resource.language.en_gb", "strings.po"),
}

// msgEntry matches one gettext catalog entry keyed by a numeric context
// id, the convention used for addon string ids.
var msgEntry = regexp.MustCompile(`(?m)^msgctxt "#(\d+)"\r?\nmsgid "((?:[^"\\]|\\.)*)"\r?\nmsgstr "((?:[^"\\]|\\.)*)"`)

// ParseStrings extracts the id-to-text catalog from strings.po content.
// An empty msgstr falls back to the msgid, matching gettext semantics
// for untranslated entries.
func ParseStrings(data []byte) map[int]string {
	out := make(map[int]string)
	for _, match := range msgEntry.FindAllStringSubmatch(string(data), -1) {
		id, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		text := match[3]
		if text == "" {
			text = match[2]
		}
		out[id] = unescapePo(text)
	}
	return out
}

// LoadStrings reads the localized string catalog of an addon. A missing
// catalog yields an empty map.
func LoadStrings(addonDir string) (map[int]string, error) {
	for _, rel := range stringsCandidates {
		data, err := os.ReadFile(filepath.Join(addonDir, rel))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return ParseStrings(data), nil
	}
	return map[int]string{}, nil
}

// unescapePo resolves the escape sequences allowed in po string values.
func unescapePo(s string) string {
	r := strings.NewReplacer(`\"`, `"`, `\n`, "\n", `\t`, "\t", `\\`, `\`)
	return r.Replace(s)
}
