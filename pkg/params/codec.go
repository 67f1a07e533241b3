// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

// Package params encodes and decodes the two request parameter channels:
// plain percent-encoded query strings for flat string mappings, and an
// opaque serialized blob for mappings that plain query text cannot
// represent losslessly.
package params

import (
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/ohler55/ojg/oj"
	"github.com/samber/oops"
)

// OpaqueKey is the reserved query key carrying the serialized blob.
// A query string of the form "_json_=<hex>" is an opaque-channel request;
// the key must never be used as a plain parameter name.
const OpaqueKey = "_json_"

// blobVersion is the serialization format version embedded in every blob.
const blobVersion = 1

// Error codes for codec failures.
const (
	CodeDecodeFailed = "DECODE_FAILED"
	CodeEncodeFailed = "ENCODE_FAILED"
)

// Mapping is a decoded parameter set. Values are restricted to the closed
// set: string, bool, nil, int64, float64, []any and map[string]any of the
// same. Integers always round-trip as int64.
type Mapping map[string]any

// Copy returns a shallow copy of the mapping.
func (m Mapping) Copy() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// String returns the value for key as a string, or "" if absent or not a
// string.
func (m Mapping) String(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Bool returns the value for key interpreted as a boolean. Plain-channel
// values arrive as strings, so "true" and "1" count as true.
func (m Mapping) Bool(key string, fallback bool) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		lower := strings.ToLower(v)
		return lower == "true" || lower == "1"
	default:
		return fallback
	}
}

// Encode serializes a mapping into a query string. Mappings holding only
// string values use plain percent-encoded form with keys in sorted order;
// anything else is routed through the opaque channel.
func Encode(m Mapping) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	if plainOnly(m) {
		values := url.Values{}
		for k, v := range m {
			values.Set(k, v.(string))
		}
		return values.Encode(), nil
	}
	return EncodeOpaque(m)
}

// EncodeOpaque serializes a mapping through the opaque channel regardless
// of its contents. The blob is a versioned JSON envelope, hex encoded so
// it survives any query-string handling.
func EncodeOpaque(m Mapping) (string, error) {
	if err := checkValues("", map[string]any(m)); err != nil {
		return "", err
	}
	envelope := map[string]any{"v": blobVersion, "d": map[string]any(m)}
	data, err := oj.Marshal(envelope)
	if err != nil {
		return "", oops.Code(CodeEncodeFailed).Wrap(err)
	}
	return OpaqueKey + "=" + hex.EncodeToString(data), nil
}

// Decode parses a query string into a mapping. An empty or absent query
// yields an empty mapping. Repeated plain keys normalize to the first
// occurrence. A query carrying the reserved opaque key is decoded through
// the blob channel instead.
func Decode(query string) (Mapping, error) {
	query = strings.TrimPrefix(query, "?")
	if query == "" {
		return Mapping{}, nil
	}

	if blob, ok := strings.CutPrefix(query, OpaqueKey+"="); ok {
		return decodeOpaque(blob)
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return nil, oops.Code(CodeDecodeFailed).
			With("query", query).
			Wrapf(err, "malformed query string")
	}
	m := make(Mapping, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			m[k] = vs[0]
		}
	}
	return m, nil
}

// decodeOpaque recovers the original mapping from a hex-encoded blob.
func decodeOpaque(blob string) (Mapping, error) {
	raw, err := hex.DecodeString(blob)
	if err != nil {
		return nil, oops.Code(CodeDecodeFailed).Wrapf(err, "corrupt opaque parameter blob")
	}
	parsed, err := oj.Parse(raw)
	if err != nil {
		return nil, oops.Code(CodeDecodeFailed).Wrapf(err, "corrupt opaque parameter blob")
	}
	envelope, ok := parsed.(map[string]any)
	if !ok {
		return nil, oops.Code(CodeDecodeFailed).Errorf("opaque blob is not an object")
	}
	version, ok := envelope["v"].(int64)
	if !ok || version != blobVersion {
		return nil, oops.Code(CodeDecodeFailed).
			With("version", envelope["v"]).
			Errorf("unsupported opaque blob version")
	}
	payload, ok := envelope["d"].(map[string]any)
	if !ok {
		return nil, oops.Code(CodeDecodeFailed).Errorf("opaque blob payload is not a mapping")
	}
	return Mapping(payload), nil
}

// plainOnly reports whether every value is a string, making the mapping
// representable as a plain query string. The reserved key forces the
// opaque channel so round-tripping stays unambiguous.
func plainOnly(m Mapping) bool {
	for k, v := range m {
		if k == OpaqueKey {
			return false
		}
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return true
}

// checkValues rejects values outside the closed representable type set.
func checkValues(path string, v any) error {
	switch val := v.(type) {
	case nil, string, bool, int, int64, float64:
		return nil
	case []any:
		for _, item := range val {
			if err := checkValues(path, item); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		for k, sub := range val {
			key := k
			if path != "" {
				key = path + "." + k
			}
			if err := checkValues(key, sub); err != nil {
				return err
			}
		}
		return nil
	default:
		return oops.Code(CodeEncodeFailed).
			With("key", path).
			Errorf("unrepresentable parameter type %T", v)
	}
}
