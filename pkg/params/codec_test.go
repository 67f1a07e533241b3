// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package params

import (
	"strings"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_PlainStrings(t *testing.T) {
	q, err := Encode(Mapping{"x": "1", "y": "two"})
	require.NoError(t, err)
	assert.Equal(t, "x=1&y=two", q)
}

func TestEncode_Empty(t *testing.T) {
	q, err := Encode(Mapping{})
	require.NoError(t, err)
	assert.Empty(t, q)
}

func TestEncode_NonStringUsesOpaqueChannel(t *testing.T) {
	q, err := Encode(Mapping{"page": int64(2), "title": "News"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(q, OpaqueKey+"="))
}

func TestEncode_ReservedKeyForcesOpaqueChannel(t *testing.T) {
	q, err := Encode(Mapping{OpaqueKey: "sneaky"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(q, OpaqueKey+"="))

	decoded, err := Decode(q)
	require.NoError(t, err)
	assert.Equal(t, Mapping{OpaqueKey: "sneaky"}, decoded)
}

func TestEncode_RejectsUnrepresentableType(t *testing.T) {
	_, err := Encode(Mapping{"ch": make(chan int)})
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, CodeEncodeFailed, oopsErr.Code())
}

func TestEncode_RejectsNestedUnrepresentableType(t *testing.T) {
	_, err := Encode(Mapping{"outer": map[string]any{"inner": struct{}{}}})
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Mapping
	}{
		{"strings", Mapping{"a": "1", "b": "two words"}},
		{"integers", Mapping{"count": int64(42), "neg": int64(-7)}},
		{"floats", Mapping{"ratio": 0.5}},
		{"booleans", Mapping{"flag": true, "other": false}},
		{"null", Mapping{"nothing": nil}},
		{"nested list", Mapping{"items": []any{"a", int64(1), true}}},
		{"nested mapping", Mapping{"meta": map[string]any{
			"title": "Foo",
			"tags":  []any{"x", "y"},
			"depth": map[string]any{"n": int64(3)},
		}}},
		{"percent noise", Mapping{"url": "http://example.com/?a=1&b=%20", "n": int64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Encode(tt.m)
			require.NoError(t, err)
			decoded, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.m, decoded)
		})
	}
}

func TestDecode_EmptyQuery(t *testing.T) {
	for _, q := range []string{"", "?"} {
		m, err := Decode(q)
		require.NoError(t, err)
		assert.Empty(t, m)
		assert.NotNil(t, m)
	}
}

func TestDecode_LeadingQuestionMark(t *testing.T) {
	m, err := Decode("?x=1&y=two")
	require.NoError(t, err)
	assert.Equal(t, Mapping{"x": "1", "y": "two"}, m)
}

func TestDecode_RepeatedKeysFirstWins(t *testing.T) {
	m, err := Decode("x=first&x=second&y=only")
	require.NoError(t, err)
	assert.Equal(t, "first", m["x"])
	assert.Equal(t, "only", m["y"])
}

func TestDecode_MalformedBlob(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not hex", OpaqueKey + "=zzzz"},
		{"hex but not json", OpaqueKey + "=deadbeef"},
		{"json but not object", OpaqueKey + "=5b5d"}, // "[]"
		// {"v":99,"d":{}}
		{"unknown version", OpaqueKey + "=7b2276223a39392c2264223a7b7d7d"},
		// {"v":1,"d":[]}
		{"payload not mapping", OpaqueKey + "=7b2276223a312c2264223a5b5d7d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.blob)
			require.Error(t, err)
			oopsErr, ok := oops.AsOops(err)
			require.True(t, ok)
			assert.Equal(t, CodeDecodeFailed, oopsErr.Code())
		})
	}
}

func TestDecode_MalformedPlainQuery(t *testing.T) {
	_, err := Decode("a=%zz")
	require.Error(t, err)
}

func TestMapping_Bool(t *testing.T) {
	m := Mapping{"t": "true", "one": "1", "f": "false", "b": true}
	assert.True(t, m.Bool("t", false))
	assert.True(t, m.Bool("one", false))
	assert.False(t, m.Bool("f", true))
	assert.True(t, m.Bool("b", false))
	assert.True(t, m.Bool("missing", true))
	assert.False(t, m.Bool("missing", false))
}

func TestMapping_Copy(t *testing.T) {
	m := Mapping{"a": "1"}
	c := m.Copy()
	c["a"] = "2"
	assert.Equal(t, "1", m["a"])
}
