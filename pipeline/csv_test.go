// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *Document
	}{
		{
			name:  "plain rows",
			input: "pref,city\n東京都,千代田区\n大阪府,北区\n",
			expected: &Document{
				Columns: []string{"pref", "city"},
				Records: []Record{
					{"pref": "東京都", "city": "千代田区"},
					{"pref": "大阪府", "city": "北区"},
				},
			},
		},
		{
			name:  "quoted fields with delimiters and newlines",
			input: "name,note\n\"a,b\",\"line1\nline2\"\n",
			expected: &Document{
				Columns: []string{"name", "note"},
				Records: []Record{
					{"name": "a,b", "note": "line1\nline2"},
				},
			},
		},
		{
			name:  "blank lines are skipped",
			input: "\npref,city\n\n東京都,千代田区\n\n",
			expected: &Document{
				Columns: []string{"pref", "city"},
				Records: []Record{
					{"pref": "東京都", "city": "千代田区"},
				},
			},
		},
		{
			name:  "short row fills trailing fields with empty strings",
			input: "a,b,c\n1,2\n",
			expected: &Document{
				Columns: []string{"a", "b", "c"},
				Records: []Record{
					{"a": "1", "b": "2", "c": ""},
				},
			},
		},
		{
			name:  "extra fields beyond the header are dropped",
			input: "a,b\n1,2,3\n",
			expected: &Document{
				Columns: []string{"a", "b"},
				Records: []Record{
					{"a": "1", "b": "2"},
				},
			},
		},
		{
			name:  "header only",
			input: "a,b\n",
			expected: &Document{
				Columns: []string{"a", "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.expected, doc); diff != "" {
				t.Errorf("parse output mismatch (-expected +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"only blank lines", "\n\n"},
		{"duplicate header names", "a,b,a\n1,2,3\n"},
		{"unterminated quote", "name,addr\n\"unterminated\n"},
		{"stray quote", "name\nfoo\"bar\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.NotEmpty(t, parseErr.Error())
		})
	}
}

func TestSerialize(t *testing.T) {
	doc := &Document{
		Columns: []string{"name", "note"},
		Records: []Record{
			{"name": "a,b", "note": "say \"hi\""},
			{"name": "plain", "note": "line1\nline2"},
		},
	}

	text, err := Serialize(doc)
	require.NoError(t, err)
	assert.Equal(t, "name,note\n\"a,b\",\"say \"\"hi\"\"\"\nplain,\"line1\nline2\"\n", text)
}

func TestSerializeMissingFieldsBecomeEmptyCells(t *testing.T) {
	doc := &Document{
		Columns: []string{"a", "b"},
		Records: []Record{
			{"a": "1"},
		},
	}

	text, err := Serialize(doc)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\n", text)
}

// Parsing the serializer's output must recover field-for-field-equal records.
func TestSerializeParseRoundTrip(t *testing.T) {
	input := "pref,city,addr\n東京都,千代田区,\"丸の内1丁目\"\n大阪府,北区\n\"a,b\",\"multi\nline\",x\n"

	doc, err := Parse(input)
	require.NoError(t, err)

	text, err := Serialize(doc)
	require.NoError(t, err)

	again, err := Parse(text)
	require.NoError(t, err)

	if diff := cmp.Diff(doc, again); diff != "" {
		t.Errorf("round-trip mismatch (-first +second):\n%s", diff)
	}
}
