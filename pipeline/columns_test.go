// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewColumnSelectionSeedsFirstColumn(t *testing.T) {
	s := NewColumnSelection([]string{"pref", "city", "addr"})

	assert.Equal(t, []string{"pref", "city", "addr"}, s.Available())
	assert.Equal(t, []string{"pref"}, s.Selected())
	assert.False(t, s.IsEmpty())
}

func TestNewColumnSelectionEmpty(t *testing.T) {
	s := NewColumnSelection(nil)

	assert.Empty(t, s.Selected())
	assert.True(t, s.IsEmpty())
}

func TestToggleKeepsInsertionOrder(t *testing.T) {
	s := NewColumnSelection([]string{"pref", "city", "addr"})

	// Selection order is toggle order, not header order.
	require.NoError(t, s.Toggle("addr"))
	require.NoError(t, s.Toggle("city"))
	assert.Equal(t, []string{"pref", "addr", "city"}, s.Selected())

	// Toggling a selected column removes it.
	require.NoError(t, s.Toggle("pref"))
	assert.Equal(t, []string{"addr", "city"}, s.Selected())

	// And toggling again re-appends at the end.
	require.NoError(t, s.Toggle("pref"))
	assert.Equal(t, []string{"addr", "city", "pref"}, s.Selected())
}

func TestToggleUnknownColumn(t *testing.T) {
	s := NewColumnSelection([]string{"pref"})

	require.Error(t, s.Toggle("nope"))
	assert.Equal(t, []string{"pref"}, s.Selected())
}

func TestSelectReplacesSelection(t *testing.T) {
	s := NewColumnSelection([]string{"pref", "city", "addr"})

	require.NoError(t, s.Select("city", "addr"))
	assert.Equal(t, []string{"city", "addr"}, s.Selected())

	require.Error(t, s.Select("city", "nope"))
	require.Error(t, s.Select("city", "city"))

	require.NoError(t, s.Select())
	assert.True(t, s.IsEmpty())
}
