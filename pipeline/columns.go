// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"fmt"
	"slices"
)

// ColumnSelection tracks which columns of a document form the address, in
// the order they were chosen. The order matters: it is the concatenation
// order when the address string is built.
type ColumnSelection struct {
	available []string
	selected  []string
}

// NewColumnSelection creates a selection over the given columns, seeded to
// the first available column.
func NewColumnSelection(available []string) *ColumnSelection {
	s := &ColumnSelection{available: available}

	if len(available) > 0 {
		s.selected = []string{available[0]}
	}

	return s
}

// Available returns the column names in header order.
func (s *ColumnSelection) Available() []string {
	return slices.Clone(s.available)
}

// Selected returns the chosen columns in toggle order.
func (s *ColumnSelection) Selected() []string {
	return slices.Clone(s.selected)
}

// IsEmpty reports whether no column is selected.
func (s *ColumnSelection) IsEmpty() bool {
	return len(s.selected) == 0
}

// Toggle adds the column to the selection, or removes it if already
// selected. Selection order is the insertion order of toggles, not header
// order.
func (s *ColumnSelection) Toggle(name string) error {
	if !slices.Contains(s.available, name) {
		return fmt.Errorf("unknown column: %q", name)
	}

	if i := slices.Index(s.selected, name); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
	} else {
		s.selected = append(s.selected, name)
	}

	return nil
}

// Select replaces the selection with the given columns, keeping their order.
func (s *ColumnSelection) Select(names ...string) error {
	selected := make([]string, 0, len(names))

	for _, name := range names {
		if !slices.Contains(s.available, name) {
			return fmt.Errorf("unknown column: %q", name)
		}

		if slices.Contains(selected, name) {
			return fmt.Errorf("column selected twice: %q", name)
		}

		selected = append(selected, name)
	}

	s.selected = selected

	return nil
}
