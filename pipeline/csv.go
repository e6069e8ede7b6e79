// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseError signals malformed CSV input. The message is meant to be shown
// to the user as-is.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads delimited text into a Document. The first non-empty line is
// the header and defines the column names in order; blank lines are skipped.
// A row with fewer fields than the header gets empty strings for the missing
// trailing fields; fields beyond the header are dropped.
func Parse(text string) (*Document, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1 // rows may be shorter or longer than the header

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Message: "empty file: a header row is required"}
	}

	if err != nil {
		return nil, &ParseError{Message: "malformed CSV header", Err: err}
	}

	seen := make(map[string]bool, len(header))

	for _, name := range header {
		if seen[name] {
			return nil, &ParseError{Message: fmt.Sprintf("duplicate column name %q in header", name)}
		}

		seen[name] = true
	}

	doc := &Document{Columns: header}

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, &ParseError{Message: "malformed CSV row", Err: err}
		}

		rec := make(Record, len(header))

		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}

		doc.Records = append(doc.Records, rec)
	}

	return doc, nil
}

// Serialize writes a Document back to CSV text. The header is the document's
// column list; fields a record does not carry become empty cells. Output is
// always UTF-8 regardless of the input encoding.
func Serialize(doc *Document) (string, error) {
	var sb strings.Builder

	w := csv.NewWriter(&sb)

	if err := w.Write(doc.Columns); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, len(doc.Columns))

	for _, rec := range doc.Records {
		for i, name := range doc.Columns {
			row[i] = rec[name]
		}

		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing CSV: %w", err)
	}

	return sb.String(), nil
}
