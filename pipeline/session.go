// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"

	"github.com/data-visualization-lectures/address-to-latlon/geocode"
)

// Session is the ephemeral state bound to one uploaded file: the raw bytes,
// the decoded and parsed records, the column selection, the progress value
// and the results of the last run. It is created when a file is selected and
// discarded when a new file replaces it; nothing survives the session.
//
// A Session is not safe for concurrent use; callers that share one across
// goroutines (the web server does) must serialize access themselves.
type Session struct {
	filename  string
	raw       []byte
	encoding  string
	doc       *Document
	selection *ColumnSelection
	progress  int
	results   []RowResult
}

// NewSession decodes and parses the file with the given encoding and seeds
// the address-column selection to the first inferred column.
func NewSession(filename string, raw []byte, encodingName string) (*Session, error) {
	s := &Session{filename: filename, raw: raw}

	if err := s.SetEncoding(encodingName); err != nil {
		return nil, err
	}

	return s, nil
}

// SetEncoding re-decodes the original bytes with the named encoding,
// re-parses the records, re-derives the column list and re-seeds the
// selection to the first available column. Previous results are dropped.
// On failure the session keeps its prior state.
func (s *Session) SetEncoding(encodingName string) error {
	text, err := Decode(s.raw, encodingName)
	if err != nil {
		return err
	}

	doc, err := Parse(text)
	if err != nil {
		return err
	}

	name, _ := canonicalEncoding(encodingName)
	s.encoding = name
	s.doc = doc
	s.selection = NewColumnSelection(doc.Columns)
	s.results = nil
	s.progress = 0

	return nil
}

// Filename returns the name of the uploaded file.
func (s *Session) Filename() string { return s.filename }

// Encoding returns the canonical name of the active encoding.
func (s *Session) Encoding() string { return s.encoding }

// Columns returns the inferred column names in header order.
func (s *Session) Columns() []string { return s.selection.Available() }

// Selection returns the chosen address columns in toggle order.
func (s *Session) Selection() []string { return s.selection.Selected() }

// Toggle adds or removes an address column.
func (s *Session) Toggle(name string) error { return s.selection.Toggle(name) }

// Select replaces the address-column selection.
func (s *Session) Select(names ...string) error { return s.selection.Select(names...) }

// RecordCount returns the number of data rows.
func (s *Session) RecordCount() int { return len(s.doc.Records) }

// Progress returns the last reported percentage, in [0, 100].
func (s *Session) Progress() int { return s.progress }

// Results returns the outcome of the last run, in file order.
func (s *Session) Results() []RowResult { return s.results }

// PreviewAddresses returns the address string that would be sent for each of
// the first n records, built from the current selection.
func (s *Session) PreviewAddresses(n int) []string {
	if n > len(s.doc.Records) {
		n = len(s.doc.Records)
	}

	out := make([]string, 0, n)
	for _, rec := range s.doc.Records[:n] {
		out = append(out, BuildAddress(rec, s.selection.Selected()))
	}

	return out
}

// Process geocodes every record sequentially. Partial results are kept on
// cancellation so the caller can inspect what completed; any prior results
// are replaced.
func (s *Session) Process(ctx context.Context, g geocode.Geocoder, onProgress ProgressFunc) error {
	runner := &Runner{
		Geocoder: g,
		OnProgress: func(percent int) {
			s.progress = percent

			if onProgress != nil {
				onProgress(percent)
			}
		},
	}

	s.progress = 0

	results, err := runner.Run(ctx, s.doc, s.selection.Selected())
	s.results = results

	if err != nil {
		return fmt.Errorf("processing %s: %w", s.filename, err)
	}

	return nil
}

// Export applies the export transform to the stored results. It never
// mutates the session; re-exporting recomputes the same shape.
func (s *Session) Export(format Format) (*Document, error) {
	if len(s.results) == 0 {
		return nil, ErrNothingToExport
	}

	return Transform(s.doc.Columns, s.results, format), nil
}

// ExportCSV serializes the export shape to UTF-8 CSV text.
func (s *Session) ExportCSV(format Format) (string, error) {
	doc, err := s.Export(format)
	if err != nil {
		return "", err
	}

	return Serialize(doc)
}

// OutputFilename derives the download filename from the input filename.
func (s *Session) OutputFilename() string {
	return OutputName(s.filename)
}
