// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/data-visualization-lectures/address-to-latlon/spatial"
)

// Format selects the output shape of the coordinate fields.
type Format string

const (
	// FormatSeparate keeps latitude and longitude as two distinct columns.
	FormatSeparate Format = "separate"
	// FormatCombined replaces them with a single "lat,lng" column.
	FormatCombined Format = "combined"
)

// ErrNothingToExport is returned when export is requested before a run has
// produced any results.
var ErrNothingToExport = errors.New("nothing to export")

// outputSuffix is appended to the input filename, before the extension.
const outputSuffix = "_geocoded"

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatSeparate:
		return FormatSeparate, nil
	case FormatCombined:
		return FormatCombined, nil
	default:
		return "", fmt.Errorf("unknown coordinate format: %q (want separate or combined)", s)
	}
}

// OutputName derives the download filename from the input filename:
// foo.csv becomes foo_geocoded.csv.
func OutputName(input string) string {
	base := filepath.Base(input)

	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".csv"
	}

	return strings.TrimSuffix(base, ext) + outputSuffix + ext
}

// Transform maps row results into the export shape. It is pure: the stored
// results are never mutated, and it may be re-applied with a different
// format on every download.
//
// The exported header is the original columns in file order followed by the
// enrichment fields actually observed: the coordinate field(s) only when at
// least one row succeeded (in combined mode lat_lon is set on every row, so
// it is always observed), geocoding_status always, and error_message only
// when at least one row did not succeed.
func Transform(columns []string, results []RowResult, format Format) *Document {
	var anySuccess, anyNotSuccess bool

	for _, res := range results {
		if res.Status == StatusSuccess {
			anySuccess = true
		} else {
			anyNotSuccess = true
		}
	}

	out := &Document{Columns: slices.Clone(columns)}

	switch {
	case format == FormatCombined:
		out.Columns = append(out.Columns, FieldLatLon)
	case anySuccess:
		out.Columns = append(out.Columns, FieldLatitude, FieldLongitude)
	}

	out.Columns = append(out.Columns, FieldStatus)

	if anyNotSuccess {
		out.Columns = append(out.Columns, FieldError)
	}

	for _, res := range results {
		rec := res.Record.Clone()

		if format == FormatCombined {
			rec[FieldLatLon] = ""
			if res.Point != nil {
				rec[FieldLatLon] = res.Point.String()
			}
		} else if res.Point != nil {
			rec[FieldLatitude] = spatial.FormatCoordinate(res.Point.Lat)
			rec[FieldLongitude] = spatial.FormatCoordinate(res.Point.Lng)
		}

		rec[FieldStatus] = string(res.Status)

		if res.Message != "" {
			rec[FieldError] = res.Message
		}

		out.Records = append(out.Records, rec)
	}

	return out
}
