// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import "github.com/data-visualization-lectures/address-to-latlon/spatial"

// Field names appended to records by the pipeline and the export transform.
const (
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
	FieldLatLon    = "lat_lon"
	FieldStatus    = "geocoding_status"
	FieldError     = "error_message"
)

// Status is the per-row outcome of the geocoding pipeline.
type Status string

const (
	// StatusSuccess the row was geocoded and has coordinates.
	StatusSuccess Status = "success"
	// StatusFailure the gateway returned no usable result.
	StatusFailure Status = "failure"
	// StatusSkipped the built address was empty; no gateway call was made.
	StatusSkipped Status = "skipped"
)

// Record is one logical row of tabular data, fields identified by name.
// Field order is not carried by the record itself; it lives in the owning
// Document's column list.
type Record map[string]string

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}

	return out
}

// Document is an ordered set of records plus the column order established by
// the header row.
type Document struct {
	Columns []string
	Records []Record
}

// RowResult is the outcome of processing one record. Exactly one status
// holds; Point is non-nil iff the status is success, and Message is set iff
// the status is not success.
type RowResult struct {
	Record  Record
	Address string
	Status  Status
	Point   *spatial.Point
	Message string
}
