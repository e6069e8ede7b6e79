// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"

	"github.com/data-visualization-lectures/address-to-latlon/geocode"
)

// Precondition failures: a run never starts while any of these hold. They
// are recoverable by user action and are distinct from per-row failures.
var (
	ErrNoDocument        = errors.New("no file loaded")
	ErrNoColumnsSelected = errors.New("no address columns selected")
	ErrGeocoderNotReady  = errors.New("geocoding service is not ready")
)

// Fixed user-facing row messages. Error detail goes to the log only.
const (
	messageEmptyAddress = "address is empty"
	messageNoResult     = "no result found"
)

// ProgressFunc observes the overall progress as an integer percentage. It is
// called after every record completes, and the final call is always 100.
type ProgressFunc func(percent int)

// BuildAddress concatenates the values of the given columns in order,
// trimming whitespace per field and dropping fields that are empty after
// trimming. Fields are joined with no separator, matching the preview and
// export behavior.
func BuildAddress(rec Record, columns []string) string {
	var sb strings.Builder

	for _, name := range columns {
		sb.WriteString(strings.TrimSpace(rec[name]))
	}

	return sb.String()
}

func progressPercent(completed, total int) int {
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// Runner is the sequencing engine: it iterates records in file order, builds
// an address per record, invokes the geocoder, classifies the outcome, and
// reports progress. Processing is strictly sequential so at most one
// geocoding call is in flight at any time.
type Runner struct {
	Geocoder   geocode.Geocoder
	OnProgress ProgressFunc
}

// Run processes every record of the document. Per-row failures never abort
// the run: a failing or skipped row is recorded inline and the remaining
// rows are still attempted. The context is checked before every geocoding
// call; on cancellation the results so far are returned along with the
// context's error.
func (r *Runner) Run(ctx context.Context, doc *Document, addressColumns []string) ([]RowResult, error) {
	if r.Geocoder == nil {
		return nil, ErrGeocoderNotReady
	}

	if doc == nil {
		return nil, ErrNoDocument
	}

	if len(addressColumns) == 0 {
		return nil, ErrNoColumnsSelected
	}

	total := len(doc.Records)
	results := make([]RowResult, 0, total)

	for i, rec := range doc.Records {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := RowResult{
			Record:  rec,
			Address: BuildAddress(rec, addressColumns),
		}

		if res.Address == "" {
			res.Status = StatusSkipped
			res.Message = messageEmptyAddress
		} else {
			loc, err := r.Geocoder.Geocode(ctx, res.Address)

			// A cancelled call is an aborted run, not a row failure.
			if err != nil && ctx.Err() != nil {
				return results, ctx.Err()
			}

			switch {
			case err != nil:
				log.Printf("Geocoding row %d (%q) failed - %s", i+1, res.Address, err)

				res.Status = StatusFailure
				res.Message = messageNoResult
			case loc == nil:
				res.Status = StatusFailure
				res.Message = messageNoResult
			default:
				res.Status = StatusSuccess
				point := loc.Point
				res.Point = &point
			}
		}

		results = append(results, res)

		if r.OnProgress != nil {
			r.OnProgress(progressPercent(i+1, total))
		}
	}

	return results, nil
}
