// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"

	"github.com/data-visualization-lectures/address-to-latlon/spatial"
)

// Result represents a geocoding result from any provider.
type Result struct {
	Point       spatial.Point
	Confidence  string // high, medium, low
	Provider    string
	DisplayName string
}

// Geocoder interface for different geocoding providers.
//
// Geocode resolves a free-text address to coordinates. A (nil, nil) return
// means the provider answered but found no match; callers must treat it the
// same as an error ("no usable result").
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}
