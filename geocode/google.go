// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const googleMapsEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleMapsOptions configures the Google Maps geocoder.
type GoogleMapsOptions struct {
	// APIKey is the Google Maps Geocoding API key.
	APIKey string

	// Region biases results towards a country (ccTLD, e.g. "jp").
	Region string

	// Language for formatted addresses (e.g. "ja").
	Language string

	// Timeout for a single geocoding request. Defaults to 10 seconds.
	Timeout time.Duration

	// Endpoint overrides the API endpoint. Used by tests.
	Endpoint string
}

// GoogleMapsGeocoder uses the Google Maps Geocoding API.
type GoogleMapsGeocoder struct {
	options    GoogleMapsOptions
	httpClient *http.Client
}

// NewGoogleMapsGeocoder creates a new Google Maps geocoder.
func NewGoogleMapsGeocoder(options GoogleMapsOptions) *GoogleMapsGeocoder {
	if options.Endpoint == "" {
		options.Endpoint = googleMapsEndpoint
	}

	if options.Timeout == 0 {
		options.Timeout = 10 * time.Second
	}

	return &GoogleMapsGeocoder{
		options: options,
		httpClient: &http.Client{
			Timeout: options.Timeout,
		},
	}
}

type googleMapsResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			LocationType string `json:"location_type"` // ROOFTOP, RANGE_INTERPOLATED, GEOMETRIC_CENTER, APPROXIMATE
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status string `json:"status"` // OK, ZERO_RESULTS, etc.
}

// Geocode resolves an address. ZERO_RESULTS is reported as (nil, nil); other
// non-OK statuses become GeocodingError values.
func (g *GoogleMapsGeocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.options.APIKey)

	if g.options.Region != "" {
		params.Set("region", g.options.Region)
	}

	if g.options.Language != "" {
		params.Set("language", g.options.Language)
	}

	reqURL := g.options.Endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building geocoding request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode, resp.Status)
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	switch gmResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, nil
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return nil, &GeocodingError{Type: ErrorTypeQuotaExceeded, Message: "google maps status: " + gmResp.Status}
	case "INVALID_REQUEST":
		return nil, &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "google maps status: " + gmResp.Status}
	default:
		return nil, &GeocodingError{Type: ErrorTypeUnknown, Message: "google maps status: " + gmResp.Status}
	}

	if len(gmResp.Results) == 0 {
		return nil, nil
	}

	result := gmResp.Results[0]

	// Determine confidence based on location_type
	confidence := "low"

	switch result.Geometry.LocationType {
	case "ROOFTOP":
		confidence = "high"
	case "RANGE_INTERPOLATED":
		confidence = "high"
	case "GEOMETRIC_CENTER":
		confidence = "medium"
	case "APPROXIMATE":
		confidence = "low"
	}

	ret := &Result{
		Confidence:  confidence,
		Provider:    "google_maps",
		DisplayName: result.FormattedAddress,
	}
	ret.Point.Lat = result.Geometry.Location.Lat
	ret.Point.Lng = result.Geometry.Location.Lng

	if err := ret.Point.Validate(); err != nil {
		return nil, fmt.Errorf("provider returned invalid coordinates: %w", err)
	}

	return ret, nil
}
