// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *GoogleMapsGeocoder {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewGoogleMapsGeocoder(GoogleMapsOptions{
		APIKey:   "test-key",
		Region:   "jp",
		Language: "ja",
		Endpoint: srv.URL,
	})
}

func TestGoogleMapsGeocoder_OK(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "東京都千代田区丸の内1丁目", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "jp", r.URL.Query().Get("region"))
		assert.Equal(t, "ja", r.URL.Query().Get("language"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "日本、〒100-0005 東京都千代田区丸の内1丁目",
				"geometry": {
					"location": {"lat": 35.681236, "lng": 139.767125},
					"location_type": "ROOFTOP"
				}
			}]
		}`))
	})

	result, err := g.Geocode(context.Background(), "東京都千代田区丸の内1丁目")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 35.681236, result.Point.Lat)
	assert.Equal(t, 139.767125, result.Point.Lng)
	assert.Equal(t, "high", result.Confidence)
	assert.Equal(t, "google_maps", result.Provider)
}

func TestGoogleMapsGeocoder_ZeroResults(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	result, err := g.Geocode(context.Background(), "どこでもない場所")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestGoogleMapsGeocoder_QuotaExceeded(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "OVER_QUERY_LIMIT", "results": []}`))
	})

	_, err := g.Geocode(context.Background(), "東京")
	require.Error(t, err)
	assert.True(t, IsQuotaExceededError(err))
}

func TestGoogleMapsGeocoder_HTTPError(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := g.Geocode(context.Background(), "東京")
	require.Error(t, err)
	assert.True(t, IsRateLimitError(err))
}

func TestGoogleMapsGeocoder_ContextCancelled(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "OK", "results": []}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Geocode(ctx, "東京")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGoogleMapsGeocoder_InvalidCoordinates(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "broken",
				"geometry": {"location": {"lat": 1234.5, "lng": 0}, "location_type": "APPROXIMATE"}
			}]
		}`))
	})

	_, err := g.Geocode(context.Background(), "東京")
	require.Error(t, err)
}
