// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointString(t *testing.T) {
	tests := []struct {
		point    Point
		expected string
	}{
		{Point{Lat: 35.123456, Lng: 139.654321}, "35.123456,139.654321"},
		{Point{Lat: 35, Lng: 139}, "35,139"},
		{Point{Lat: -34.9011, Lng: -56.1645}, "-34.9011,-56.1645"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.point.String())
	}
}

func TestPointValidate(t *testing.T) {
	require.NoError(t, Point{Lat: 35.6809, Lng: 139.7673}.Validate())
	require.Error(t, Point{Lat: 91, Lng: 0}.Validate())
	require.Error(t, Point{Lat: 0, Lng: -181}.Validate())
}

func TestHaversineDistance(t *testing.T) {
	tokyo := Point{Lat: 35.6809, Lng: 139.7673}
	osaka := Point{Lat: 34.7025, Lng: 135.4959}

	d := tokyo.HaversineDistance(&osaka)

	// Tokyo and Osaka stations are roughly 400 km apart.
	assert.InDelta(t, 400e3, d, 10e3)

	assert.Zero(t, tokyo.HaversineDistance(&tokyo))
}
