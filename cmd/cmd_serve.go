// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/data-visualization-lectures/address-to-latlon/geocode"
	"github.com/data-visualization-lectures/address-to-latlon/web"
)

var serveOptions = struct {
	listen string
	apiKey string
}{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web interface",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var geocoder geocode.Geocoder

		key, err := geocode.ResolveAPIKey(cmd.Context(), serveOptions.apiKey)
		if err != nil {
			// Uploads and column selection still work without a key; runs
			// answer 412 until one is configured.
			log.Printf("no geocoder available: %v", err)
		} else {
			geocoder = geocode.NewGoogleMapsGeocoder(geocode.GoogleMapsOptions{
				APIKey:   key,
				Region:   "jp",
				Language: "ja",
			})
		}

		log.Printf("listening on http://%s", serveOptions.listen)

		return web.NewServer(geocoder).Run(serveOptions.listen)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(
		&serveOptions.listen,
		"listen",
		"localhost:8080",
		"Address to listen on",
	)
	serveCmd.Flags().StringVar(
		&serveOptions.apiKey,
		"api-key",
		"",
		"Google Maps API key. Falls back to GOOGLE_MAPS_API_KEY, then ADC",
	)
}
