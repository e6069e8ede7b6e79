// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/data-visualization-lectures/address-to-latlon/geocode"
	"github.com/data-visualization-lectures/address-to-latlon/pipeline"
)

// clusterThresholdMeters groups geocoded rows that landed within walking
// distance of each other when reporting the summary.
const clusterThresholdMeters = 100

var convertOptions = struct {
	encoding string
	columns  string
	format   string
	output   string
	apiKey   string
	region   string
	language string
	timeout  time.Duration
}{}

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Geocode the address column(s) of a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]

		raw, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading %s: %w", input, err)
		}

		sess, err := pipeline.NewSession(input, raw, convertOptions.encoding)
		if err != nil {
			return err
		}

		if convertOptions.columns != "" {
			names := strings.Split(convertOptions.columns, ",")
			for i := range names {
				names[i] = strings.TrimSpace(names[i])
			}

			if err := sess.Select(names...); err != nil {
				return err
			}
		}

		format, err := pipeline.ParseFormat(convertOptions.format)
		if err != nil {
			return err
		}

		key, err := geocode.ResolveAPIKey(cmd.Context(), convertOptions.apiKey)
		if err != nil {
			return err
		}

		geocoder := geocode.NewGoogleMapsGeocoder(geocode.GoogleMapsOptions{
			APIKey:   key,
			Region:   convertOptions.region,
			Language: convertOptions.language,
			Timeout:  convertOptions.timeout,
		})

		fmt.Printf("Geocoding %d records from %s (columns: %s)\n",
			sess.RecordCount(), input, strings.Join(sess.Selection(), ", "))

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(100,
				progressbar.OptionSetDescription("Geocoding "+filepath.Base(input)),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)
		}

		err = sess.Process(cmd.Context(), geocoder, func(percent int) {
			if bar != nil {
				_ = bar.Set(percent)

				return
			}

			log.Printf("progress: %d%%", percent)
		})
		if err != nil {
			return err
		}

		text, err := sess.ExportCSV(format)
		if err != nil {
			return err
		}

		output := convertOptions.output
		if output == "" {
			output = filepath.Join(filepath.Dir(input), sess.OutputFilename())
		}

		if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}

		if err := printSummary(sess.Results()); err != nil {
			return err
		}

		fmt.Printf("Wrote %s\n", output)

		return nil
	},
}

func printSummary(results []pipeline.RowResult) error {
	repo, err := pipeline.NewSQLResultRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.CreateSchema(); err != nil {
		return err
	}

	if err := repo.SaveResults(results); err != nil {
		return err
	}

	summary, err := repo.Summary()
	if err != nil {
		return err
	}

	fmt.Printf("Done: %d rows, %d geocoded, %d failed, %d skipped\n",
		summary.Total, summary.Success, summary.Failure, summary.Skipped)

	if summary.Success > 0 {
		clusters := pipeline.CountClusters(results, clusterThresholdMeters)
		fmt.Printf("Coverage: %d distinct areas, %d location clusters (within %dm)\n",
			summary.DistinctCells, clusters, clusterThresholdMeters)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVar(
		&convertOptions.encoding,
		"encoding",
		pipeline.EncodingUTF8,
		"Character encoding of the input file (UTF-8 or Shift_JIS)",
	)
	convertCmd.Flags().StringVar(
		&convertOptions.columns,
		"columns",
		"",
		"Comma-separated address columns, joined in the given order. Defaults to the first column",
	)
	convertCmd.Flags().StringVar(
		&convertOptions.format,
		"format",
		string(pipeline.FormatSeparate),
		"Coordinate output shape: separate (latitude/longitude) or combined (lat_lon)",
	)
	convertCmd.Flags().StringVar(
		&convertOptions.output,
		"output",
		"",
		"Output file. Defaults to <input>_geocoded.csv next to the input",
	)
	convertCmd.Flags().StringVar(
		&convertOptions.apiKey,
		"api-key",
		"",
		"Google Maps API key. Falls back to GOOGLE_MAPS_API_KEY, then ADC",
	)
	convertCmd.Flags().StringVar(
		&convertOptions.region,
		"region",
		"jp",
		"Region bias for geocoding (ccTLD)",
	)
	convertCmd.Flags().StringVar(
		&convertOptions.language,
		"language",
		"ja",
		"Language for resolved addresses",
	)
	convertCmd.Flags().DurationVar(
		&convertOptions.timeout,
		"timeout",
		10*time.Second,
		"Timeout for a single geocoding request",
	)
}
