// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/data-visualization-lectures/address-to-latlon/pipeline"
)

var columnsEncoding string

var columnsCmd = &cobra.Command{
	Use:   "columns <file>",
	Short: "List the columns inferred from a CSV file's header",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		sess, err := pipeline.NewSession(args[0], raw, columnsEncoding)
		if err != nil {
			return err
		}

		columns := sess.Columns()

		width := len("Column")
		for _, name := range columns {
			if n := utf8.RuneCountInString(name); n > width {
				width = n
			}
		}

		a, b := strings.Repeat("─", 3), strings.Repeat("─", width)
		fmt.Printf("%s: %d records, %s\n", sess.Filename(), sess.RecordCount(), sess.Encoding())
		fmt.Printf("╭─%3s─┬─%-*s─╮\n", a, width, b)
		fmt.Printf("│ %3s │ %-*s │\n", "#", width, "Column")
		fmt.Printf("├─%3s─┼─%-*s─┤\n", a, width, b)

		for i, name := range columns {
			pad := width - utf8.RuneCountInString(name)
			fmt.Printf("│ %3d │ %s%s │\n", i+1, name, strings.Repeat(" ", pad))
		}

		fmt.Printf("╰─%3s─┴─%-*s─╯\n", a, width, b)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	columnsCmd.Flags().StringVar(
		&columnsEncoding,
		"encoding",
		pipeline.EncodingUTF8,
		"Character encoding of the file (UTF-8 or Shift_JIS)",
	)
}
