// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/data-visualization-lectures/address-to-latlon/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
