// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the depcheck command line.
//
// The root command takes exactly one dependency file, prints one verdict
// line on stdout and exits 0 whichever verdict it reached. Operational
// failures exit 1 and usage errors exit 2.
package cmd
