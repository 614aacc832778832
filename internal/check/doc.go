// SPDX-License-Identifier: MPL-2.0

// Package check runs one dependency check: it reads a manifest, builds the
// dependency graph and reports whether the graph contains a cycle.
package check
