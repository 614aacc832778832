// SPDX-License-Identifier: MPL-2.0

// Package manifest reads dependency listings into (source, dependencies)
// records.
//
// Three input formats are supported. The line format is one record per line,
// written as "name: dep1, dep2". TOML and CUE manifests describe the same
// records as a list of {name, depends_on} entries. Readers collect malformed
// records instead of failing so that callers can still work with the valid
// part of the input.
package manifest
