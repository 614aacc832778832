// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the shared CUE compile-unify-decode flow used by
// depcheck for its configuration file and for CUE dependency manifests.
//
//	//go:embed manifest_schema.cue
//	var schema []byte
//
//	parsed, err := cueutil.ParseAndDecode[manifest](schema, data, "#Manifest",
//	    cueutil.WithFilename("deps.cue"))
//
// Errors carry the file name and a JSON-style path to the offending value
// (for example "deps.cue: files[2].name: conflicting values").
package cueutil
