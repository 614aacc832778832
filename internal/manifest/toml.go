// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

type (
	tomlReader struct{}

	// tomlManifest is the document shape:
	//
	//	[[file]]
	//	name = "main.c"
	//	depends_on = ["util.h", "io.h"]
	tomlManifest struct {
		Files []tomlEntry `toml:"file"`
	}

	tomlEntry struct {
		Name      string   `toml:"name"`
		DependsOn []string `toml:"depends_on"`
	}
)

// Read decodes a TOML manifest. Syntax and type errors fail the whole read
// because no record boundary can be trusted after them.
func (tr *tomlReader) Read(r io.Reader, path string) (*Result, error) {
	var doc tomlManifest
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	res := &Result{}
	for i, entry := range doc.Files {
		res.checkEntry(path, i+1, entry.Name, entry.DependsOn)
	}
	return res, nil
}
