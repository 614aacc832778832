// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/invowk/depcheck/pkg/cueutil"
)

//go:embed manifest_schema.cue
var manifestSchema []byte

type (
	cueReader struct{}

	cueManifest struct {
		Files []cueEntry `json:"files"`
	}

	cueEntry struct {
		Name      string   `json:"name"`
		DependsOn []string `json:"depends_on"`
	}
)

// Read validates the document against #Manifest and converts its entries.
func (cr *cueReader) Read(r io.Reader, path string) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	parsed, err := cueutil.ParseAndDecode[cueManifest](manifestSchema, data, "#Manifest",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(true),
	)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for i, entry := range parsed.Value.Files {
		res.checkEntry(path, i+1, entry.Name, entry.DependsOn)
	}
	return res, nil
}
