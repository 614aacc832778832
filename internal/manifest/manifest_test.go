// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func readLines(t *testing.T, input string) *Result {
	t.Helper()
	res, err := (&lineReader{}).Read(strings.NewReader(input), "deps.txt")
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	return res
}

func TestLineReader_Records(t *testing.T) {
	t.Parallel()

	res := readLines(t, "A: B,C\nB:\nC:\n")
	want := []Record{
		{Source: "A", Dependencies: []string{"B", "C"}, Line: 1},
		{Source: "B", Line: 2},
		{Source: "C", Line: 3},
	}
	if len(res.Records) != len(want) {
		t.Fatalf("got %d records, want %d: %+v", len(res.Records), len(want), res.Records)
	}
	for i := range want {
		got := res.Records[i]
		if got.Source != want[i].Source || got.Line != want[i].Line || !slices.Equal(got.Dependencies, want[i].Dependencies) {
			t.Errorf("record %d = %+v, want %+v", i, got, want[i])
		}
	}
	if len(res.Malformed) != 0 {
		t.Errorf("unexpected malformed lines: %v", res.Malformed)
	}
}

func TestLineReader_Whitespace(t *testing.T) {
	t.Parallel()

	res := readLines(t, "  main.c :util.h ,  io.h  \r\nmy file.c:other file.h\n")
	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(res.Records))
	}
	if r := res.Records[0]; r.Source != "main.c" || !slices.Equal(r.Dependencies, []string{"util.h", "io.h"}) {
		t.Errorf("record 0 = %+v", r)
	}
	if r := res.Records[1]; r.Source != "my file.c" || !slices.Equal(r.Dependencies, []string{"other file.h"}) {
		t.Errorf("record 1 = %+v", r)
	}
}

func TestLineReader_SkipsBlankAndComments(t *testing.T) {
	t.Parallel()

	res := readLines(t, "\n# header\n   \nA: B\n  # indented comment\n")
	if len(res.Records) != 1 || res.Records[0].Line != 4 {
		t.Errorf("records = %+v, want one record on line 4", res.Records)
	}
	if len(res.Malformed) != 0 {
		t.Errorf("malformed = %v, want none", res.Malformed)
	}
}

func TestLineReader_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   string
		reason string
	}{
		{name: "no separator", line: "A B C", reason: "missing ':' separator"},
		{name: "two separators", line: "A: B: C", reason: "more than one ':' separator"},
		{name: "empty source", line: ": B", reason: "missing file name before ':'"},
		{name: "empty dependency", line: "A: B,,C", reason: "empty dependency name"},
		{name: "trailing comma", line: "A: B,", reason: "empty dependency name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := readLines(t, "X: Y\n"+tt.line+"\nZ:\n")
			if len(res.Records) != 2 {
				t.Errorf("valid lines around malformed one: got %d records, want 2", len(res.Records))
			}
			if len(res.Malformed) != 1 {
				t.Fatalf("got %d malformed, want 1", len(res.Malformed))
			}
			m := res.Malformed[0]
			if m.Line != 2 || m.Content != tt.line || m.Reason != tt.reason || m.Path != "deps.txt" {
				t.Errorf("malformed = %+v", m)
			}
			if !errors.Is(m, ErrMalformedInput) {
				t.Error("MalformedInputError should wrap ErrMalformedInput")
			}
		})
	}
}

func TestLineReader_LongLine(t *testing.T) {
	t.Parallel()

	deps := make([]string, 5000)
	for i := range deps {
		deps[i] = "dependency_" + strings.Repeat("x", 20) + string(rune('a'+i%26))
	}
	res := readLines(t, "A: "+strings.Join(deps, ",")+"\n")
	if len(res.Records) != 1 || len(res.Records[0].Dependencies) != len(deps) {
		t.Errorf("long line not parsed in full")
	}
}

func TestMalformedInputError_Error(t *testing.T) {
	t.Parallel()
	err := &MalformedInputError{Path: "deps.txt", Line: 7, Content: "A B", Reason: "missing ':' separator"}
	want := `deps.txt:7: missing ':' separator: "A B"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestTOMLReader(t *testing.T) {
	t.Parallel()

	doc := `
[[file]]
name = "A"
depends_on = ["B", "C"]

[[file]]
name = "B"

[[file]]
name = ""
depends_on = ["A"]

[[file]]
name = "C"
depends_on = ["A", " "]
`
	res, err := (&tomlReader{}).Read(strings.NewReader(doc), "deps.toml")
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(res.Records), res.Records)
	}
	if r := res.Records[0]; r.Source != "A" || !slices.Equal(r.Dependencies, []string{"B", "C"}) || r.Line != 1 {
		t.Errorf("record 0 = %+v", r)
	}
	if len(res.Malformed) != 2 || res.Malformed[0].Line != 3 || res.Malformed[1].Line != 4 {
		t.Errorf("malformed = %+v, want entries 3 and 4", res.Malformed)
	}
}

func TestTOMLReader_SyntaxError(t *testing.T) {
	t.Parallel()
	_, err := (&tomlReader{}).Read(strings.NewReader("[[file]\nname = "), "bad.toml")
	if err == nil || !strings.Contains(err.Error(), "bad.toml") {
		t.Errorf("expected syntax error naming the file, got %v", err)
	}
}

func TestCUEReader(t *testing.T) {
	t.Parallel()

	doc := `
files: [
	{name: "A", depends_on: ["B"]},
	{name: "B", depends_on: ["A"]},
	{name: "C"},
]
`
	res, err := (&cueReader{}).Read(strings.NewReader(doc), "deps.cue")
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(res.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(res.Records))
	}
	if r := res.Records[2]; r.Source != "C" || len(r.Dependencies) != 0 || r.Line != 3 {
		t.Errorf("record 2 = %+v", r)
	}
}

func TestCUEReader_SchemaViolation(t *testing.T) {
	t.Parallel()
	_, err := (&cueReader{}).Read(strings.NewReader(`files: [{name: 1}]`), "deps.cue")
	if err == nil || !strings.Contains(err.Error(), "deps.cue") {
		t.Errorf("expected schema error naming the file, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatAuto},
		{in: "auto", want: FormatAuto},
		{in: "LINES", want: FormatLines},
		{in: " toml ", want: FormatTOML},
		{in: "cue", want: FormatCUE},
		{in: "yaml", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("ParseFormat(%q) error does not wrap ErrUnknownFormat", tt.in)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormat_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		path   string
		want   Format
	}{
		{FormatAuto, "deps.txt", FormatLines},
		{FormatAuto, "deps", FormatLines},
		{FormatAuto, "deps.TOML", FormatTOML},
		{FormatAuto, "dir/deps.cue", FormatCUE},
		{FormatLines, "deps.toml", FormatLines},
		{"", "deps.cue", FormatCUE},
	}
	for _, tt := range tests {
		if got := tt.format.Resolve(tt.path); got != tt.want {
			t.Errorf("%q.Resolve(%q) = %q, want %q", tt.format, tt.path, got, tt.want)
		}
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := filepath.Join(dir, "deps.toml")
	if err := os.WriteFile(path, []byte("[[file]]\nname = \"A\"\ndepends_on = [\"A\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := ReadFile(path, FormatAuto)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0].Source != "A" {
		t.Errorf("records = %+v", res.Records)
	}

	_, err = ReadFile(filepath.Join(dir, "missing.txt"), FormatAuto)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}

	if _, err := NewReader(FormatAuto); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("NewReader(auto) error = %v, want ErrUnknownFormat", err)
	}
}
