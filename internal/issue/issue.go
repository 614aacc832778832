// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	InputNotFoundId Id = iota + 1
	InputUnreadableId
	MalformedInputId
	ConfigLoadFailedId
	DependencyCycleId
)

type MarkdownMsg string

type Issue struct {
	id    Id          // ID used to lookup the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the Markdown message with the named glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	inputNotFoundIssue = &Issue{
		id: InputNotFoundId,
		mdMsg: `
# Dependency file not found!

depcheck could not find the file you asked it to check.

## Things you can try:
- Check the path for typos; relative paths are resolved from the current directory
- List the directory to confirm the file exists:
~~~
$ ls -l path/to/deps.txt
~~~`,
	}

	inputUnreadableIssue = &Issue{
		id: InputUnreadableId,
		mdMsg: `
# Dependency file could not be read!

The file exists but depcheck could not open it or make sense of any of it.

## Common causes:
- Missing read permission on the file
- The path points to a directory
- A TOML or CUE manifest with a syntax error
- Every line of the file is malformed, so no records were left to check

## Things you can try:
- Check permissions with ` + "`ls -l`" + `
- Force the input format if the extension is misleading:
~~~
$ depcheck --format lines deps.cfg
~~~`,
	}

	malformedInputIssue = &Issue{
		id: MalformedInputId,
		mdMsg: `
# Malformed lines in dependency file!

Some lines did not match the expected record shape.

## Expected format:
~~~
main.c: util.h, io.h
util.h: io.h
io.h:
~~~

- One file per line, followed by ':' and a comma-separated list of dependencies
- A file with no dependencies still needs the trailing ':'
- Lines starting with '#' are comments

## What happens next:
- By default malformed lines are skipped and the verdict comes from the
  remaining lines; a file with no valid lines left cannot be checked
- With ` + "`--strict`" + ` the first malformed line fails the run and no
  verdict is printed`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your configuration file could not be loaded.

## Things you can try:
- Check the CUE syntax of your config file
- Show the effective configuration:
~~~
$ depcheck config show
~~~
- Start again from the defaults:
~~~
$ depcheck config init
~~~`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

At least one file depends on itself, directly or through other files.

## Things you can try:
- Look for files that list themselves as a dependency
- Break the cycle by moving shared declarations into a separate file
- Check that no two files include each other`,
	}

	issues = map[Id]*Issue{
		inputNotFoundIssue.Id():    inputNotFoundIssue,
		inputUnreadableIssue.Id():  inputUnreadableIssue,
		malformedInputIssue.Id():   malformedInputIssue,
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		dependencyCycleIssue.Id():  dependencyCycleIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
