// SPDX-License-Identifier: MPL-2.0

// depcheck detects circular dependencies between files.
package main

import cmd "github.com/invowk/depcheck/cmd/depcheck"

func main() {
	cmd.Execute()
}
