// treeline renders an interactive tree view of a task list in the
// terminal.
package main

import "github.com/treeline-dev/treeline/cmd"

func main() {
	cmd.Execute()
}
