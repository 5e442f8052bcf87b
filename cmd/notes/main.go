package main

import (
	"os"

	"github.com/idilsaglam/notes/internal/cli"
)

func main() {
	// Flags, subcommands and the default TUI are handled by the cobra tree.
	os.Exit(cli.Execute())
}
