// Command mm is the kernel's CLI surface (spec §6): compile, add_sd,
// add_ax, add, verify, edit, flag. Grounded on cmd/o,
// down to the dispatch shape in o.go/main.go — a single root command
// built with scott-cotton/cli, parsed once, then handed off to
// whichever subcommand args[0] names.
package main

import (
	"context"

	"github.com/scott-cotton/cli"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}
