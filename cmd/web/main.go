package main

import (
	"fmt"
	"os"

	"github.com/de-tools/epic-report/pkg/runtime/terminal"
)

// web is the serve subcommand as a standalone binary; root flags such as
// --config and --debug are accepted as well.
func main() {
	cli := terminal.NewCLI(terminal.Options{
		Output: os.Stdout,
	})
	cli.SetArgs(append([]string{"serve"}, os.Args[1:]...))

	if err := cli.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
