// Command timetag decodes, correlates and inspects photon time-tag data.
package main

import (
	"fmt"
	"os"

	"github.com/arloliu/timetag/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
