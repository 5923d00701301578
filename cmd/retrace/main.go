package main

import (
	"fmt"
	"os"

	"github.com/runnerr0/retrace/internal/cli"
)

var version = "0.2.0"

func main() {
	if err := cli.Run(version); err != nil {
		fmt.Fprintf(os.Stderr, "retrace: %v\n", err)
		os.Exit(1)
	}
}
