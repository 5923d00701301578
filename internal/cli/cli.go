// Package cli wires the Retrace command line: an export command that
// runs the full extraction pipeline and a scan command that only
// locates stores.
package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Export *ExportCommand
	Scan   *ScanCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "retrace"
	parser.LongDescription = "Export local browser history (Chrome, Firefox, Safari) into one chronologically ordered CSV."

	cmds := &commands{
		Export: &ExportCommand{globals: &globals, version: version},
		Scan:   &ScanCommand{globals: &globals, version: version},
	}

	parser.AddCommand("export", "Export merged browser history to CSV", "Locate every browser history store, extract and normalize all visits, and write one time-ordered CSV.", cmds.Export)
	parser.AddCommand("scan", "List discovered history stores", "Locate browser history stores without reading them.", cmds.Scan)

	return parser, &globals, cmds
}

// Run is the main entry point for the Retrace CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("retrace %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
