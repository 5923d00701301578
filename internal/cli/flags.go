package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ExportCommand — run the full pipeline and write the CSV export.
type ExportCommand struct {
	Output      string   `long:"output" short:"o" description:"Export file path ('-' for stdout; default: timestamped file in CWD)"`
	Browser     []string `long:"browser" description:"Only export these browsers: chrome, firefox, safari (repeatable)"`
	BusyTimeout string   `long:"busy-timeout" description:"Max wait on a locked store (e.g., 3s, 500ms)"`
	Parallelism int      `long:"parallelism" description:"Concurrent store reads (0 = config default)"`

	globals *GlobalFlags
	version string
}

// ScanCommand — locate history stores without reading them.
type ScanCommand struct {
	Browser []string `long:"browser" description:"Only scan these browsers: chrome, firefox, safari (repeatable)"`

	globals *GlobalFlags
	version string
}
