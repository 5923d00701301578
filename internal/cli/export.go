package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/retrace/internal/config"
	"github.com/runnerr0/retrace/internal/export"
	"github.com/runnerr0/retrace/internal/pipeline"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	opts, err := c.pipelineOptions(cfg)
	if err != nil {
		return err
	}

	outPath := c.Output
	if outPath == "" {
		outPath = cfg.Export.Path
	}
	if outPath == "" {
		outPath = export.DefaultFilename(time.Now())
	}

	return c.executeWithOptions(context.Background(), opts, outPath)
}

// pipelineOptions assembles pipeline options from flags and config.
func (c *ExportCommand) pipelineOptions(cfg *config.Config) (pipeline.Options, error) {
	vendors, err := selectVendors(c.Browser, cfg)
	if err != nil {
		return pipeline.Options{}, err
	}

	busyTimeout := time.Duration(cfg.Reader.BusyTimeoutMS) * time.Millisecond
	if c.BusyTimeout != "" {
		busyTimeout, err = time.ParseDuration(c.BusyTimeout)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("invalid --busy-timeout %q: %w", c.BusyTimeout, err)
		}
	}

	parallelism := cfg.Reader.Parallelism
	if c.Parallelism > 0 {
		parallelism = c.Parallelism
	}

	return pipeline.Options{
		Vendors:     vendors,
		Locator:     newLocator(cfg),
		BusyTimeout: busyTimeout,
		Parallelism: parallelism,
		Logger:      newLogger(c.globals, cfg),
	}, nil
}

// executeWithOptions runs the pipeline and writes the export (used by tests).
func (c *ExportCommand) executeWithOptions(ctx context.Context, opts pipeline.Options, outPath string) error {
	records, summary, err := pipeline.New(opts).Run(ctx)
	if err != nil {
		return fmt.Errorf("collecting history: %w", err)
	}

	if err := export.WriteFile(outPath, records); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(summary, outPath)
	}
	return c.printHuman(summary, outPath)
}

func (c *ExportCommand) printHuman(summary *pipeline.Summary, outPath string) error {
	dest := outPath
	if dest == "-" {
		dest = "stdout"
	}
	fmt.Printf("Exported %s records to %s\n", formatNumber(summary.Records), dest)
	fmt.Printf("Stores read:    %d\n", summary.StoresRead)
	fmt.Printf("Stores skipped: %d\n", summary.Skipped())
	for _, s := range summary.SkippedStores {
		fmt.Printf("  - %s (%s): %s\n", s.Path, s.Vendor, s.Reason)
	}
	if summary.Dropped() > 0 {
		breakdown := fmt.Sprintf("%d out-of-range timestamps, %d empty URLs",
			summary.DroppedOutOfRange, summary.DroppedEmptyURL)
		if summary.DroppedOther > 0 {
			breakdown += fmt.Sprintf(", %d other", summary.DroppedOther)
		}
		fmt.Printf("Rows dropped:   %d (%s)\n", summary.Dropped(), breakdown)
	}
	if summary.StoresRead == 0 && summary.Skipped() == 0 {
		fmt.Println("No browser history stores found.")
	}
	return nil
}

type jsonExportOutput struct {
	Output  string            `json:"output"`
	Summary *pipeline.Summary `json:"summary"`
}

func (c *ExportCommand) printJSON(summary *pipeline.Summary, outPath string) error {
	out := jsonExportOutput{Output: outPath, Summary: summary}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
