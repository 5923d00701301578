package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/runnerr0/retrace/internal/browser"
	"github.com/runnerr0/retrace/internal/locate"
)

// scannedStore is one row of scan output.
type scannedStore struct {
	Browser   string `json:"browser"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	Error     string `json:"error,omitempty"`
}

// Execute implements the go-flags Commander interface for ScanCommand.
func (c *ScanCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	vendors, err := selectVendors(c.Browser, cfg)
	if err != nil {
		return err
	}

	return c.executeWithLocator(newLocator(cfg), vendors)
}

// executeWithLocator runs the scan against a provided locator (used by tests).
func (c *ScanCommand) executeWithLocator(loc *locate.Locator, vendors []browser.Vendor) error {
	var stores []scannedStore
	for _, v := range vendors {
		refs, err := loc.Locate(v)
		if err != nil {
			stores = append(stores, scannedStore{
				Browser: string(v),
				Path:    loc.Base(v),
				Error:   err.Error(),
			})
			continue
		}
		for _, ref := range refs {
			s := scannedStore{Browser: string(v), Path: ref.Path}
			if info, err := os.Stat(ref.Path); err == nil {
				s.SizeBytes = info.Size()
			}
			stores = append(stores, s)
		}
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stores)
	}

	if len(stores) == 0 {
		fmt.Println("No browser history stores found.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Browser", "Store", "Size"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, s := range stores {
		size := formatBytes(s.SizeBytes)
		if s.Error != "" {
			size = "error: " + s.Error
		}
		table.Append([]string{s.Browser, s.Path, size})
	}
	table.Render()
	return nil
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
