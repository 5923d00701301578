// Package export serializes an already-ordered sequence of history
// records into CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/runnerr0/retrace/internal/browser"
)

// Header is the fixed column set of the export.
var Header = []string{"Timestamp", "URL", "Title", "History File", "Browser"}

// Timestamps are rendered in UTC with explicit microseconds so the
// export is unambiguous and lossless at the canonical resolution.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// WriteCSV writes the header and one row per record to w. Records are
// expected to be sorted already; this function imposes no order.
func WriteCSV(w io.Writer, records []browser.HistoryRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Timestamp.UTC().Format(timestampLayout),
			rec.URL,
			rec.Title,
			rec.SourcePath,
			string(rec.Browser),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the export to path, or to stdout when path is "-".
func WriteFile(path string, records []browser.HistoryRecord) error {
	if path == "-" {
		return WriteCSV(os.Stdout, records)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DefaultFilename names an export after the moment it was taken.
func DefaultFilename(now time.Time) string {
	return "browser_history_" + now.Format("2006-01-02_15-04-05") + ".csv"
}
