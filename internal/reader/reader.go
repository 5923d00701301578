// Package reader extracts raw visit rows from vendor history stores.
// Each vendor has its own reader with its own SQL against its own
// schema; adding a vendor means adding one reader and registering it
// in ForVendor.
package reader

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/retrace/internal/browser"
)

// DefaultBusyTimeout bounds how long a reader waits on a store that a
// running browser holds locked before giving up with ErrStoreLocked.
const DefaultBusyTimeout = 3 * time.Second

// Reader opens one vendor's history stores and yields raw visit rows.
type Reader interface {
	Vendor() browser.Vendor
	Open(ctx context.Context, ref browser.StoreRef) (*Rows, error)
}

// ForVendor returns the reader for a vendor. busyTimeout <= 0 falls
// back to DefaultBusyTimeout.
func ForVendor(v browser.Vendor, busyTimeout time.Duration) (Reader, bool) {
	if busyTimeout <= 0 {
		busyTimeout = DefaultBusyTimeout
	}
	switch v {
	case browser.Chrome:
		return &ChromeReader{BusyTimeout: busyTimeout}, true
	case browser.Firefox:
		return &FirefoxReader{BusyTimeout: busyTimeout}, true
	case browser.Safari:
		return &SafariReader{BusyTimeout: busyTimeout}, true
	default:
		return nil, false
	}
}

// Rows is a lazy cursor over the raw visit rows of one store. Rows are
// scanned one at a time; callers convert each to a HistoryRecord
// before advancing, so no raw vendor row outlives the cursor.
type Rows struct {
	rows     *sql.Rows
	db       *sql.DB
	snapshot string
	scan     func(*sql.Rows) (browser.RawRow, error)
	current  browser.RawRow
	err      error
}

// Next advances to the next raw row. It returns false at the end of
// the store or on the first scan error; check Err afterwards.
func (r *Rows) Next() bool {
	if r.err != nil || !r.rows.Next() {
		return false
	}
	r.current, r.err = r.scan(r.rows)
	return r.err == nil
}

// Row returns the row most recently read by Next.
func (r *Rows) Row() browser.RawRow {
	return r.current
}

// Err returns the first error hit while iterating, if any.
func (r *Rows) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Err()
}

// Close releases the cursor and deletes the temporary store snapshot.
func (r *Rows) Close() error {
	if r.rows != nil {
		r.rows.Close()
	}
	var err error
	if r.db != nil {
		err = r.db.Close()
	}
	if r.snapshot != "" {
		os.Remove(r.snapshot)
	}
	return err
}

// openStore snapshots the live store to a temporary file and runs the
// vendor's visit query against the copy. The copy sidesteps locks held
// by a running browser; the busy timeout bounds the wait if the file
// is still contended. Missing tables or columns surface as
// ErrSchemaMismatch.
func openStore(ctx context.Context, ref browser.StoreRef, query string, busyTimeout time.Duration, scan func(*sql.Rows) (browser.RawRow, error)) (*Rows, error) {
	snapshot, err := snapshotStore(ref.Path)
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=%d", snapshot, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		os.Remove(snapshot)
		return nil, fmt.Errorf("open %s: %v: %w", ref.Path, err, browser.ErrStoreRead)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		db.Close()
		os.Remove(snapshot)
		return nil, classifyQueryErr(ref, err)
	}

	return &Rows{rows: rows, db: db, snapshot: snapshot, scan: scan}, nil
}

// snapshotStore copies the store file into the temp dir. A copy that
// fails because the file cannot be read while the browser holds it is
// reported as ErrStoreLocked; a store that vanished after being
// located is not locked, just gone.
func snapshotStore(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("snapshot %s: %v: %w", path, err, browser.ErrStoreRead)
		}
		return "", fmt.Errorf("snapshot %s: %v: %w", path, err, browser.ErrStoreLocked)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "retrace-"+sanitizeName(path)+"-*.db")
	if err != nil {
		return "", fmt.Errorf("snapshot %s: %w", path, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("snapshot %s: %v: %w", path, err, browser.ErrStoreLocked)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("snapshot %s: %w", path, err)
	}
	return dst.Name(), nil
}

// sanitizeName flattens a store path into a temp-file name fragment.
// Only alphanumerics survive; separators, spaces, and everything else
// become '_', so the snapshot path stays literal inside the file: DSN
// URI (sqlite percent-decodes the URI path, so an escaped name like
// "Profile%201" would resolve to a file that does not exist).
func sanitizeName(path string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, path)
	const max = 100
	if len(clean) > max {
		clean = clean[len(clean)-max:]
	}
	return clean
}

// classifyQueryErr maps low-level sqlite errors onto the closed
// taxonomy so nothing driver-specific crosses the package boundary.
func classifyQueryErr(ref browser.StoreRef, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "no such table") || strings.Contains(msg, "no such column"):
		return fmt.Errorf("%s store %s: %v: %w", ref.Vendor, ref.Path, err, browser.ErrSchemaMismatch)
	case strings.Contains(msg, "database is locked") || strings.Contains(msg, "locked"):
		return fmt.Errorf("%s store %s: %v: %w", ref.Vendor, ref.Path, err, browser.ErrStoreLocked)
	case strings.Contains(msg, "not a database") || strings.Contains(msg, "file is encrypted"):
		return fmt.Errorf("%s store %s: %v: %w", ref.Vendor, ref.Path, err, browser.ErrSchemaMismatch)
	default:
		return fmt.Errorf("%s store %s: %v: %w", ref.Vendor, ref.Path, err, browser.ErrStoreRead)
	}
}
