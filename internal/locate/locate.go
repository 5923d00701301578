// Package locate enumerates on-disk browser history stores, one per
// user profile, without opening any of them.
package locate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/runnerr0/retrace/internal/browser"
)

// Store filenames are fixed per vendor; only the directory they sit in
// varies by profile.
const (
	chromeStoreName  = "History"
	firefoxStoreName = "places.sqlite"
)

// Locator enumerates history stores for installed browsers. The zero
// value locates nothing; use New for OS defaults. Fields may be
// overridden from config or tests. An empty field means the vendor is
// not locatable on this machine.
type Locator struct {
	// ChromeDir is walked for files named "History" (one per profile).
	ChromeDir string
	// FirefoxDir is walked for places.sqlite (one per profile).
	FirefoxDir string
	// SafariDB is the single fixed path of Safari's History.db.
	SafariDB string
}

// New returns a Locator with the default base directories for the
// current OS. Vendors whose layout is unknown on this OS are left
// empty and locate as "not installed".
func New() *Locator {
	home, err := os.UserHomeDir()
	if err != nil {
		return &Locator{}
	}

	switch runtime.GOOS {
	case "darwin":
		return &Locator{
			ChromeDir:  filepath.Join(home, "Library", "Application Support", "Google", "Chrome"),
			FirefoxDir: filepath.Join(home, "Library", "Application Support", "Firefox", "Profiles"),
			SafariDB:   filepath.Join(home, "Library", "Safari", "History.db"),
		}
	case "linux":
		return &Locator{
			ChromeDir:  filepath.Join(home, ".config", "google-chrome"),
			FirefoxDir: filepath.Join(home, ".mozilla", "firefox"),
		}
	default:
		return &Locator{}
	}
}

// Locate returns a StoreRef for every history store of the given
// vendor. A vendor that is not installed (or has no base directory on
// this OS) locates as an empty slice with a nil error. A base
// directory that exists but cannot be read returns an error wrapping
// browser.ErrLocatorIO.
func (l *Locator) Locate(v browser.Vendor) ([]browser.StoreRef, error) {
	switch v {
	case browser.Chrome:
		return l.walkFor(v, l.ChromeDir, chromeStoreName)
	case browser.Firefox:
		return l.walkFor(v, l.FirefoxDir, firefoxStoreName)
	case browser.Safari:
		return l.statOne(v, l.SafariDB)
	default:
		return nil, fmt.Errorf("unknown vendor %q", v)
	}
}

// Base returns the configured base path for a vendor, for diagnostics.
func (l *Locator) Base(v browser.Vendor) string {
	switch v {
	case browser.Chrome:
		return l.ChromeDir
	case browser.Firefox:
		return l.FirefoxDir
	case browser.Safari:
		return l.SafariDB
	default:
		return ""
	}
}

// walkFor descends base looking for files with the given name. Errors
// below the base directory (a profile dir vanishing mid-walk, an
// unreadable cache subtree) skip that subtree rather than failing the
// vendor.
func (l *Locator) walkFor(v browser.Vendor, base, name string) ([]browser.StoreRef, error) {
	if base == "" {
		return nil, nil
	}
	if _, err := os.Stat(base); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil // vendor not installed
		}
		return nil, fmt.Errorf("%s base %s: %v: %w", v, base, err, browser.ErrLocatorIO)
	}

	var refs []browser.StoreRef
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == base {
				return fmt.Errorf("%s base %s: %v: %w", v, base, err, browser.ErrLocatorIO)
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && d.Name() == name {
			refs = append(refs, browser.StoreRef{Vendor: v, Path: path})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// statOne handles vendors with a single well-known store path.
func (l *Locator) statOne(v browser.Vendor, path string) ([]browser.StoreRef, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s store %s: %v: %w", v, path, err, browser.ErrLocatorIO)
	}
	return []browser.StoreRef{{Vendor: v, Path: path}}, nil
}
