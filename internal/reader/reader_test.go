package reader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/retrace/internal/browser"
)

func collectRows(t *testing.T, r Reader, ref browser.StoreRef) []browser.RawRow {
	t.Helper()
	rows, err := r.Open(context.Background(), ref)
	require.NoError(t, err)
	defer rows.Close()

	var out []browser.RawRow
	for rows.Next() {
		out = append(out, rows.Row())
	}
	require.NoError(t, rows.Err())
	return out
}

func TestChromeReaderReadsVisits(t *testing.T) {
	at := time.Date(2022, 7, 2, 11, 22, 47, 0, time.UTC)
	path := makeChromeStore(t, t.TempDir(), []visit{
		{url: "https://go.dev/", title: "The Go Programming Language", at: at},
		{url: "https://pkg.go.dev/", title: "Go Packages", at: at.Add(time.Minute)},
	})

	r, ok := ForVendor(browser.Chrome, 0)
	require.True(t, ok)
	rows := collectRows(t, r, browser.StoreRef{Vendor: browser.Chrome, Path: path})

	require.Len(t, rows, 2)
	assert.Equal(t, "https://go.dev/", rows[0].URL)
	assert.Equal(t, "The Go Programming Language", rows[0].Title)
	assert.False(t, rows[0].IsFloat)
	assert.Equal(t, chromeRawMicros(at), rows[0].RawTimestamp)
}

func TestChromeReaderNullTitle(t *testing.T) {
	dir := t.TempDir()
	path := makeChromeStore(t, dir, nil)
	execAll(t, path, []string{
		`INSERT INTO urls (id, url, title) VALUES (1, 'https://example.com/', NULL)`,
		`INSERT INTO visits (url, visit_time) VALUES (1, 13301234567890000)`,
	}, nil)

	r, _ := ForVendor(browser.Chrome, 0)
	rows := collectRows(t, r, browser.StoreRef{Vendor: browser.Chrome, Path: path})

	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Title)
}

func TestFirefoxReaderFiltersInternalURLs(t *testing.T) {
	at := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	path := makeFirefoxStore(t, t.TempDir(), []visit{
		{url: "https://developer.mozilla.org/", title: "MDN", at: at},
		{url: "about:config", at: at},
		{url: "place:type=6&sort=14", at: at},
	})

	r, ok := ForVendor(browser.Firefox, 0)
	require.True(t, ok)
	rows := collectRows(t, r, browser.StoreRef{Vendor: browser.Firefox, Path: path})

	require.Len(t, rows, 1)
	assert.Equal(t, "https://developer.mozilla.org/", rows[0].URL)
	assert.Equal(t, firefoxRawMicros(at), rows[0].RawTimestamp)
}

func TestFirefoxReaderNullTitleFallsBackToURL(t *testing.T) {
	at := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	path := makeFirefoxStore(t, t.TempDir(), []visit{
		{url: "https://example.org/untitled", at: at},
	})

	r, _ := ForVendor(browser.Firefox, 0)
	rows := collectRows(t, r, browser.StoreRef{Vendor: browser.Firefox, Path: path})

	require.Len(t, rows, 1)
	assert.Equal(t, "https://example.org/untitled", rows[0].Title)
}

func TestSafariReaderFloatTimestamps(t *testing.T) {
	at := time.Date(2023, 8, 29, 11, 6, 40, 0, time.UTC)
	path := makeSafariStore(t, t.TempDir(), []visit{
		{url: "https://www.apple.com/", title: "Apple", at: at},
	})

	r, ok := ForVendor(browser.Safari, 0)
	require.True(t, ok)
	rows := collectRows(t, r, browser.StoreRef{Vendor: browser.Safari, Path: path})

	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsFloat)
	assert.InDelta(t, 715_000_000.0, rows[0].FloatTimestamp, 0.001)
}

func TestSafariReaderNullTitle(t *testing.T) {
	at := time.Date(2023, 8, 29, 11, 6, 40, 0, time.UTC)
	path := makeSafariStore(t, t.TempDir(), []visit{
		{url: "https://www.apple.com/", at: at},
	})

	r, _ := ForVendor(browser.Safari, 0)
	rows := collectRows(t, r, browser.StoreRef{Vendor: browser.Safari, Path: path})

	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Title)
}

func TestOpenSchemaMismatch(t *testing.T) {
	// A valid sqlite file without the vendor's tables.
	dir := t.TempDir()
	path := filepath.Join(dir, "History")
	execAll(t, path, []string{`CREATE TABLE unrelated (id INTEGER PRIMARY KEY)`}, nil)

	r, _ := ForVendor(browser.Chrome, 0)
	_, err := r.Open(context.Background(), browser.StoreRef{Vendor: browser.Chrome, Path: path})
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrSchemaMismatch)
}

func TestOpenNotADatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "History")
	require.NoError(t, os.WriteFile(path, []byte("this is not sqlite"), 0644))

	r, _ := ForVendor(browser.Chrome, 0)
	_, err := r.Open(context.Background(), browser.StoreRef{Vendor: browser.Chrome, Path: path})
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrSchemaMismatch)
}

func TestOpenStorePathWithSpaces(t *testing.T) {
	// Default macOS profile locations contain spaces
	// ("Application Support", "Profile 1"); the snapshot and its DSN
	// must survive them.
	at := time.Date(2022, 7, 2, 11, 22, 47, 0, time.UTC)
	dir := filepath.Join(t.TempDir(), "Application Support", "Google", "Chrome", "Profile 1")
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := makeChromeStore(t, dir, []visit{
		{url: "https://go.dev/", title: "Go", at: at},
	})

	r, ok := ForVendor(browser.Chrome, 0)
	require.True(t, ok)
	rows := collectRows(t, r, browser.StoreRef{Vendor: browser.Chrome, Path: path})

	require.Len(t, rows, 1)
	assert.Equal(t, "https://go.dev/", rows[0].URL)
}

func TestOpenVanishedStore(t *testing.T) {
	// A ref whose file vanished between locate and read is gone, not
	// locked.
	r, _ := ForVendor(browser.Firefox, 0)
	_, err := r.Open(context.Background(), browser.StoreRef{
		Vendor: browser.Firefox,
		Path:   filepath.Join(t.TempDir(), "places.sqlite"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrStoreRead)
	assert.NotErrorIs(t, err, browser.ErrStoreLocked)
}

func TestClassifyQueryErrUnknownFallsBackToStoreRead(t *testing.T) {
	ref := browser.StoreRef{Vendor: browser.Chrome, Path: "/tmp/History"}
	err := classifyQueryErr(ref, errors.New("disk I/O error"))
	assert.ErrorIs(t, err, browser.ErrStoreRead)
}

func TestSanitizeNameKeepsPercentOutOfSnapshotName(t *testing.T) {
	name := sanitizeName("/Users/x/Library/Application Support/Google/Chrome/Profile 1/History")
	assert.NotContains(t, name, "%")
	assert.NotContains(t, name, " ")
	assert.NotContains(t, name, "/")
}

func TestSnapshotDoesNotTouchOriginal(t *testing.T) {
	at := time.Date(2022, 7, 2, 11, 22, 47, 0, time.UTC)
	dir := t.TempDir()
	path := makeChromeStore(t, dir, []visit{
		{url: "https://go.dev/", title: "Go", at: at},
	})
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	r, _ := ForVendor(browser.Chrome, 0)
	rows, err := r.Open(context.Background(), browser.StoreRef{Vendor: browser.Chrome, Path: path})
	require.NoError(t, err)
	for rows.Next() {
	}
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestForVendorUnknown(t *testing.T) {
	_, ok := ForVendor(browser.Vendor("Netscape"), time.Second)
	assert.False(t, ok)
}
