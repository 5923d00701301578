package reader

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// Raw-encoding helpers mirroring each vendor's documented epoch.
func chromeRawMicros(t time.Time) int64 { return t.UnixMicro() + 11_644_473_600_000_000 }

func firefoxRawMicros(t time.Time) int64 { return t.UnixMicro() }

func safariRawSeconds(t time.Time) float64 { return float64(t.Unix() - 978_307_200) }

type visit struct {
	url   string
	title string
	at    time.Time
}

func execAll(t *testing.T, path string, stmts []string, run func(db *sql.DB)) {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	if run != nil {
		run(db)
	}
}

// makeChromeStore builds a History fixture with the real table layout.
func makeChromeStore(t *testing.T, dir string, visits []visit) string {
	t.Helper()
	path := filepath.Join(dir, "History")
	execAll(t, path, []string{
		`CREATE TABLE urls (id INTEGER PRIMARY KEY, url TEXT NOT NULL, title TEXT)`,
		`CREATE TABLE visits (id INTEGER PRIMARY KEY, url INTEGER NOT NULL, visit_time INTEGER NOT NULL)`,
	}, func(db *sql.DB) {
		for i, v := range visits {
			_, err := db.Exec(`INSERT INTO urls (id, url, title) VALUES (?, ?, ?)`, i+1, v.url, v.title)
			require.NoError(t, err)
			_, err = db.Exec(`INSERT INTO visits (url, visit_time) VALUES (?, ?)`, i+1, chromeRawMicros(v.at))
			require.NoError(t, err)
		}
	})
	return path
}

// makeFirefoxStore builds a places.sqlite fixture.
func makeFirefoxStore(t *testing.T, dir string, visits []visit) string {
	t.Helper()
	path := filepath.Join(dir, "places.sqlite")
	execAll(t, path, []string{
		`CREATE TABLE moz_places (id INTEGER PRIMARY KEY, url TEXT NOT NULL, title TEXT)`,
		`CREATE TABLE moz_historyvisits (id INTEGER PRIMARY KEY, place_id INTEGER NOT NULL, visit_date INTEGER NOT NULL)`,
	}, func(db *sql.DB) {
		for i, v := range visits {
			var title any
			if v.title != "" {
				title = v.title
			}
			_, err := db.Exec(`INSERT INTO moz_places (id, url, title) VALUES (?, ?, ?)`, i+1, v.url, title)
			require.NoError(t, err)
			_, err = db.Exec(`INSERT INTO moz_historyvisits (place_id, visit_date) VALUES (?, ?)`, i+1, firefoxRawMicros(v.at))
			require.NoError(t, err)
		}
	})
	return path
}

// makeSafariStore builds a History.db fixture; visit_time is a REAL.
func makeSafariStore(t *testing.T, dir string, visits []visit) string {
	t.Helper()
	path := filepath.Join(dir, "History.db")
	execAll(t, path, []string{
		`CREATE TABLE history_items (id INTEGER PRIMARY KEY, url TEXT NOT NULL)`,
		`CREATE TABLE history_visits (id INTEGER PRIMARY KEY, history_item INTEGER NOT NULL, visit_time REAL NOT NULL, title TEXT)`,
	}, func(db *sql.DB) {
		for i, v := range visits {
			var title any
			if v.title != "" {
				title = v.title
			}
			_, err := db.Exec(`INSERT INTO history_items (id, url) VALUES (?, ?)`, i+1, v.url)
			require.NoError(t, err)
			_, err = db.Exec(`INSERT INTO history_visits (history_item, visit_time, title) VALUES (?, ?, ?)`, i+1, safariRawSeconds(v.at), title)
			require.NoError(t, err)
		}
	})
	return path
}
