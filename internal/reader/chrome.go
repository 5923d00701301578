package reader

import (
	"context"
	"database/sql"
	"time"

	"github.com/runnerr0/retrace/internal/browser"
)

// Chrome keeps URLs and visits in separate tables; visit_time is an
// integer count of microseconds since 1601-01-01 UTC.
const chromeVisitQuery = `
	SELECT urls.url, COALESCE(urls.title, ''), visits.visit_time
	FROM urls
	JOIN visits ON urls.id = visits.url
	ORDER BY visits.visit_time`

// ChromeReader reads the History store of Chrome-family browsers.
type ChromeReader struct {
	BusyTimeout time.Duration
}

func (r *ChromeReader) Vendor() browser.Vendor { return browser.Chrome }

func (r *ChromeReader) Open(ctx context.Context, ref browser.StoreRef) (*Rows, error) {
	return openStore(ctx, ref, chromeVisitQuery, r.BusyTimeout, scanChromeRow)
}

func scanChromeRow(rows *sql.Rows) (browser.RawRow, error) {
	var row browser.RawRow
	if err := rows.Scan(&row.URL, &row.Title, &row.RawTimestamp); err != nil {
		return browser.RawRow{}, err
	}
	return row, nil
}
