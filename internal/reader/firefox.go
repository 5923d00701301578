package reader

import (
	"context"
	"database/sql"
	"time"

	"github.com/runnerr0/retrace/internal/browser"
)

// Firefox's places.sqlite stores visit_date as microseconds since the
// Unix epoch. Internal about:/place: pseudo-URLs are not real visits
// and are filtered in the query itself.
const firefoxVisitQuery = `
	SELECT p.url, COALESCE(p.title, p.url), h.visit_date
	FROM moz_places p
	JOIN moz_historyvisits h ON p.id = h.place_id
	WHERE p.url NOT LIKE 'about:%'
	  AND p.url NOT LIKE 'place:%'
	ORDER BY h.visit_date`

// FirefoxReader reads places.sqlite of Firefox-family browsers.
type FirefoxReader struct {
	BusyTimeout time.Duration
}

func (r *FirefoxReader) Vendor() browser.Vendor { return browser.Firefox }

func (r *FirefoxReader) Open(ctx context.Context, ref browser.StoreRef) (*Rows, error) {
	return openStore(ctx, ref, firefoxVisitQuery, r.BusyTimeout, scanFirefoxRow)
}

func scanFirefoxRow(rows *sql.Rows) (browser.RawRow, error) {
	var row browser.RawRow
	if err := rows.Scan(&row.URL, &row.Title, &row.RawTimestamp); err != nil {
		return browser.RawRow{}, err
	}
	return row, nil
}
