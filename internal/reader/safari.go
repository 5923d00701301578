package reader

import (
	"context"
	"database/sql"
	"time"

	"github.com/runnerr0/retrace/internal/browser"
)

// Safari's History.db stores visit_time as a REAL count of seconds
// since 2001-01-01 UTC. The title lives on the visit, not the item,
// and may be NULL.
const safariVisitQuery = `
	SELECT history_items.url, COALESCE(history_visits.title, ''), history_visits.visit_time
	FROM history_items
	JOIN history_visits ON history_items.id = history_visits.history_item
	ORDER BY history_visits.visit_time`

// SafariReader reads Safari's History.db.
type SafariReader struct {
	BusyTimeout time.Duration
}

func (r *SafariReader) Vendor() browser.Vendor { return browser.Safari }

func (r *SafariReader) Open(ctx context.Context, ref browser.StoreRef) (*Rows, error) {
	return openStore(ctx, ref, safariVisitQuery, r.BusyTimeout, scanSafariRow)
}

func scanSafariRow(rows *sql.Rows) (browser.RawRow, error) {
	var row browser.RawRow
	if err := rows.Scan(&row.URL, &row.Title, &row.FloatTimestamp); err != nil {
		return browser.RawRow{}, err
	}
	row.IsFloat = true
	return row, nil
}
