// Package pipeline orchestrates a Retrace run: locate every enabled
// vendor's stores, read them, normalize each row, and merge everything
// into one chronologically ordered sequence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/runnerr0/retrace/internal/browser"
	"github.com/runnerr0/retrace/internal/locate"
	"github.com/runnerr0/retrace/internal/reader"
)

// DefaultParallelism bounds how many stores are read at once.
const DefaultParallelism = 4

// Options configures a run. Zero-value fields fall back to defaults.
type Options struct {
	Vendors     []browser.Vendor
	Locator     *locate.Locator
	BusyTimeout time.Duration
	Parallelism int
	Logger      *slog.Logger
}

// SkippedStore records one store (or one vendor's locator pass) that
// was skipped, and why.
type SkippedStore struct {
	Vendor browser.Vendor `json:"browser"`
	Path   string         `json:"path"`
	Reason string         `json:"reason"`
}

// Summary is the accounting for a completed run. RowsRead counts only
// rows from stores that were read to the end, so
// RowsRead == Records + Dropped().
type Summary struct {
	Records           int            `json:"records"`
	StoresRead        int            `json:"stores_read"`
	SkippedStores     []SkippedStore `json:"skipped_stores"`
	RowsRead          int            `json:"rows_read"`
	DroppedOutOfRange int            `json:"dropped_out_of_range"`
	DroppedEmptyURL   int            `json:"dropped_empty_url"`
	DroppedOther      int            `json:"dropped_other"`
}

// Skipped returns the number of skipped stores.
func (s *Summary) Skipped() int { return len(s.SkippedStores) }

// Dropped returns the total number of dropped records.
func (s *Summary) Dropped() int { return s.DroppedOutOfRange + s.DroppedEmptyURL + s.DroppedOther }

// Collector runs the extraction pipeline.
type Collector struct {
	opts Options
	log  *slog.Logger
}

// New creates a Collector. Missing options are defaulted: all vendors,
// OS-default locator, DefaultBusyTimeout, DefaultParallelism, and a
// no-op logger.
func New(opts Options) *Collector {
	if len(opts.Vendors) == 0 {
		opts.Vendors = browser.Vendors()
	}
	if opts.Locator == nil {
		opts.Locator = locate.New()
	}
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = reader.DefaultBusyTimeout
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = DefaultParallelism
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{opts: opts, log: log}
}

// storeResult is one worker's output. Workers never touch shared
// state; results are merged after the group finishes.
type storeResult struct {
	ref               browser.StoreRef
	records           []browser.HistoryRecord
	rowsRead          int
	droppedOutOfRange int
	droppedEmptyURL   int
	droppedOther      int
	err               error
}

// Run executes the pipeline. Store-level failures are skipped and
// reported in the summary; the only errors returned are context
// cancellation. Zero located stores is a valid (empty) result.
func (c *Collector) Run(ctx context.Context) ([]browser.HistoryRecord, *Summary, error) {
	summary := &Summary{SkippedStores: []SkippedStore{}}

	var refs []browser.StoreRef
	for _, v := range c.opts.Vendors {
		found, err := c.opts.Locator.Locate(v)
		if err != nil {
			c.log.Warn("locator failed", "browser", string(v), "error", err)
			summary.SkippedStores = append(summary.SkippedStores, SkippedStore{
				Vendor: v,
				Path:   c.opts.Locator.Base(v),
				Reason: reasonFor(err),
			})
			continue
		}
		c.log.Debug("located stores", "browser", string(v), "count", len(found))
		refs = append(refs, found...)
	}

	results := make([]storeResult, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Parallelism)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.readStore(gctx, ref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Merge in locate order so arrival order is reproducible.
	var records []browser.HistoryRecord
	for _, res := range results {
		if res.err != nil {
			c.log.Warn("store skipped", "browser", string(res.ref.Vendor),
				"path", res.ref.Path, "error", res.err)
			summary.SkippedStores = append(summary.SkippedStores, SkippedStore{
				Vendor: res.ref.Vendor,
				Path:   res.ref.Path,
				Reason: reasonFor(res.err),
			})
			continue
		}
		c.log.Debug("store read", "browser", string(res.ref.Vendor),
			"path", res.ref.Path, "rows", res.rowsRead)
		summary.StoresRead++
		summary.RowsRead += res.rowsRead
		summary.DroppedOutOfRange += res.droppedOutOfRange
		summary.DroppedEmptyURL += res.droppedEmptyURL
		summary.DroppedOther += res.droppedOther
		records = append(records, res.records...)
	}

	SortRecords(records)
	summary.Records = len(records)
	return records, summary, nil
}

// readStore reads one store to the end and normalizes every row. On a
// mid-read failure the partial rows are discarded and the whole store
// is reported as skipped, keeping the summary accounting exact.
func (c *Collector) readStore(ctx context.Context, ref browser.StoreRef) storeResult {
	res := storeResult{ref: ref}

	rd, ok := reader.ForVendor(ref.Vendor, c.opts.BusyTimeout)
	if !ok {
		res.err = fmt.Errorf("no reader registered for vendor %s: %w", ref.Vendor, browser.ErrStoreRead)
		return res
	}

	rows, err := rd.Open(ctx, ref)
	if err != nil {
		res.err = err
		return res
	}
	defer rows.Close()

	for rows.Next() {
		res.rowsRead++
		rec, err := browser.NormalizeRow(rows.Row(), ref.Vendor, ref.Path)
		switch {
		case err == nil:
			res.records = append(res.records, rec)
		case errors.Is(err, browser.ErrEmptyURL):
			res.droppedEmptyURL++
		case errors.Is(err, browser.ErrTimestampOutOfRange):
			res.droppedOutOfRange++
		default:
			c.log.Warn("row dropped for unrecognized reason",
				"browser", string(ref.Vendor), "path", ref.Path, "error", err)
			res.droppedOther++
		}
	}
	if err := rows.Err(); err != nil {
		return storeResult{ref: ref, err: fmt.Errorf("%s store %s: %v: %w",
			ref.Vendor, ref.Path, err, browser.ErrStoreRead)}
	}
	return res
}

// SortRecords orders records ascending by timestamp; ties break by
// browser tag, then source path. The stable sort preserves arrival
// order for full ties, so identical inputs always order identically.
func SortRecords(records []browser.HistoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.Browser != b.Browser {
			return a.Browser < b.Browser
		}
		return a.SourcePath < b.SourcePath
	})
}

// reasonFor maps a taxonomy error to a short summary label. Every
// store-level failure lands on one of these fixed labels; raw driver
// text never reaches the summary.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, browser.ErrStoreLocked):
		return "store locked"
	case errors.Is(err, browser.ErrSchemaMismatch):
		return "schema mismatch"
	case errors.Is(err, browser.ErrLocatorIO):
		return "profile directory unreadable"
	default:
		return "store unreadable"
	}
}
