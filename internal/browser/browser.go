// Package browser defines the vendor model shared by every stage of a
// Retrace run: the closed set of supported browser families, the
// normalized visit record, and the timestamp conversions that map each
// vendor's native encoding onto UTC microseconds.
package browser

import "time"

// Vendor identifies a browser family with a known on-disk history
// schema and timestamp encoding.
type Vendor string

const (
	Chrome  Vendor = "Chrome"
	Firefox Vendor = "Firefox"
	Safari  Vendor = "Safari"
)

// Vendors returns every supported vendor in a fixed order.
func Vendors() []Vendor {
	return []Vendor{Chrome, Firefox, Safari}
}

// Valid reports whether v is one of the supported vendor tags.
func (v Vendor) Valid() bool {
	switch v {
	case Chrome, Firefox, Safari:
		return true
	}
	return false
}

// StoreRef points at one profile's history store on disk. Stores are
// opened read-only; the owning browser may still be writing to them.
type StoreRef struct {
	Vendor Vendor
	Path   string
}

// RawRow is a single visit row as read from a vendor store, with the
// timestamp still in the vendor's native encoding. Safari stores its
// timestamp as a REAL, so the row carries both an integer and a float
// value; IsFloat says which one is live.
type RawRow struct {
	RawTimestamp   int64
	FloatTimestamp float64
	IsFloat        bool
	URL            string
	Title          string
}

// HistoryRecord is one normalized visit. Timestamp is always UTC at
// microsecond resolution and always produced by the epoch normalizer,
// never taken straight from a vendor integer.
type HistoryRecord struct {
	Timestamp  time.Time
	URL        string
	Title      string
	SourcePath string
	Browser    Vendor
}
