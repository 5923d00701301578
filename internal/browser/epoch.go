package browser

import (
	"fmt"
	"time"
)

// EpochSpec describes how a vendor encodes visit timestamps: the scale
// from one native unit to microseconds, and the offset of the vendor's
// epoch origin from the Unix epoch, in microseconds.
type EpochSpec struct {
	ScaleMicros  int64
	OffsetMicros int64
}

// Epoch origins:
//
//	Chrome counts microseconds since 1601-01-01 00:00:00 UTC.
//	Firefox counts microseconds since 1970-01-01 00:00:00 UTC.
//	Safari counts seconds (as a REAL) since 2001-01-01 00:00:00 UTC.
const (
	chromeEpochOffsetMicros = -11_644_473_600_000_000
	safariEpochOffsetMicros = 978_307_200_000_000
)

var epochSpecs = map[Vendor]EpochSpec{
	Chrome:  {ScaleMicros: 1, OffsetMicros: chromeEpochOffsetMicros},
	Firefox: {ScaleMicros: 1, OffsetMicros: 0},
	Safari:  {ScaleMicros: 1_000_000, OffsetMicros: safariEpochOffsetMicros},
}

// EpochSpecFor returns the timestamp encoding for a vendor.
func EpochSpecFor(v Vendor) (EpochSpec, bool) {
	spec, ok := epochSpecs[v]
	return spec, ok
}

// Normalized timestamps outside these bounds are treated as corrupt or
// placeholder values and dropped per record, not fatal to the run.
var minValidTime = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

const futureTolerance = 48 * time.Hour

// NormalizeTimestamp converts a vendor-native integer timestamp into a
// UTC instant at microsecond resolution. Returns an error wrapping
// ErrTimestampOutOfRange when the result falls outside the sane bounds.
func NormalizeTimestamp(v Vendor, raw int64) (time.Time, error) {
	spec, ok := epochSpecs[v]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown vendor %q", v)
	}
	micros := raw*spec.ScaleMicros + spec.OffsetMicros
	return checkBounds(v, raw, time.UnixMicro(micros).UTC())
}

// NormalizeFloatTimestamp converts a vendor-native floating-point
// timestamp into a UTC instant. Only Safari encodes time this way;
// fractional precision beyond a microsecond is truncated.
func NormalizeFloatTimestamp(v Vendor, raw float64) (time.Time, error) {
	spec, ok := epochSpecs[v]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown vendor %q", v)
	}
	micros := int64(raw*float64(spec.ScaleMicros)) + spec.OffsetMicros
	return checkBounds(v, raw, time.UnixMicro(micros).UTC())
}

func checkBounds(v Vendor, raw any, t time.Time) (time.Time, error) {
	if t.Before(minValidTime) || t.After(time.Now().Add(futureTolerance)) {
		return time.Time{}, fmt.Errorf("%s raw timestamp %v maps to %s: %w",
			v, raw, t.Format(time.RFC3339), ErrTimestampOutOfRange)
	}
	return t, nil
}
