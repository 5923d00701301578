package browser

import "errors"

// The closed error taxonomy for a Retrace run. Store-level errors skip
// one store, record-level errors drop one record; neither aborts the
// run. Callers match with errors.Is.
var (
	// ErrTimestampOutOfRange marks a raw timestamp that normalizes to
	// an instant outside the sane bounds (before 1990 or in the future).
	ErrTimestampOutOfRange = errors.New("timestamp out of range")

	// ErrEmptyURL marks a visit row with no URL.
	ErrEmptyURL = errors.New("empty url")

	// ErrStoreLocked marks a history store that could not be opened
	// read-only within the bounded wait.
	ErrStoreLocked = errors.New("history store locked")

	// ErrSchemaMismatch marks a store whose tables or columns do not
	// match the vendor's known schema (unsupported browser version).
	ErrSchemaMismatch = errors.New("unexpected history schema")

	// ErrStoreRead marks a store that failed to open or read for any
	// reason other than a lock or a schema mismatch, including a store
	// that vanished after being located. It is the catch-all that keeps
	// raw driver and I/O errors from crossing the reader boundary.
	ErrStoreRead = errors.New("history store unreadable")

	// ErrLocatorIO marks a vendor base directory that exists but could
	// not be read. Distinct from "vendor not installed", which is not
	// an error at all.
	ErrLocatorIO = errors.New("profile directory unreadable")
)
