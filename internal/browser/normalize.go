package browser

import "fmt"

// NormalizeRow converts a raw vendor row into a HistoryRecord. A row
// with an empty URL yields an error wrapping ErrEmptyURL; a timestamp
// outside the sane bounds yields one wrapping ErrTimestampOutOfRange.
// Both are per-record failures: the caller drops and counts the row.
func NormalizeRow(row RawRow, v Vendor, sourcePath string) (HistoryRecord, error) {
	if row.URL == "" {
		return HistoryRecord{}, fmt.Errorf("row in %s: %w", sourcePath, ErrEmptyURL)
	}

	rec := HistoryRecord{
		URL:        row.URL,
		Title:      row.Title,
		SourcePath: sourcePath,
		Browser:    v,
	}
	var err error
	if row.IsFloat {
		rec.Timestamp, err = NormalizeFloatTimestamp(v, row.FloatTimestamp)
	} else {
		rec.Timestamp, err = NormalizeTimestamp(v, row.RawTimestamp)
	}
	if err != nil {
		return HistoryRecord{}, err
	}

	return rec, nil
}
