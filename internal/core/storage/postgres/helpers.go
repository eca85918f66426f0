package postgres

import (
	"fmt"

	v1 "github.com/oronlab/oron-insight/internal/api/v1"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanListingRow scans a database row into a Listing.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
// Column order must match queryListListingsAfterCursor.
func scanListingRow(row scanner) (v1.Listing, error) {
	var l v1.Listing
	err := row.Scan(
		&l.ID,
		&l.Title,
		&l.Price,
		&l.Place,
		&l.Area,
		&l.Year,
		&l.Floor,
		&l.TotalFloor,
		&l.Balcony,
		&l.WindowCount,
		&l.Details,
		&l.URL,
		&l.Date,
		&l.IngestedAt,
		&l.IngestSeq,
	)
	if err != nil {
		return v1.Listing{}, fmt.Errorf("failed to scan listing row: %w", err)
	}
	return l, nil
}
