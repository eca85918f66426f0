package postgres

// SQL queries for listing storage.

const (
	// querySaveListing inserts a listing with ID idempotency.
	// RETURNING retrieves the auto-generated ingest_seq for cursor pagination.
	// ON CONFLICT DO NOTHING returns no rows (sql.ErrNoRows) for duplicates.
	querySaveListing = `
		INSERT INTO listings (
			id, title, price, place, area, year, floor, total_floor,
			balcony, window_count, details, url, posted_date, ingested_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING
		RETURNING ingest_seq
	`

	// queryListListingsAfterCursor fetches listings after a cursor (ingest_seq)
	// in strict ingest order. Grouping depends on this ordering being stable:
	// identical store contents must yield identical bucket contents.
	queryListListingsAfterCursor = `
		SELECT
			id, title, price, place, area, year, floor, total_floor,
			balcony, window_count, details, url, posted_date, ingested_at, ingest_seq
		FROM listings
		WHERE ingest_seq > $1
		ORDER BY ingest_seq ASC
		LIMIT $2
	`

	// queryCountListings returns the stored listing count.
	queryCountListings = `SELECT COUNT(*) FROM listings`
)
