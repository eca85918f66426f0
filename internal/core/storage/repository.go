package storage

import (
	"context"
	"errors"

	v1 "github.com/oronlab/oron-insight/internal/api/v1"
)

// ErrDuplicate is returned when a listing with the same ID already exists.
var ErrDuplicate = errors.New("listing already exists")

// ListingStore defines the interface for persisting and retrieving listings.
type ListingStore interface {
	// SaveListing persists one listing and fills in its IngestSeq.
	// Returns ErrDuplicate when the ID is already stored.
	SaveListing(ctx context.Context, l *v1.Listing) error

	// ListListingsAfterCursor fetches listings with IngestSeq greater than
	// cursor, in strict ingest order. cursor=0 means "from the beginning".
	// Ingest order is what makes grouping and summaries deterministic
	// across identical calls.
	ListListingsAfterCursor(ctx context.Context, cursor int64, limit int) ([]v1.Listing, error)

	// CountListings returns the number of stored listings.
	CountListings(ctx context.Context) (int64, error)
}
