// Package retrieval answers free-text queries over the stored listings with
// plain keyword scoring. It scans the store on every query instead of holding
// an index, so results always reflect the latest ingest.
package retrieval

import (
	"context"
	"sort"
	"strings"

	v1 "github.com/oronlab/oron-insight/internal/api/v1"
	"github.com/oronlab/oron-insight/internal/core/storage"
)

const (
	defaultScanLimit = 5000
	defaultOutLimit  = 20
)

// Result is one scored hit.
type Result struct {
	Listing v1.Listing `json:"listing"`
	Score   int        `json:"score"`
}

// Options bound how much the query scans and returns.
type Options struct {
	ScanLimit int
	OutLimit  int
}

// Service scores listings against free-text queries.
type Service struct {
	store storage.ListingStore
}

func NewService(store storage.ListingStore) *Service {
	if store == nil {
		panic("retrieval: store must not be nil")
	}
	return &Service{store: store}
}

// DocumentText renders the searchable surface of a listing: its descriptive
// fields joined with " | ". Empty fields are skipped.
func DocumentText(l v1.Listing) string {
	parts := make([]string, 0, 5)
	for _, f := range []string{l.Title, l.Place, l.Price, l.Area, l.Details} {
		if strings.TrimSpace(f) != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " | ")
}

// Query scans recent listings and returns the best keyword matches, highest
// score first, newest first on ties. An empty query returns nothing.
func (s *Service) Query(ctx context.Context, q string, opt Options) ([]Result, error) {
	if opt.ScanLimit <= 0 {
		opt.ScanLimit = defaultScanLimit
	}
	if opt.OutLimit <= 0 {
		opt.OutLimit = defaultOutLimit
	}

	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil, nil
	}
	terms := strings.Fields(q)

	listings, err := s.store.ListListingsAfterCursor(ctx, 0, opt.ScanLimit)
	if err != nil {
		return nil, err
	}

	scored := make([]Result, 0, len(listings))
	for _, l := range listings {
		text := strings.ToLower(DocumentText(l))

		score := scoreMatch(text, q, terms)
		if score == 0 {
			continue
		}
		scored = append(scored, Result{Listing: l, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Listing.IngestSeq > scored[j].Listing.IngestSeq
	})

	if opt.OutLimit > len(scored) {
		opt.OutLimit = len(scored)
	}
	return scored[:opt.OutLimit], nil
}

// scoreMatch ranks a document against the query:
// whole-phrase hits dominate, then per-term overlap.
func scoreMatch(text, q string, terms []string) int {
	score := 0

	if text == q {
		score += 3000
	} else if strings.HasPrefix(text, q) {
		score += 2000
	} else if idx := strings.Index(text, q); idx >= 0 {
		score += 1000 + max(0, 200-idx)
	}

	// A lone term is already the phrase; only multi-word queries get
	// per-term overlap credit.
	if len(terms) > 1 {
		for _, term := range terms {
			if strings.Contains(text, term) {
				score += 100
			}
		}
	}
	return score
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
