package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/oronlab/oron-insight/internal/api/v1"
	"github.com/oronlab/oron-insight/internal/core/grouping"
	"github.com/oronlab/oron-insight/internal/core/storage"
	"github.com/oronlab/oron-insight/internal/core/summary"
	"golang.org/x/sync/errgroup"
)

const (
	loadBatchSize     = 5000
	maxLoadIterations = 200 // Limit to prevent timeout/OOM on runaway tables
)

// Service implements the analysis/query layer. Every request recomputes its
// answer from the full stored listing set; nothing is cached or
// pre-aggregated, so an ingest is visible to the very next query.
type Service struct {
	store   storage.ListingStore
	grouper *grouping.Grouper
	facade  *summary.Facade
	nowFn   func() time.Time
}

// NewService wires the analysis service against a listing store, a grouper
// and a summarization facade.
func NewService(store storage.ListingStore, grouper *grouping.Grouper, facade *summary.Facade) *Service {
	if store == nil || grouper == nil || facade == nil {
		panic("analysis: store, grouper and facade must not be nil")
	}
	return &Service{
		store:   store,
		grouper: grouper,
		facade:  facade,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// AnalyzeCategories loads every stored listing, groups it once, and digests
// each of the five dimensions as one category-level summary. Dimensions are
// independent, so they are summarized concurrently.
func (s *Service) AnalyzeCategories(ctx context.Context) (*CategoriesResponse, error) {
	records, err := s.loadAllListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}

	set := s.grouper.Group(records)

	categories := make([]CategoryAnalysis, len(grouping.DimensionOrder))
	g, gctx := errgroup.WithContext(ctx)

	for i, dim := range grouping.DimensionOrder {
		i, dim := i, dim
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			buckets, err := set.Dimension(dim)
			if err != nil {
				return err
			}
			label := grouping.HumanLabel(dim)
			categories[i] = CategoryAnalysis{
				Dimension: dim,
				Label:     label,
				Summary:   s.facade.SummarizeCategory(label, buckets),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("Computed category analysis",
		"total_listings", len(records),
		"categories", len(categories),
	)

	return &CategoriesResponse{
		GeneratedAt:   s.nowFn(),
		TotalListings: len(records),
		Categories:    categories,
	}, nil
}

// AnalyzeDimension loads every stored listing and digests each bucket of one
// dimension. An unknown dimension name returns grouping.ErrUnknownDimension.
func (s *Service) AnalyzeDimension(ctx context.Context, dimension string) (*DimensionAnalysis, error) {
	if !grouping.ValidDimension(dimension) {
		return nil, fmt.Errorf("%w: %s", grouping.ErrUnknownDimension, dimension)
	}

	records, err := s.loadAllListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}

	buckets, err := s.grouper.Group(records).Dimension(dimension)
	if err != nil {
		return nil, err
	}

	groups := make([]summary.GroupSummary, 0, buckets.Len())
	for _, key := range buckets.Keys() {
		groups = append(groups, s.facade.SummarizeBucket(key, buckets.Records(key)))
	}

	return &DimensionAnalysis{
		Dimension: dimension,
		Label:     grouping.HumanLabel(dimension),
		Groups:    groups,
	}, nil
}

// loadAllListings walks the store in ingest order via cursor pagination.
func (s *Service) loadAllListings(ctx context.Context) ([]v1.Listing, error) {
	var (
		all    []v1.Listing
		cursor int64
	)

	for iterations := 0; ; iterations++ {
		if iterations >= maxLoadIterations {
			return nil, fmt.Errorf("listing scan exceeded maximum iterations (%d batches, %d listings total)",
				maxLoadIterations, len(all))
		}

		batch, err := s.store.ListListingsAfterCursor(ctx, cursor, loadBatchSize)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			return all, nil
		}

		all = append(all, batch...)
		cursor = batch[len(batch)-1].IngestSeq
		if len(batch) < loadBatchSize {
			return all, nil
		}
	}
}
