package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/oronlab/oron-insight/internal/api/v1"
	"github.com/oronlab/oron-insight/internal/core/grouping"
	"github.com/oronlab/oron-insight/internal/core/storage"
	"github.com/oronlab/oron-insight/internal/core/summary"
	"github.com/oronlab/oron-insight/internal/retrieval"
)

const (
	loadBatchSize     = 5000
	maxLoadIterations = 200
	exampleCount      = 3
	searchResultCount = 5
)

// Builder assembles MarketReports from the stored listings. Every build is a
// fresh pass over the store; the report is as current as the last ingest.
type Builder struct {
	store     storage.ListingStore
	grouper   *grouping.Grouper
	facade    *summary.Facade
	narrator  Narrator
	retriever *retrieval.Service
	nowFn     func() time.Time
}

// NewBuilder wires a report builder. The retriever may be nil; reports then
// omit the search section regardless of the focus query.
func NewBuilder(
	store storage.ListingStore,
	grouper *grouping.Grouper,
	facade *summary.Facade,
	narrator Narrator,
	retriever *retrieval.Service,
) *Builder {
	if store == nil || grouper == nil || facade == nil || narrator == nil {
		panic("report: store, grouper, facade and narrator must not be nil")
	}
	return &Builder{
		store:     store,
		grouper:   grouper,
		facade:    facade,
		narrator:  narrator,
		retriever: retriever,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Build produces the full report. A non-empty focusQuery adds a search
// section with the best keyword matches for it.
func (b *Builder) Build(ctx context.Context, focusQuery string) (*MarketReport, error) {
	records, err := b.loadAllListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}

	set := b.grouper.Group(records)

	sections := make([]CategorySection, 0, len(grouping.DimensionOrder))
	for _, dim := range grouping.DimensionOrder {
		buckets, err := set.Dimension(dim)
		if err != nil {
			return nil, err
		}

		label := grouping.HumanLabel(dim)
		section := CategorySection{
			Dimension: dim,
			Label:     label,
			Summary:   b.facade.SummarizeCategory(label, buckets),
			Groups:    make([]summary.GroupSummary, 0, buckets.Len()),
		}
		for _, key := range buckets.Keys() {
			section.Groups = append(section.Groups, b.facade.SummarizeBucket(key, buckets.Records(key)))
		}
		section.Examples = firstExamples(buckets, exampleCount)

		narrative, err := b.narrator.Narrate(ctx, section)
		if err != nil {
			return nil, fmt.Errorf("narrate %s: %w", dim, err)
		}
		section.Narrative = narrative

		sections = append(sections, section)
	}

	rep := &MarketReport{
		GeneratedAt:   b.nowFn(),
		TotalListings: len(records),
		Sections:      sections,
	}

	if focusQuery != "" && b.retriever != nil {
		results, err := b.retriever.Query(ctx, focusQuery, retrieval.Options{OutLimit: searchResultCount})
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", focusQuery, err)
		}

		// Search hits are a listing set like any bucket; the facade digests
		// them the same way.
		hits := make([]v1.Listing, 0, len(results))
		for _, r := range results {
			hits = append(hits, r.Listing)
		}
		rep.Search = &SearchSection{
			Query:   focusQuery,
			Summary: b.facade.SummarizeBucket(focusQuery, hits),
			Results: results,
		}
	}

	slog.Info("Built market report",
		"total_listings", rep.TotalListings,
		"sections", len(rep.Sections),
		"focus_query", focusQuery,
	)
	return rep, nil
}

// firstExamples picks the leading records of the flattened category, which is
// deterministic: bucket insertion order, then input order.
func firstExamples(buckets *grouping.Buckets, n int) []v1.Listing {
	flat := buckets.Flatten()
	if len(flat) > n {
		flat = flat[:n]
	}
	return flat
}

func (b *Builder) loadAllListings(ctx context.Context) ([]v1.Listing, error) {
	var (
		all    []v1.Listing
		cursor int64
	)

	for iterations := 0; ; iterations++ {
		if iterations >= maxLoadIterations {
			return nil, fmt.Errorf("listing scan exceeded maximum iterations (%d batches, %d listings total)",
				maxLoadIterations, len(all))
		}

		batch, err := b.store.ListListingsAfterCursor(ctx, cursor, loadBatchSize)
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
