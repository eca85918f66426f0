package summary

import (
	v1 "github.com/oronlab/oron-insight/internal/api/v1"
	"github.com/oronlab/oron-insight/internal/core/grouping"
)

// Facade is the aggregation entry point the narrative, retrieval and report
// collaborators work against. It holds no mutable state; concurrent
// summarization calls over disjoint (or shared, unmutated) inputs are safe.
type Facade struct {
	summarizer *Summarizer
}

// NewFacade wraps a Summarizer.
func NewFacade(s *Summarizer) *Facade {
	if s == nil {
		panic("summary: summarizer must not be nil")
	}
	return &Facade{summarizer: s}
}

// SummarizeBucket digests one record list under the given bucket name.
// The records may come from a grouping bucket or from a retrieval result;
// the facade does not care where.
func (f *Facade) SummarizeBucket(name string, records []v1.Listing) GroupSummary {
	return f.summarizer.Summarize(name, records)
}

// SummarizeCategory flattens every bucket of one dimension (bucket insertion
// order, then within-bucket input order) and digests the union under a
// human-readable category label.
func (f *Facade) SummarizeCategory(label string, buckets *grouping.Buckets) GroupSummary {
	if buckets == nil {
		return f.summarizer.Summarize(label, nil)
	}
	return f.summarizer.Summarize(label, buckets.Flatten())
}
