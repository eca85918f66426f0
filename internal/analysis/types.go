package analysis

import (
	"time"

	"github.com/oronlab/oron-insight/internal/core/summary"
)

// DimensionAnalysis carries the per-bucket summaries of one grouping
// dimension, buckets in first-appearance order.
type DimensionAnalysis struct {
	Dimension string                 `json:"dimension"`
	Label     string                 `json:"label"`
	Groups    []summary.GroupSummary `json:"groups"`
}

// CategoryAnalysis carries one category-level digest: every listing that
// landed in any bucket of the dimension, summarized as a single set.
type CategoryAnalysis struct {
	Dimension string               `json:"dimension"`
	Label     string               `json:"label"`
	Summary   summary.GroupSummary `json:"summary"`
}

// CategoriesResponse is the body of GET /v1/analysis/categories.
type CategoriesResponse struct {
	GeneratedAt   time.Time          `json:"generated_at"`
	TotalListings int                `json:"total_listings"`
	Categories    []CategoryAnalysis `json:"categories"`
}
