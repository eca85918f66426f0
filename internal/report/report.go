// Package report assembles the full market report: one narrated section per
// grouping dimension plus an optional keyword-matched examples section.
package report

import (
	"context"
	"time"

	v1 "github.com/oronlab/oron-insight/internal/api/v1"
	"github.com/oronlab/oron-insight/internal/core/summary"
	"github.com/oronlab/oron-insight/internal/retrieval"
)

// MarketReport is the top-level report document.
type MarketReport struct {
	GeneratedAt   time.Time         `json:"generated_at"`
	TotalListings int               `json:"total_listings"`
	Sections      []CategorySection `json:"sections"`
	Search        *SearchSection    `json:"search,omitempty"`
}

// CategorySection is one dimension's slice of the report.
type CategorySection struct {
	Dimension string                 `json:"dimension"`
	Label     string                 `json:"label"`
	Summary   summary.GroupSummary   `json:"summary"`
	Groups    []summary.GroupSummary `json:"groups"`
	Narrative string                 `json:"narrative"`
	Examples  []v1.Listing           `json:"examples,omitempty"`
}

// SearchSection carries the hits for a caller-supplied focus query, digested
// like any other listing set.
type SearchSection struct {
	Query   string               `json:"query"`
	Summary summary.GroupSummary `json:"summary"`
	Results []retrieval.Result   `json:"results"`
}

// Narrator turns a section's numbers into prose. The production system may
// plug a model-backed implementation here; the built-in one is static
// formatting and never fails.
type Narrator interface {
	Narrate(ctx context.Context, section CategorySection) (string, error)
}
