package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/oronlab/oron-insight/internal/core/summary"
	"github.com/shopspring/decimal"
)

// StaticNarrator renders a fixed-form English narrative from the section
// numbers. It is the fallback seat for the narrative collaborator.
type StaticNarrator struct{}

func NewStaticNarrator() *StaticNarrator { return &StaticNarrator{} }

func (n *StaticNarrator) Narrate(_ context.Context, section CategorySection) (string, error) {
	s := section.Summary
	if s.Count == 0 {
		return fmt.Sprintf("No listings were classified under %s.", section.Label), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s covers %d listings across %d groups.",
		section.Label, s.Count, len(section.Groups))

	if s.AveragePrice.IsPositive() {
		fmt.Fprintf(&b, " Prices run from %s to %s, averaging %s.",
			humanPrice(s.MinPrice), humanPrice(s.MaxPrice), humanPrice(s.AveragePrice))
	} else {
		b.WriteString(" No listing in this category carries a readable price.")
	}

	if len(s.CommonFeatures) > 0 {
		fmt.Fprintf(&b, " Typical features: %s.", strings.Join(s.CommonFeatures, ", "))
	}

	if largest := largestGroup(section.Groups); largest != nil {
		fmt.Fprintf(&b, " The largest group is %q with %d listings.",
			largest.GroupName, largest.Count)
	}

	return b.String(), nil
}

func largestGroup(groups []summary.GroupSummary) *summary.GroupSummary {
	var best *summary.GroupSummary
	for i := range groups {
		if best == nil || groups[i].Count > best.Count {
			best = &groups[i]
		}
	}
	return best
}

// humanPrice renders a price in millions when it divides cleanly, matching
// how the market quotes apartments.
func humanPrice(d decimal.Decimal) string {
	million := decimal.NewFromInt(1_000_000)
	if d.GreaterThanOrEqual(million) {
		m := d.Div(million).Round(1)
		if m.IsInteger() {
			m = m.Truncate(0)
		}
		return m.String() + " сая ₮"
	}
	return d.Round(0).String() + " ₮"
}
