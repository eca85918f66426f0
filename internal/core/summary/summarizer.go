// Package summary computes the statistical digest of a listing set: count,
// price extremes and mean, and frequency-thresholded common feature values.
// Summaries are derived fresh on every call and never cached.
package summary

import (
	"fmt"

	v1 "github.com/oronlab/oron-insight/internal/api/v1"
	"github.com/oronlab/oron-insight/internal/core/market"
	"github.com/oronlab/oron-insight/internal/core/normalize"
	"github.com/shopspring/decimal"
)

// GroupSummary is the digest of one bucket or category.
//
// When no listing in the set has a parseable positive price, the three price
// statistics are reported as zero rather than omitted. That is the display
// convention of the narrative and report consumers; Count remains the signal
// for how much data backs the numbers.
type GroupSummary struct {
	GroupName      string          `json:"group_name"`
	Count          int             `json:"count"`
	AveragePrice   decimal.Decimal `json:"average_price"`
	MinPrice       decimal.Decimal `json:"min_price"`
	MaxPrice       decimal.Decimal `json:"max_price"`
	CommonFeatures []string        `json:"common_features"`
}

// featureFields is the closed set of listing fields eligible for
// common-feature detection. Market configuration selects among these;
// an unknown field name fails at construction, not at summarize time.
var featureFields = map[string]func(v1.Listing) string{
	"balcony":      func(l v1.Listing) string { return l.Balcony },
	"total_floor":  func(l v1.Listing) string { return l.TotalFloor },
	"year":         func(l v1.Listing) string { return l.Year },
	"window_count": func(l v1.Listing) string { return l.WindowCount },
	"floor":        func(l v1.Listing) string { return l.Floor },
}

type boundFeature struct {
	spec    market.FeatureSpec
	extract func(v1.Listing) string
}

// Summarizer computes GroupSummary values for arbitrary listing sets.
// It is immutable after construction and safe for concurrent use.
type Summarizer struct {
	prices    *normalize.PriceParser
	threshold decimal.Decimal
	features  []boundFeature
}

// NewSummarizer builds a Summarizer from the market configuration.
// The common-feature threshold is taken from the config, never hard-coded.
func NewSummarizer(cfg market.Config) (*Summarizer, error) {
	scales := make([]normalize.Scale, 0, len(cfg.Scales))
	for _, s := range cfg.Scales {
		scales = append(scales, normalize.Scale{
			Word:   s.Word,
			Factor: decimal.NewFromInt(s.Factor),
		})
	}

	features := make([]boundFeature, 0, len(cfg.Features))
	for _, spec := range cfg.Features {
		extract, ok := featureFields[spec.Field]
		if !ok {
			return nil, fmt.Errorf("unknown feature field %q", spec.Field)
		}
		features = append(features, boundFeature{spec: spec, extract: extract})
	}

	return &Summarizer{
		prices:    normalize.NewPriceParser(cfg.Currency, scales),
		threshold: decimal.NewFromFloat(cfg.Threshold),
		features:  features,
	}, nil
}

// Summarize computes the digest of one record set under the given name.
// Records with unparseable prices count toward Count but not the price
// statistics; an empty set yields a zero-valued summary, not an error.
func (s *Summarizer) Summarize(name string, records []v1.Listing) GroupSummary {
	out := GroupSummary{
		GroupName:      name,
		Count:          len(records),
		CommonFeatures: s.commonFeatures(records),
	}

	var (
		sum   decimal.Decimal
		min   decimal.Decimal
		max   decimal.Decimal
		valid int64
	)
	for _, rec := range records {
		price, ok := s.prices.Parse(rec.Price)
		if !ok || !price.IsPositive() {
			continue
		}
		if valid == 0 {
			min, max = price, price
		} else {
			if price.LessThan(min) {
				min = price
			}
			if price.GreaterThan(max) {
				max = price
			}
		}
		sum = sum.Add(price)
		valid++
	}

	if valid > 0 {
		out.AveragePrice = sum.Div(decimal.NewFromInt(valid))
		out.MinPrice = min
		out.MaxPrice = max
	}
	return out
}

// commonFeatures counts digit-valued observations per configured field and
// reports every value meeting the threshold share of the record count,
// rendered as "<value> <suffix>". Fields iterate in configured order, values
// in first-seen order; all distinct common values of a field are reported.
func (s *Summarizer) commonFeatures(records []v1.Listing) []string {
	if len(records) == 0 {
		return nil
	}

	// Exact threshold arithmetic: 2 of 5 at 40% must qualify, which float
	// multiplication cannot promise.
	required := s.threshold.Mul(decimal.NewFromInt(int64(len(records))))

	var out []string
	for _, f := range s.features {
		counts := make(map[string]int)
		var order []string

		for _, rec := range records {
			value := f.extract(rec)
			if f.spec.TrimFraction {
				value = normalize.TrimFraction(value)
			}
			if !normalize.DigitString(value) {
				continue
			}
			if _, seen := counts[value]; !seen {
				order = append(order, value)
			}
			counts[value]++
		}

		for _, value := range order {
			if decimal.NewFromInt(int64(counts[value])).GreaterThanOrEqual(required) {
				out = append(out, value+" "+f.spec.Suffix)
			}
		}
	}
	return out
}
