// Package grouping classifies listing records into named buckets along five
// independent dimensions. A listing lands in at most one bucket per dimension
// and in none when the relevant field cannot be parsed; record order inside a
// bucket is input order, so downstream "first example" selection stays
// deterministic.
package grouping

import (
	"errors"

	v1 "github.com/oronlab/oron-insight/internal/api/v1"
	"github.com/oronlab/oron-insight/internal/core/market"
)

// ErrUnknownDimension marks lookups with a dimension name outside the closed set.
var ErrUnknownDimension = errors.New("unknown grouping dimension")

// Buckets is an insertion-ordered map from bucket key to its records.
type Buckets struct {
	keys []string
	recs map[string][]v1.Listing
}

func newBuckets() *Buckets {
	return &Buckets{recs: make(map[string][]v1.Listing)}
}

func (b *Buckets) add(key string, l v1.Listing) {
	if _, ok := b.recs[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.recs[key] = append(b.recs[key], l)
}

// Keys returns bucket keys in first-appearance order.
func (b *Buckets) Keys() []string { return b.keys }

// Records returns the records of one bucket, in input order.
func (b *Buckets) Records(key string) []v1.Listing { return b.recs[key] }

// Len returns the number of buckets.
func (b *Buckets) Len() int { return len(b.keys) }

// Flatten concatenates all buckets, bucket insertion order first, input order
// within each bucket.
func (b *Buckets) Flatten() []v1.Listing {
	var out []v1.Listing
	for _, k := range b.keys {
		out = append(out, b.recs[k]...)
	}
	return out
}

// GroupSet maps dimension name to that dimension's buckets. Walk it via
// DimensionOrder for deterministic iteration.
type GroupSet map[string]*Buckets

// Dimension returns the buckets of one dimension.
func (g GroupSet) Dimension(name string) (*Buckets, error) {
	b, ok := g[name]
	if !ok {
		return nil, ErrUnknownDimension
	}
	return b, nil
}

// Grouper partitions listing sequences with a fixed classifier set.
// It holds no mutable state; one instance serves concurrent callers.
type Grouper struct {
	classifiers []Classifier
}

// New builds a Grouper from the market configuration.
func New(cfg market.Config) *Grouper {
	return &Grouper{classifiers: NewClassifiers(cfg)}
}

// Group classifies every record along every dimension. Records the classifier
// cannot place are absent from that dimension only; the input is never
// mutated.
func (g *Grouper) Group(records []v1.Listing) GroupSet {
	set := make(GroupSet, len(g.classifiers))
	for _, c := range g.classifiers {
		set[c.Name()] = newBuckets()
	}

	for _, rec := range records {
		for _, c := range g.classifiers {
			if key, ok := c.Bucket(rec); ok {
				set[c.Name()].add(key, rec)
			}
		}
	}
	return set
}
