package grouping

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	v1 "github.com/oronlab/oron-insight/internal/api/v1"
	"github.com/oronlab/oron-insight/internal/core/market"
	"github.com/oronlab/oron-insight/internal/core/normalize"
	"github.com/shopspring/decimal"
)

// The five grouping dimensions. DimensionOrder fixes iteration order
// everywhere a GroupSet is walked; Go maps do not.
const (
	DimDistrict   = "by_district"
	DimPriceRange = "by_price_range"
	DimRoomCount  = "by_room_count"
	DimAreaRange  = "by_area_range"
	DimYearBuilt  = "by_year_built"
)

// DimensionOrder is the canonical dimension sequence.
var DimensionOrder = []string{
	DimDistrict, DimPriceRange, DimRoomCount, DimAreaRange, DimYearBuilt,
}

// ValidDimension reports whether name is one of the five dimensions.
func ValidDimension(name string) bool {
	for _, d := range DimensionOrder {
		if d == name {
			return true
		}
	}
	return false
}

// Classifier assigns a listing to at most one bucket of its dimension.
// To add a dimension: implement this interface and register it in
// NewClassifiers. Grouping walks the classifier list; there is no switch.
type Classifier interface {
	// Name returns the dimension name this classifier serves.
	Name() string

	// Bucket returns the bucket key for the listing, or ok=false when the
	// listing carries no classifiable value for this dimension.
	Bucket(l v1.Listing) (string, bool)
}

// NewClassifiers builds the classifier for every dimension, in canonical
// order, from the market configuration.
func NewClassifiers(cfg market.Config) []Classifier {
	scales := make([]normalize.Scale, 0, len(cfg.Scales))
	for _, s := range cfg.Scales {
		scales = append(scales, normalize.Scale{
			Word:   s.Word,
			Factor: decimal.NewFromInt(s.Factor),
		})
	}

	return []Classifier{
		&districtClassifier{districts: cfg.Districts},
		&priceRangeClassifier{
			parser: normalize.NewPriceParser(cfg.Currency, scales),
			bands:  cfg.PriceBands,
		},
		newRoomCountClassifier(cfg.Rooms),
		&areaRangeClassifier{bands: cfg.AreaBands},
		&yearBuiltClassifier{bands: cfg.YearBands},
	}
}

// districtClassifier matches the place field against the closed district set.
// First configured district found as a substring wins.
type districtClassifier struct {
	districts []string
}

func (c *districtClassifier) Name() string { return DimDistrict }

func (c *districtClassifier) Bucket(l v1.Listing) (string, bool) {
	for _, d := range c.districts {
		if strings.Contains(l.Place, d) {
			return d, true
		}
	}
	return "", false
}

// priceRangeClassifier buckets the parsed price into half-open bands.
type priceRangeClassifier struct {
	parser *normalize.PriceParser
	bands  []market.PriceBand
}

func (c *priceRangeClassifier) Name() string { return DimPriceRange }

func (c *priceRangeClassifier) Bucket(l v1.Listing) (string, bool) {
	price, ok := c.parser.Parse(l.Price)
	if !ok {
		return "", false
	}
	for _, b := range c.bands {
		min := decimal.NewFromInt(b.Min)
		if price.LessThan(min) {
			continue
		}
		if b.Max == 0 || price.LessThan(decimal.NewFromInt(b.Max)) {
			return b.Label, true
		}
	}
	return "", false
}

// roomCountClassifier scans title+details for localized "<N> өрөө" tokens.
// Explicit labels cover 1..len(labels) rooms, checked lowest first; any larger
// token falls into the five-plus bucket.
type roomCountClassifier struct {
	tokenRe  *regexp.Regexp
	labels   []string
	fivePlus string
}

func newRoomCountClassifier(spec market.RoomSpec) *roomCountClassifier {
	// Matches "2 өрөө" and the ordinal form "2-р өрөө".
	re := regexp.MustCompile(`(\d+)\s*(?:-р\s*)?` + regexp.QuoteMeta(strings.ToLower(spec.Token)))
	return &roomCountClassifier{
		tokenRe:  re,
		labels:   spec.Labels,
		fivePlus: spec.FivePlus,
	}
}

func (c *roomCountClassifier) Name() string { return DimRoomCount }

func (c *roomCountClassifier) Bucket(l v1.Listing) (string, bool) {
	text := strings.ToLower(l.Title + " " + l.Details)

	found := make(map[int]struct{})
	for _, m := range c.tokenRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		found[n] = struct{}{}
	}
	if len(found) == 0 {
		return "", false
	}

	counts := make([]int, 0, len(found))
	for n := range found {
		counts = append(counts, n)
	}
	sort.Ints(counts)

	// Lowest explicit count wins when multiple tokens appear.
	if counts[0] <= len(c.labels) {
		return c.labels[counts[0]-1], true
	}
	return c.fivePlus, true
}

// areaRangeClassifier buckets the leading numeric run of the area field.
type areaRangeClassifier struct {
	bands []market.AreaBand
}

func (c *areaRangeClassifier) Name() string { return DimAreaRange }

func (c *areaRangeClassifier) Bucket(l v1.Listing) (string, bool) {
	area, ok := normalize.Numeric(l.Area)
	if !ok {
		return "", false
	}
	for _, b := range c.bands {
		if area < b.Min {
			continue
		}
		if b.Max == 0 || area < b.Max {
			return b.Label, true
		}
	}
	return "", false
}

// yearBuiltClassifier buckets the extracted 4-digit commissioning year.
type yearBuiltClassifier struct {
	bands []market.YearBand
}

func (c *yearBuiltClassifier) Name() string { return DimYearBuilt }

func (c *yearBuiltClassifier) Bucket(l v1.Listing) (string, bool) {
	year, ok := normalize.Year(l.Year)
	if !ok {
		return "", false
	}
	for _, b := range c.bands {
		if year < b.Min {
			continue
		}
		if b.Max == 0 || year < b.Max {
			return b.Label, true
		}
	}
	return "", false
}

// HumanLabel renders a dimension name for display: "by_price_range" →
// "By Price Range".
func HumanLabel(dimension string) string {
	words := strings.Split(dimension, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
