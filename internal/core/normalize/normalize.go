// Package normalize turns the raw locale-specific field strings scraped from
// listing pages into comparable numeric values.
//
// Every parser here is total: malformed, empty or absent input yields the
// zero value and ok=false, never an error or a panic. Upstream fields are
// missing or inconsistently formatted often enough that "could not parse" is
// an ordinary branch for callers, not a failure.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// numericRun captures the first signed digit run with an optional single
	// decimal point, e.g. the "54.3" in "54.3 м²".
	numericRun = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

	// yearRun captures a standalone 4-digit run.
	yearRun = regexp.MustCompile(`\b\d{4}\b`)

	// fractionSuffix matches values like "2020.0" produced by upstream numeric
	// coercion. The fractional part carries no information and is discarded.
	fractionSuffix = regexp.MustCompile(`^(\d+)\.\d+$`)
)

// Scale is one magnitude word of the price locale, e.g. "сая" meaning million.
type Scale struct {
	Word   string
	Factor decimal.Decimal
}

// PriceParser parses currency strings of one market locale.
// Construct it from the market configuration; the zero value parses plain
// numbers but knows no currency glyph or scale words.
type PriceParser struct {
	currency string
	scales   []Scale
}

// NewPriceParser returns a parser for the given currency glyph and scale words.
func NewPriceParser(currency string, scales []Scale) *PriceParser {
	return &PriceParser{currency: currency, scales: scales}
}

// Parse converts a raw price string into its value in base currency units.
//
// The scale-word check runs before generic separator stripping: the numeric
// part preceding a scale word is typically small ("1.5 тэрбум") and must not
// be treated as thousands-grouped. Returns ok=false for anything that does not
// reduce to a valid decimal literal.
func (p *PriceParser) Parse(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	if p.currency != "" {
		s = strings.TrimSpace(strings.ReplaceAll(s, p.currency, ""))
	}

	for _, sc := range p.scales {
		if !strings.Contains(s, sc.Word) {
			continue
		}
		base, ok := parseDecimal(strings.ReplaceAll(s, sc.Word, ""))
		if !ok {
			return decimal.Zero, false
		}
		return base.Mul(sc.Factor), true
	}

	return parseDecimal(s)
}

// parseDecimal strips thousands separators (commas and spaces) and parses the
// remainder as a decimal number.
func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Numeric extracts the first decimal or integer run from a unit-suffixed
// string such as an area ("54.3 м²"). Returns ok=false when no digit run
// exists.
func Numeric(s string) (float64, bool) {
	m := numericRun.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Year extracts a 4-digit year from a raw year field. A trailing fractional
// suffix ("2020.0", an artifact of upstream numeric coercion) is cut before
// digit validation. Returns ok=false when no 4-digit run exists.
func Year(s string) (int, bool) {
	s = TrimFraction(strings.TrimSpace(s))
	m := yearRun.FindString(s)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}

// TrimFraction removes a ".N" fractional suffix from an otherwise purely
// numeric string. Non-matching input is returned unchanged.
func TrimFraction(s string) string {
	if m := fractionSuffix.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// DigitString reports whether s consists solely of ASCII digits, the check a
// value must pass to count as a numeric feature observation.
func DigitString(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
