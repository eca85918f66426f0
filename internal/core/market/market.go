// Package market holds the per-market configuration that drives grouping and
// summarization: district names, banding boundaries, localized tokens and the
// common-feature threshold. Nothing in the core hard-codes these; swapping the
// file swaps the market.
package market

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScaleSpec is one price magnitude word, e.g. "сая" ×1 000 000.
type ScaleSpec struct {
	Word   string `yaml:"word"`
	Factor int64  `yaml:"factor"`
}

// PriceBand is a half-open [Min, Max) price range in base currency units.
// Max = 0 means unbounded; only the last band may be unbounded.
type PriceBand struct {
	Label string `yaml:"label"`
	Min   int64  `yaml:"min"`
	Max   int64  `yaml:"max"`
}

// AreaBand is a half-open [Min, Max) area range in square meters.
type AreaBand struct {
	Label string  `yaml:"label"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
}

// YearBand is a half-open [Min, Max) year-built range.
type YearBand struct {
	Label string `yaml:"label"`
	Min   int    `yaml:"min"`
	Max   int    `yaml:"max"`
}

// RoomSpec configures room-count detection. Labels[i] names the bucket for
// i+1 rooms; FivePlus catches any larger token.
type RoomSpec struct {
	Token    string   `yaml:"token"`
	Labels   []string `yaml:"labels"`
	FivePlus string   `yaml:"five_plus"`
}

// FeatureSpec names one candidate field for common-feature detection and the
// label suffix a common value is rendered with. TrimFraction cuts a ".0"
// coercion artifact before the digit check (needed for the year field).
type FeatureSpec struct {
	Field        string `yaml:"field"`
	Suffix       string `yaml:"suffix"`
	TrimFraction bool   `yaml:"trim_fraction"`
}

// Config is the full market definition.
type Config struct {
	Currency   string        `yaml:"currency"`
	Scales     []ScaleSpec   `yaml:"scales"`
	Districts  []string      `yaml:"districts"`
	PriceBands []PriceBand   `yaml:"price_bands"`
	Rooms      RoomSpec      `yaml:"rooms"`
	AreaBands  []AreaBand    `yaml:"area_bands"`
	YearBands  []YearBand    `yaml:"year_bands"`
	Threshold  float64       `yaml:"threshold"`
	Features   []FeatureSpec `yaml:"features"`
}

// Default returns the Ulaanbaatar apartment market this service was built for.
func Default() Config {
	return Config{
		Currency: "₮",
		Scales: []ScaleSpec{
			{Word: "сая", Factor: 1_000_000},
			{Word: "тэрбум", Factor: 1_000_000_000},
		},
		Districts: []string{
			"Баянзүрх", "Хан-Уул", "Баянгол", "Сүхбаатар",
			"Чингэлтэй", "Налайх", "Багануур", "Багахангай",
		},
		PriceBands: []PriceBand{
			{Label: "100 Саяас бага үнэтэй", Min: 0, Max: 100_000_000},
			{Label: "100 саяас - 300 сая", Min: 100_000_000, Max: 300_000_000},
			{Label: "300 саяас - 500 сая", Min: 300_000_000, Max: 500_000_000},
			{Label: "500 саяас их", Min: 500_000_000, Max: 0},
		},
		Rooms: RoomSpec{
			Token:    "өрөө",
			Labels:   []string{"1 room", "2 rooms", "3 rooms", "4 rooms"},
			FivePlus: "5+ rooms",
		},
		AreaBands: []AreaBand{
			{Label: "Under 40 sqm", Min: 0, Max: 40},
			{Label: "40-60 sqm", Min: 40, Max: 60},
			{Label: "60-80 sqm", Min: 60, Max: 80},
			{Label: "Over 80 sqm", Min: 80, Max: 0},
		},
		YearBands: []YearBand{
			{Label: "Pre-2000", Min: 0, Max: 2000},
			{Label: "2000-2010", Min: 2000, Max: 2010},
			{Label: "2010-2020", Min: 2010, Max: 2020},
			{Label: "Post-2020", Min: 2020, Max: 0},
		},
		Threshold: 0.4,
		Features: []FeatureSpec{
			{Field: "balcony", Suffix: "тагттай"},
			{Field: "total_floor", Suffix: "нийт давхар"},
			{Field: "year", Suffix: "онд ашиглалтанд орсон", TrimFraction: true},
			{Field: "window_count", Suffix: "цонхтой"},
			{Field: "floor", Suffix: "давхарт байрладаг"},
		},
	}
}

// Load returns the default market overlaid with the YAML file at path.
// An empty path means the built-in default. The file may override any subset
// of keys; the merged result is validated as a whole.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if err := cfg.Validate(); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading market config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing market config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("market config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks structural soundness: non-empty closed sets, ascending
// contiguous bands, a usable threshold.
func (c Config) Validate() error {
	if len(c.Scales) == 0 {
		return fmt.Errorf("at least one price scale word is required")
	}
	for _, s := range c.Scales {
		if s.Word == "" || s.Factor <= 0 {
			return fmt.Errorf("scale %q: word and positive factor are required", s.Word)
		}
	}

	if len(c.Districts) == 0 {
		return fmt.Errorf("district list must not be empty")
	}
	seen := make(map[string]struct{}, len(c.Districts))
	for _, d := range c.Districts {
		if d == "" {
			return fmt.Errorf("district names must not be empty")
		}
		if _, dup := seen[d]; dup {
			return fmt.Errorf("duplicate district %q", d)
		}
		seen[d] = struct{}{}
	}

	if err := validatePriceBands(c.PriceBands); err != nil {
		return err
	}
	if err := validateAreaBands(c.AreaBands); err != nil {
		return err
	}
	if err := validateYearBands(c.YearBands); err != nil {
		return err
	}

	if c.Rooms.Token == "" {
		return fmt.Errorf("rooms.token is required")
	}
	if len(c.Rooms.Labels) == 0 || c.Rooms.FivePlus == "" {
		return fmt.Errorf("rooms.labels and rooms.five_plus are required")
	}
	for i, l := range c.Rooms.Labels {
		if l == "" {
			return fmt.Errorf("rooms.labels[%d] must not be empty", i)
		}
	}

	if c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold %v out of range (0, 1]", c.Threshold)
	}

	if len(c.Features) == 0 {
		return fmt.Errorf("at least one feature field is required")
	}
	for _, f := range c.Features {
		if f.Field == "" || f.Suffix == "" {
			return fmt.Errorf("feature %q: field and suffix are required", f.Field)
		}
	}

	return nil
}

func validatePriceBands(bands []PriceBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("price_bands must not be empty")
	}
	for i, b := range bands {
		if b.Label == "" {
			return fmt.Errorf("price_bands[%d]: label is required", i)
		}
		last := i == len(bands)-1
		if !last && b.Max <= b.Min {
			return fmt.Errorf("price_bands[%d] %q: max must exceed min", i, b.Label)
		}
		if last && b.Max != 0 {
			return fmt.Errorf("price_bands: last band must be unbounded (max 0)")
		}
		if i > 0 && b.Min != bands[i-1].Max {
			return fmt.Errorf("price_bands[%d] %q: bands must be contiguous", i, b.Label)
		}
	}
	return nil
}

func validateAreaBands(bands []AreaBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("area_bands must not be empty")
	}
	for i, b := range bands {
		if b.Label == "" {
			return fmt.Errorf("area_bands[%d]: label is required", i)
		}
		last := i == len(bands)-1
		if !last && b.Max <= b.Min {
			return fmt.Errorf("area_bands[%d] %q: max must exceed min", i, b.Label)
		}
		if last && b.Max != 0 {
			return fmt.Errorf("area_bands: last band must be unbounded (max 0)")
		}
		if i > 0 && b.Min != bands[i-1].Max {
			return fmt.Errorf("area_bands[%d] %q: bands must be contiguous", i, b.Label)
		}
	}
	return nil
}

func validateYearBands(bands []YearBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("year_bands must not be empty")
	}
	for i, b := range bands {
		if b.Label == "" {
			return fmt.Errorf("year_bands[%d]: label is required", i)
		}
		last := i == len(bands)-1
		if !last && b.Max <= b.Min {
			return fmt.Errorf("year_bands[%d] %q: max must exceed min", i, b.Label)
		}
		if last && b.Max != 0 {
			return fmt.Errorf("year_bands: last band must be unbounded (max 0)")
		}
		if i > 0 && b.Min != bands[i-1].Max {
			return fmt.Errorf("year_bands[%d] %q: bands must be contiguous", i, b.Label)
		}
	}
	return nil
}
