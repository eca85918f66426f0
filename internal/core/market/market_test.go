package market

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.Districts, 8)
	require.Len(t, cfg.PriceBands, 4)
	require.Len(t, cfg.AreaBands, 4)
	require.Len(t, cfg.YearBands, 4)
	require.Len(t, cfg.Features, 5)
	require.Equal(t, 0.4, cfg.Threshold)
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "market.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
threshold: 0.5
districts:
  - Даунтаун
  - Марина
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 0.5, cfg.Threshold)
	require.Equal(t, []string{"Даунтаун", "Марина"}, cfg.Districts)
	// untouched keys keep the default
	require.Equal(t, Default().PriceBands, cfg.PriceBands)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "market.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threshold: 1.5\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "threshold")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/market.yaml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty districts", func(c *Config) { c.Districts = nil }, "district"},
		{"duplicate district", func(c *Config) { c.Districts = []string{"А", "А"} }, "duplicate"},
		{"zero threshold", func(c *Config) { c.Threshold = 0 }, "threshold"},
		{"threshold above one", func(c *Config) { c.Threshold = 1.01 }, "threshold"},
		{"no scales", func(c *Config) { c.Scales = nil }, "scale"},
		{"no features", func(c *Config) { c.Features = nil }, "feature"},
		{"feature without suffix", func(c *Config) { c.Features[0].Suffix = "" }, "suffix"},
		{"no room token", func(c *Config) { c.Rooms.Token = "" }, "rooms.token"},
		{
			"non-contiguous price bands",
			func(c *Config) { c.PriceBands[1].Min = 150_000_000 },
			"contiguous",
		},
		{
			"bounded last area band",
			func(c *Config) { c.AreaBands[3].Max = 200 },
			"unbounded",
		},
		{
			"inverted year band",
			func(c *Config) { c.YearBands[1].Max = 1999 },
			"exceed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}
