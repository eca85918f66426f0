package summary

import (
	"testing"

	v1 "github.com/oronlab/oron-insight/internal/api/v1"
	"github.com/oronlab/oron-insight/internal/core/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestSummarizer(t *testing.T) *Summarizer {
	t.Helper()
	s, err := NewSummarizer(market.Default())
	require.NoError(t, err)
	return s
}

func TestNewSummarizerRejectsUnknownFeatureField(t *testing.T) {
	cfg := market.Default()
	cfg.Features = append(cfg.Features, market.FeatureSpec{Field: "garage", Suffix: "гаражтай"})

	_, err := NewSummarizer(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "garage")
}

func TestSummarizePriceStats(t *testing.T) {
	s := newTestSummarizer(t)

	records := []v1.Listing{
		{Price: "100 сая ₮"},
		{Price: "200 сая ₮"},
		{Price: "bad"},
	}

	got := s.Summarize("test", records)
	require.Equal(t, "test", got.GroupName)
	require.Equal(t, 3, got.Count, "unparseable price still counts toward Count")
	require.True(t, decimal.NewFromInt(150_000_000).Equal(got.AveragePrice), "avg %s", got.AveragePrice)
	require.True(t, decimal.NewFromInt(100_000_000).Equal(got.MinPrice))
	require.True(t, decimal.NewFromInt(200_000_000).Equal(got.MaxPrice))
}

func TestSummarizeIgnoresNonPositivePrices(t *testing.T) {
	s := newTestSummarizer(t)

	records := []v1.Listing{
		{Price: "0"},
		{Price: "-5 сая ₮"},
		{Price: "300 сая ₮"},
	}

	got := s.Summarize("test", records)
	require.Equal(t, 3, got.Count)
	require.True(t, decimal.NewFromInt(300_000_000).Equal(got.AveragePrice))
	require.True(t, decimal.NewFromInt(300_000_000).Equal(got.MinPrice))
	require.True(t, decimal.NewFromInt(300_000_000).Equal(got.MaxPrice))
}

func TestSummarizeZeroStatsWithoutValidPrices(t *testing.T) {
	s := newTestSummarizer(t)

	got := s.Summarize("no prices", []v1.Listing{{Price: "үнэ тохирно"}, {}})
	require.Equal(t, 2, got.Count)
	require.True(t, got.AveragePrice.IsZero())
	require.True(t, got.MinPrice.IsZero())
	require.True(t, got.MaxPrice.IsZero())
}

func TestSummarizeEmptyInput(t *testing.T) {
	s := newTestSummarizer(t)

	got := s.Summarize("empty", nil)
	require.Equal(t, 0, got.Count)
	require.True(t, got.AveragePrice.IsZero())
	require.True(t, got.MinPrice.IsZero())
	require.True(t, got.MaxPrice.IsZero())
	require.Empty(t, got.CommonFeatures)
}

// 2 of 5 is exactly 40% and must be included; 2 of 5 against a 41% threshold
// must not. The comparison runs in decimal, so the boundary is exact.
func TestCommonFeatureThresholdBoundary(t *testing.T) {
	records := []v1.Listing{
		{Balcony: "1"},
		{Balcony: "1"},
		{Balcony: "2"},
		{Balcony: "3"},
		{},
	}

	s := newTestSummarizer(t)
	got := s.Summarize("boundary", records)
	require.Equal(t, []string{"1 тагттай"}, got.CommonFeatures)

	strict := market.Default()
	strict.Threshold = 0.41
	s41, err := NewSummarizer(strict)
	require.NoError(t, err)
	got41 := s41.Summarize("boundary", records)
	require.Empty(t, got41.CommonFeatures)
}

func TestCommonFeatureMultipleValuesPerField(t *testing.T) {
	s := newTestSummarizer(t)

	// Both balcony values hit 50% of 4 records: all are reported, first-seen first.
	records := []v1.Listing{
		{Balcony: "2"},
		{Balcony: "1"},
		{Balcony: "2"},
		{Balcony: "1"},
	}

	got := s.Summarize("multi", records)
	require.Equal(t, []string{"2 тагттай", "1 тагттай"}, got.CommonFeatures)
}

func TestCommonFeatureFieldOrderAndSuffixes(t *testing.T) {
	s := newTestSummarizer(t)

	records := []v1.Listing{
		{Balcony: "1", TotalFloor: "16", Year: "2020.0", WindowCount: "4", Floor: "9"},
		{Balcony: "1", TotalFloor: "16", Year: "2020", WindowCount: "4", Floor: "9"},
	}

	got := s.Summarize("full", records)
	require.Equal(t, []string{
		"1 тагттай",
		"16 нийт давхар",
		"2020 онд ашиглалтанд орсон",
		"4 цонхтой",
		"9 давхарт байрладаг",
	}, got.CommonFeatures)
}

func TestCommonFeatureIgnoresNonNumericValues(t *testing.T) {
	s := newTestSummarizer(t)

	records := []v1.Listing{
		{Balcony: "тагтгүй"},
		{Balcony: "тагтгүй"},
		{Balcony: "1"},
		{Balcony: "1"},
	}

	got := s.Summarize("nonnumeric", records)
	require.Equal(t, []string{"1 тагттай"}, got.CommonFeatures)
}

func TestSummarizeIdempotent(t *testing.T) {
	s := newTestSummarizer(t)

	records := []v1.Listing{
		{Price: "150 сая ₮", Balcony: "1"},
		{Price: "250 сая ₮", Balcony: "1"},
	}

	first := s.Summarize("twice", records)
	second := s.Summarize("twice", records)

	require.Equal(t, first.GroupName, second.GroupName)
	require.Equal(t, first.Count, second.Count)
	require.True(t, first.AveragePrice.Equal(second.AveragePrice))
	require.True(t, first.MinPrice.Equal(second.MinPrice))
	require.True(t, first.MaxPrice.Equal(second.MaxPrice))
	require.Equal(t, first.CommonFeatures, second.CommonFeatures)
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	s := newTestSummarizer(t)

	records := []v1.Listing{{Price: "100 сая ₮", Balcony: "1", Year: "2020.0"}}
	s.Summarize("readonly", records)

	require.Equal(t, "100 сая ₮", records[0].Price)
	require.Equal(t, "2020.0", records[0].Year)
}
