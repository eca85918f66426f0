package report

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	v1 "github.com/oronlab/oron-insight/internal/api/v1"
	"github.com/oronlab/oron-insight/internal/core/grouping"
	"github.com/oronlab/oron-insight/internal/core/market"
	"github.com/oronlab/oron-insight/internal/core/summary"
	"github.com/oronlab/oron-insight/internal/retrieval"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	listings []v1.Listing
	listErr  error
}

func (f *fakeStore) SaveListing(_ context.Context, l *v1.Listing) error {
	l.IngestSeq = int64(len(f.listings) + 1)
	f.listings = append(f.listings, *l)
	return nil
}

func (f *fakeStore) ListListingsAfterCursor(_ context.Context, cursor int64, limit int) ([]v1.Listing, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []v1.Listing
	for _, l := range f.listings {
		if l.IngestSeq > cursor {
			out = append(out, l)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) CountListings(_ context.Context) (int64, error) {
	return int64(len(f.listings)), nil
}

func newTestBuilder(t *testing.T, store *fakeStore) *Builder {
	t.Helper()
	cfg := market.Default()
	summarizer, err := summary.NewSummarizer(cfg)
	require.NoError(t, err)
	facade := summary.NewFacade(summarizer)
	return NewBuilder(store, grouping.New(cfg), facade, NewStaticNarrator(), retrieval.NewService(store))
}

func seedStore(t *testing.T, listings ...v1.Listing) *fakeStore {
	t.Helper()
	store := &fakeStore{}
	for i := range listings {
		require.NoError(t, store.SaveListing(context.Background(), &listings[i]))
	}
	return store
}

func testListings() []v1.Listing {
	return []v1.Listing{
		{
			Title: "3 өрөө байр зарна",
			Price: "300 сая ₮",
			Place: "Хан-Уул дүүрэг",
			Area:  "75 м²",
			Year:  "2015",
		},
		{
			Title: "2 өрөө байр",
			Price: "150 сая ₮",
			Place: "Баянзүрх дүүрэг",
			Area:  "45.5 м²",
			Year:  "2005",
		},
	}
}

func TestBuildReport(t *testing.T) {
	b := newTestBuilder(t, seedStore(t, testListings()...))

	rep, err := b.Build(context.Background(), "")
	require.NoError(t, err)

	require.Equal(t, 2, rep.TotalListings)
	require.Len(t, rep.Sections, len(grouping.DimensionOrder))
	require.Nil(t, rep.Search)

	district := rep.Sections[0]
	require.Equal(t, "by_district", district.Dimension)
	require.Equal(t, 2, district.Summary.Count)
	require.Len(t, district.Groups, 2)
	require.NotEmpty(t, district.Narrative)
	require.Contains(t, district.Narrative, "By District")
	require.NotEmpty(t, district.Examples)
}

func TestBuildReportWithFocusQuery(t *testing.T) {
	b := newTestBuilder(t, seedStore(t, testListings()...))

	rep, err := b.Build(context.Background(), "3 өрөө")
	require.NoError(t, err)

	require.NotNil(t, rep.Search)
	require.Equal(t, "3 өрөө", rep.Search.Query)
	require.NotEmpty(t, rep.Search.Results)
	require.Equal(t, "3 өрөө байр зарна", rep.Search.Results[0].Listing.Title)
	require.Equal(t, len(rep.Search.Results), rep.Search.Summary.Count)
}

func TestBuildReportEmptyStore(t *testing.T) {
	b := newTestBuilder(t, seedStore(t))

	rep, err := b.Build(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 0, rep.TotalListings)
	for _, section := range rep.Sections {
		require.Equal(t, 0, section.Summary.Count)
		require.Contains(t, section.Narrative, "No listings")
	}
}

func TestBuildReportStoreError(t *testing.T) {
	b := newTestBuilder(t, &fakeStore{listErr: fmt.Errorf("db down")})

	_, err := b.Build(context.Background(), "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "load listings")
}

func TestHandleReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	newTestBuilder(t, seedStore(t, testListings()...)).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/report", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "by_district")
}

func TestHandleReportStoreError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	newTestBuilder(t, &fakeStore{listErr: fmt.Errorf("db down")}).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/report", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
