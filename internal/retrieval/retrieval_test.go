package retrieval

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	v1 "github.com/oronlab/oron-insight/internal/api/v1"
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

func seedStore(t *testing.T, listings ...v1.Listing) *fakeStore {
	t.Helper()
	store := &fakeStore{}
	for i := range listings {
		require.NoError(t, store.SaveListing(context.Background(), &listings[i]))
	}
	return store
}

func TestDocumentText(t *testing.T) {
	l := v1.Listing{
		Title:   "3 өрөө байр",
		Place:   "Хан-Уул дүүрэг",
		Price:   "300 сая ₮",
		Details: "дулаан байр",
	}
	require.Equal(t, "3 өрөө байр | Хан-Уул дүүрэг | 300 сая ₮ | дулаан байр", DocumentText(l))

	require.Equal(t, "", DocumentText(v1.Listing{}))
}

func TestQueryRanksPhraseAboveOverlap(t *testing.T) {
	store := seedStore(t,
		v1.Listing{Title: "3 өрөө байр", Place: "Хан-Уул дүүрэг"},
		v1.Listing{Title: "байр зарна", Place: "Баянзүрх", Details: "3 давхарт"},
		v1.Listing{Title: "гараж зарна"},
	)
	svc := NewService(store)

	results, err := svc.Query(context.Background(), "3 өрөө байр", Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// First listing matches the whole phrase, second only scattered terms.
	require.Equal(t, "3 өрөө байр", results[0].Listing.Title)
	require.Greater(t, results[0].Score, results[1].Score)
}

func TestQueryEmptyReturnsNothing(t *testing.T) {
	svc := NewService(seedStore(t, v1.Listing{Title: "байр"}))

	results, err := svc.Query(context.Background(), "   ", Options{})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestQueryTieBreaksNewestFirst(t *testing.T) {
	store := seedStore(t,
		v1.Listing{Title: "байр зарна"},
		v1.Listing{Title: "байр зарна"},
	)
	svc := NewService(store)

	results, err := svc.Query(context.Background(), "байр зарна", Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Greater(t, results[0].Listing.IngestSeq, results[1].Listing.IngestSeq)
}

func TestQueryHonorsOutLimit(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 30; i++ {
		l := v1.Listing{Title: fmt.Sprintf("байр %d", i)}
		require.NoError(t, store.SaveListing(context.Background(), &l))
	}
	svc := NewService(store)

	results, err := svc.Query(context.Background(), "байр", Options{OutLimit: 5})
	require.NoError(t, err)
	require.Len(t, results, 5)
}

func TestHandleSearch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewService(seedStore(t, v1.Listing{Title: "3 өрөө байр"})).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/search?q=%D0%B1%D0%B0%D0%B9%D1%80", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "өрөө")
}

func TestHandleSearchMissingQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewService(seedStore(t)).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/search", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSearchStoreError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewService(&fakeStore{listErr: fmt.Errorf("db down")}).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/search?q=x", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
