package analysis

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, store *fakeStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	newTestService(t, store).RegisterRoutes(r)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleCategories(t *testing.T) {
	r := newTestRouter(t, seedStore(t, testListings()...))

	w := get(r, "/v1/analysis/categories")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CategoriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.TotalListings)
	require.Len(t, resp.Categories, 5)
	require.Equal(t, "by_district", resp.Categories[0].Dimension)
}

func TestHandleDimension(t *testing.T) {
	r := newTestRouter(t, seedStore(t, testListings()...))

	w := get(r, "/v1/analysis/groups/by_district")
	require.Equal(t, http.StatusOK, w.Code)

	var resp DimensionAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "By District", resp.Label)
	require.Len(t, resp.Groups, 2)
}

func TestHandleDimensionUnknown(t *testing.T) {
	r := newTestRouter(t, seedStore(t))

	w := get(r, "/v1/analysis/groups/by_color")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "unknown_dimension")
}

func TestHandleCategoriesStoreError(t *testing.T) {
	r := newTestRouter(t, &fakeStore{listErr: fmt.Errorf("db down")})

	w := get(r, "/v1/analysis/categories")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "internal_error")
}
