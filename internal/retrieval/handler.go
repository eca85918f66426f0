package retrieval

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	httperr "github.com/oronlab/oron-insight/internal/core/errors"
)

// RegisterRoutes registers the retrieval API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/search", s.HandleSearch)
}

// HandleSearch handles GET /v1/search?q=...&limit=N.
func (s *Service) HandleSearch(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Query parameter q is required",
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultOutLimit)))
	if err != nil || limit <= 0 || limit > defaultOutLimit*5 {
		limit = defaultOutLimit
	}

	results, err := s.Query(c.Request.Context(), q, Options{OutLimit: limit})
	if err != nil {
		slog.Error("Search query failed", "query", q, "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to run search query",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   q,
		"results": results,
	})
}
