package analysis

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	httperr "github.com/oronlab/oron-insight/internal/core/errors"
	"github.com/oronlab/oron-insight/internal/core/grouping"
)

// RegisterRoutes registers all analysis API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/analysis/categories", s.HandleCategories)
	r.GET("/v1/analysis/groups/:dimension", s.HandleDimension)
}

// HandleCategories handles GET /v1/analysis/categories.
func (s *Service) HandleCategories(c *gin.Context) {
	resp, err := s.AnalyzeCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to compute category analysis",
			Details:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleDimension handles GET /v1/analysis/groups/:dimension where dimension
// is one of the five grouping dimension names, e.g. by_district.
func (s *Service) HandleDimension(c *gin.Context) {
	var uri struct {
		Dimension string `uri:"dimension" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid path parameters",
			Details:   err.Error(),
		})
		return
	}

	resp, err := s.AnalyzeDimension(c.Request.Context(), uri.Dimension)
	if err != nil {
		if errors.Is(err, grouping.ErrUnknownDimension) {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpUnknownDimensionError,
				Message:   "Unknown grouping dimension",
				Details:   err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to compute dimension analysis",
			Details:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}
