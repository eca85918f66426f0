package report

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	httperr "github.com/oronlab/oron-insight/internal/core/errors"
)

// RegisterRoutes registers the report API routes on the given router.
func (b *Builder) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/report", b.HandleReport)
}

// HandleReport handles GET /v1/report?q=... where q is an optional focus
// query for the search section.
func (b *Builder) HandleReport(c *gin.Context) {
	rep, err := b.Build(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to build market report",
			Details:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rep)
}
