package dashboard

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	httperr "github.com/pulse-lab/pulse/internal/core/errors"
)

// RegisterRoutes registers the operator dashboard routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/dashboard/metrics", s.HandleMetrics)
}

// HandleMetrics handles GET /v1/dashboard/metrics
// Query parameters: fresh (bool) forces a recomputation instead of serving
// the last snapshot.
func (s *Service) HandleMetrics(c *gin.Context) {
	fresh := false
	if raw := c.Query("fresh"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidRequestError,
				Message:   "Invalid query parameters",
				Details:   "fresh must be a boolean",
			})
			return
		}
		fresh = v
	}

	load := s.Latest
	if fresh {
		load = s.Snapshot
	}

	snapshot, err := load(c.Request.Context())
	if err != nil {
		slog.Error("[Dashboard] Failed to compute metrics", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to compute metrics",
			Details:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
