package device

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	httperr "github.com/pulse-lab/pulse/internal/core/errors"
)

// HeaderDeviceID carries the opaque per-browser device identifier.
const HeaderDeviceID = "X-Device-ID"

// deviceCtxKey is the Gin context key used to store the resolved device ID.
const deviceCtxKey = "device_id"

const maxDeviceIDLength = 128

// Middleware requires an X-Device-ID header on every request it guards.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderDeviceID))
		if id == "" || len(id) > maxDeviceIDLength || strings.ContainsAny(id, ": \t") {
			slog.Debug("[Device] Rejected request without usable device id", "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpMissingDeviceError,
				Message:   HeaderDeviceID + " header is required",
			})
			return
		}
		c.Set(deviceCtxKey, id)
		c.Next()
	}
}

// ID returns the device ID resolved by Middleware.
func ID(c *gin.Context) string {
	v, _ := c.Get(deviceCtxKey)
	s, _ := v.(string)
	return s
}
