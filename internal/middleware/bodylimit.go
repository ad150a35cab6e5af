package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blastview/blastview/internal/httputil"
)

// MaxBodySize caps the request body at maxBytes. A declared Content-Length
// over the cap is refused with 413 before the handler runs; bodies without
// one fail on read.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			httputil.RespondError(c, http.StatusRequestEntityTooLarge, "request body too large")

			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
