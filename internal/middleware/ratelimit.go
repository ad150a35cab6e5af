// Package middleware provides HTTP middleware for blastview.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/blastview/blastview/internal/httputil"
)

// RateLimit returns middleware that admits at most perSec requests per second
// across all clients, with the given burst. Requests over the limit get 429.
func RateLimit(perSec float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(perSec), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			httputil.RespondError(c, http.StatusTooManyRequests, "rate limit exceeded")

			return
		}

		c.Next()
	}
}
