package middleware

import "github.com/gin-gonic/gin"

// ContentSecurityPolicy allows the page's own assets plus the cytoscape bundle.
const ContentSecurityPolicy = "default-src 'none'; script-src 'self' https://unpkg.com; style-src 'self'; " +
	"img-src 'self' data:; connect-src 'self'; frame-ancestors 'none'; form-action 'self'"

// SecurityHeaders returns Gin middleware that sets common security response headers.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", ContentSecurityPolicy)
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}
