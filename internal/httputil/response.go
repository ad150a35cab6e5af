// Package httputil provides shared HTTP response helpers.
package httputil

import "github.com/gin-gonic/gin"

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondError writes {"error": message} with the request ID, if any, and
// aborts the request.
func RespondError(c *gin.Context, status int, message string) {
	resp := ErrorResponse{Error: message}

	if rid, exists := c.Get("request_id"); exists {
		if s, ok := rid.(string); ok {
			resp.RequestID = s
		}
	}

	c.AbortWithStatusJSON(status, resp)
}
