package api

import (
	"github.com/gin-gonic/gin"

	"github.com/blastview/blastview/internal/httputil"
	"github.com/blastview/blastview/internal/metrics"
)

// Error type labels recorded in metrics.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeValidationError = "validation_error"
	ErrCodeBusy            = "busy"
	ErrCodeUpstream        = "upstream_error"
	ErrCodeUnavailable     = "unavailable"
)

// respondError writes {"error": message} and counts the error by code.
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, message)
}
