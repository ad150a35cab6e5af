package client

import (
	"encoding/json"
	"errors"
)

// GenericFailureMessage is reported when a failed response carries no message.
const GenericFailureMessage = "Analysis failed"

// APIError is a non-2xx response from the analysis service. Error returns the
// message alone so it can be shown to the user as is.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// IsAPIError reports whether err is, or wraps, an *APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// StatusCode returns the HTTP status of an *APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// parseAPIError reads the optional {"error": "..."} body; anything else falls
// back to GenericFailureMessage.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = GenericFailureMessage
	}
	return apiErr
}
