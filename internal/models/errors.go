package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for trigger validation.
var (
	ErrMissingInput = errors.New("Please provide both codebase path and change intent.") //nolint:staticcheck // shown verbatim in the error slot.
	ErrBusy         = errors.New("analysis already in progress")
)

// Sentinel errors for payload decoding.
var (
	ErrMissingData      = errors.New("graph element has no data object")
	ErrInvalidHighlight = errors.New("highlighted must be a boolean")
)

// ErrInvalidField returns an error describing a malformed payload attribute.
func ErrInvalidField(field string, err error) error {
	return fmt.Errorf("invalid %s: %w", field, err)
}
