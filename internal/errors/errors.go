// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the caller identity is missing or invalid.
var ErrUnauthorized = errors.New("unauthorized")

// ErrCampaignNotFound is returned when a campaign does not exist or is not
// owned by the caller.
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ValidationError rejects input before any side effect happens.
type ValidationError struct {
	Message string
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + ": " + e.Details
}

func NewValidation(message, details string) error {
	return &ValidationError{Message: message, Details: details}
}

// IsNotFound reports whether err wraps an ErrCampaignNotFound.
func IsNotFound(err error) bool {
	var nf *ErrCampaignNotFound
	return errors.As(err, &nf)
}

// AsValidation unwraps a ValidationError if err carries one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
