package domain

import (
	"context"
	"errors"
)

// ErrMissingFields is returned when any of name, email or message is empty
var ErrMissingFields = errors.New("missing required fields")

// ContactRequest represents a contact form submission.
// Only presence is checked; the email address is not format-validated.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates the submission, then sends the owner
	// notification followed by the submitter confirmation.
	SendContactMessage(ctx context.Context, req *ContactRequest) error
}
