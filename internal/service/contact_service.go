package service

import (
	"context"

	"github.com/portfolio/contact/internal/model"
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit normalizes and validates sub, then stores it as a new message.
	// Validation failures are returned as *validation.ValidationError.
	Submit(ctx context.Context, sub model.Submission) (*model.ContactMessage, error)

	// List returns one page of contact messages.
	List(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error)

	// UpdateStatus changes the status of a message. It returns
	// model.ErrInvalidStatus for unknown statuses and repository.ErrNotFound
	// for unknown ids.
	UpdateStatus(ctx context.Context, id string, status string) (*model.ContactMessage, error)

	// Stats returns total, today's and per-status message counts.
	Stats(ctx context.Context) (*model.ContactStats, error)
}
