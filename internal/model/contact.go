package model

import (
	"errors"
	"time"
)

// ErrInvalidStatus is returned when a status value is not one of the known
// message statuses.
var ErrInvalidStatus = errors.New("invalid status")

// Status is the administrative triage state of a contact message.
type Status string

const (
	StatusNew     Status = "new"
	StatusRead    Status = "read"
	StatusReplied Status = "replied"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusNew, StatusRead, StatusReplied}

// ParseStatus converts a raw string into a Status.
// It returns ErrInvalidStatus for anything outside the enumerated set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNew, StatusRead, StatusReplied:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// ContactMessage is a single contact-form submission.
// IPAddress is write-only: it is persisted but never serialized.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Date      time.Time `json:"date"`
	Status    Status    `json:"status"`
	IPAddress string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Submission carries the raw fields of a contact-form post.
// namemax and messagemax are validator aliases registered by the validation package.
type Submission struct {
	Name      string `json:"name" conform:"trim" validate:"required,namemax"`
	Email     string `json:"email" conform:"trim,lower" validate:"required,emailshape"`
	Message   string `json:"message" conform:"trim" validate:"required,messagemax"`
	IPAddress string `json:"-" conform:"trim" validate:"-"`
}

// ContactListOptions carries filter and pagination parameters for listing contact messages.
type ContactListOptions struct {
	// Status filters by message status. Empty returns all messages.
	Status Status
	// Limit <= 0 means no limit.
	Limit int
	Skip  int
}

// ContactPage is one page of a message listing.
type ContactPage struct {
	Messages []*ContactMessage
	Total    int64
	Limit    int
	Skip     int
	HasMore  bool
}

// ContactStats aggregates message counts.
type ContactStats struct {
	Total    int64            `json:"total"`
	Today    int64            `json:"today"`
	ByStatus map[Status]int64 `json:"byStatus"`
}
