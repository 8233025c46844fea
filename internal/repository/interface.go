package repository

import (
	"context"
	"time"

	"github.com/portfolio/contact/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository defines the persistence interface for contact messages.
// Every message returned by a read has IPAddress cleared.
type ContactRepository interface {
	DB

	// Save inserts msg and populates its ID and audit timestamps.
	// A zero Date is set to the insertion time.
	Save(ctx context.Context, msg *model.ContactMessage) error

	// List returns the messages matching opts, newest first, together with
	// the number of matching messages ignoring Limit and Skip.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, int64, error)

	// UpdateStatus sets the status of the message with the given id and
	// returns the updated record. It returns ErrNotFound when no such
	// message exists.
	UpdateStatus(ctx context.Context, id string, status model.Status) (*model.ContactMessage, error)

	// Stats counts all messages, messages created at or after since, and
	// messages per status.
	Stats(ctx context.Context, since time.Time) (*model.ContactStats, error)

	Close(ctx context.Context) error
}
