package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio/contact/internal/model"
)

type memoryEntry struct {
	msg model.ContactMessage
	seq int64
}

// MemoryContactRepository keeps contact messages in process memory.
// It backs tests and STORE_DRIVER=memory deployments.
type MemoryContactRepository struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	seq     int64
	now     func() time.Time
}

// Ensure MemoryContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*MemoryContactRepository)(nil)

// NewMemoryContactRepository creates an empty repository.
// now may be nil, in which case time.Now is used.
func NewMemoryContactRepository(now func() time.Time) *MemoryContactRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryContactRepository{
		entries: make(map[string]*memoryEntry),
		now:     now,
	}
}

func (r *MemoryContactRepository) Ping(ctx context.Context) error { return nil }

func (r *MemoryContactRepository) Close(ctx context.Context) error { return nil }

// redacted returns a copy of the stored message without the client address.
func (e *memoryEntry) redacted() *model.ContactMessage {
	m := e.msg
	m.IPAddress = ""
	return &m
}

func (r *MemoryContactRepository) Save(ctx context.Context, msg *model.ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := r.now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	msg.ID = uuid.NewString()
	if msg.Date.IsZero() {
		msg.Date = now
	}
	msg.CreatedAt = now
	msg.UpdatedAt = now

	r.seq++
	r.entries[msg.ID] = &memoryEntry{msg: *msg, seq: r.seq}
	return nil
}

func (r *MemoryContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*memoryEntry
	for _, e := range r.entries {
		if opts.Status != "" && e.msg.Status != opts.Status {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.msg.CreatedAt.Equal(b.msg.CreatedAt) {
			return a.msg.CreatedAt.After(b.msg.CreatedAt)
		}
		return a.seq > b.seq
	})

	total := int64(len(matched))
	if opts.Skip > 0 {
		if opts.Skip >= len(matched) {
			matched = nil
		} else {
			matched = matched[opts.Skip:]
		}
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}

	messages := make([]*model.ContactMessage, len(matched))
	for i, e := range matched {
		messages[i] = e.redacted()
	}
	return messages, total, nil
}

func (r *MemoryContactRepository) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.ContactMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := r.now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.msg.Status = status
	e.msg.UpdatedAt = now
	return e.redacted(), nil
}

func (r *MemoryContactRepository) Stats(ctx context.Context, since time.Time) (*model.ContactStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &model.ContactStats{ByStatus: make(map[model.Status]int64)}
	for _, e := range r.entries {
		stats.Total++
		if !e.msg.CreatedAt.Before(since) {
			stats.Today++
		}
		stats.ByStatus[e.msg.Status]++
	}
	return stats, nil
}
