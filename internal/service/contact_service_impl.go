package service

import (
	"context"
	"time"

	"github.com/portfolio/contact/internal/model"
	"github.com/portfolio/contact/internal/repository"
	"github.com/portfolio/contact/internal/validation"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo    repository.ContactRepository
	timeout time.Duration
	now     func() time.Time
}

// ContactOption configures the contact service.
type ContactOption func(*contactServiceImpl)

// WithStoreTimeout bounds every repository call.
func WithStoreTimeout(d time.Duration) ContactOption {
	return func(s *contactServiceImpl) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) ContactOption {
	return func(s *contactServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(repo repository.ContactRepository, opts ...ContactOption) ContactService {
	s := &contactServiceImpl{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *contactServiceImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Submit stores a new contact message with status "new" and date set to now.
func (s *contactServiceImpl) Submit(ctx context.Context, sub model.Submission) (*model.ContactMessage, error) {
	if err := validation.Check(&sub); err != nil {
		return nil, err
	}

	msg := &model.ContactMessage{
		Name:      sub.Name,
		Email:     sub.Email,
		Message:   sub.Message,
		Date:      s.now().UTC(),
		Status:    model.StatusNew,
		IPAddress: sub.IPAddress,
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// List returns contact messages according to the given filter/pagination options.
func (s *contactServiceImpl) List(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	messages, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*model.ContactMessage{}
	}
	return &model.ContactPage{
		Messages: messages,
		Total:    total,
		Limit:    opts.Limit,
		Skip:     opts.Skip,
		HasMore:  total > int64(opts.Skip+len(messages)),
	}, nil
}

// UpdateStatus changes the status of a contact message.
func (s *contactServiceImpl) UpdateStatus(ctx context.Context, id string, status string) (*model.ContactMessage, error) {
	st, err := model.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.UpdateStatus(ctx, id, st)
}

// Stats counts messages; "today" starts at local midnight.
func (s *contactServiceImpl) Stats(ctx context.Context) (*model.ContactStats, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	stats, err := s.repo.Stats(ctx, midnight)
	if err != nil {
		return nil, err
	}
	if stats.ByStatus == nil {
		stats.ByStatus = map[model.Status]int64{}
	}
	return stats, nil
}
