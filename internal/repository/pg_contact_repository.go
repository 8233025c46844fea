package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/portfolio/contact/internal/model"
)

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
// The schema lives in the migrations package.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

// ip_address is deliberately absent.
const contactSelectCols = `id::text, name, email, message, date, status, created_at, updated_at`

func scanContact(scan func(...any) error) (*model.ContactMessage, error) {
	var m model.ContactMessage
	var status string
	if err := scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Date, &status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Status = model.Status(status)
	return &m, nil
}

// Ping は DB 接続を確認する（DB インターフェース実装）
func (r *PgContactRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close releases the pool.
func (r *PgContactRepository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

// Save inserts a new contact_messages row and populates msg.ID and timestamps
// from the database RETURNING clause.
func (r *PgContactRepository) Save(ctx context.Context, msg *model.ContactMessage) error {
	var date *time.Time
	if !msg.Date.IsZero() {
		date = &msg.Date
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO contact_messages (name, email, message, date, status, ip_address)
		 VALUES ($1, $2, $3, COALESCE($4, now()), $5, $6)
		 RETURNING id::text, date, created_at, updated_at`,
		msg.Name, msg.Email, msg.Message, date, string(msg.Status), msg.IPAddress,
	).Scan(&msg.ID, &msg.Date, &msg.CreatedAt, &msg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

// List returns contact messages filtered by status and paginated by limit/skip.
func (r *PgContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, int64, error) {
	where := ""
	var args []any
	if opts.Status != "" {
		args = append(args, string(opts.Status))
		where = ` WHERE status = $1`
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM contact_messages`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contact messages: %w", err)
	}

	query := `SELECT ` + contactSelectCols + ` FROM contact_messages` + where +
		` ORDER BY created_at DESC, id DESC`
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if opts.Skip > 0 {
		args = append(args, opts.Skip)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var messages []*model.ContactMessage
	for rows.Next() {
		m, err := scanContact(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		messages = append(messages, m)
	}
	return messages, total, rows.Err()
}

// UpdateStatus sets the status column and bumps updated_at.
// Ids that are not UUIDs cannot exist and are reported as ErrNotFound.
func (r *PgContactRepository) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.ContactMessage, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE contact_messages SET status = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+contactSelectCols,
		id, string(status),
	)
	m, err := scanContact(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update contact message status: %w", err)
	}
	return m, nil
}

// Stats counts messages overall, since the given instant, and per status.
func (r *PgContactRepository) Stats(ctx context.Context, since time.Time) (*model.ContactStats, error) {
	stats := &model.ContactStats{ByStatus: make(map[model.Status]int64)}

	err := r.pool.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE created_at >= $1) FROM contact_messages`,
		since,
	).Scan(&stats.Total, &stats.Today)
	if err != nil {
		return nil, fmt.Errorf("count contact messages: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT status, count(*) FROM contact_messages GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("group contact messages by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		stats.ByStatus[model.Status(status)] = n
	}
	return stats, rows.Err()
}
