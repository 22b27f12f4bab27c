package event

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/stagehand-live/stagehand/internal/tracing"
)

// ListOptions controls filtering and pagination for List.
// Search performs a case-insensitive substring match across description,
// type, and tags.
type ListOptions struct {
	Search string
	Type   string
	Limit  int
	Offset int
}

// Repository defines data access for events.
type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Event, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
	Create(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id int64) error
}

// SQLRepository is the SQLite-backed implementation of Repository.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates an event repository backed by the given database.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const eventColumns = "id, description, type, tags, created_at"

func scanEvent(row interface{ Scan(...any) error }) (*Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Description, &e.Type, &e.Tags, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns events newest first, optionally filtered by exact type and
// by search term.
func (r *SQLRepository) List(ctx context.Context, opts ListOptions) ([]Event, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "events", tracing.DBOperationQuery)
	var err error
	defer func() { endSpan(err) }()

	query := "SELECT " + eventColumns + " FROM events"
	conds := []string{}
	args := []any{}
	if opts.Search != "" {
		conds = append(conds, "(description LIKE ? OR type LIKE ? OR tags LIKE ?)")
		pattern := "%" + opts.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if opts.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, opts.Type)
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		e, scanErr := scanEvent(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		events = append(events, *e)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	return events, nil
}

// GetByID returns the event with the given id, or ErrEventNotFound.
func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*Event, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "events", tracing.DBOperationQuery)
	var err error
	defer func() { endSpan(err) }()

	row := r.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrEventNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new event, applying DefaultType when Type is empty.
func (r *SQLRepository) Create(ctx context.Context, e *Event) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "events", tracing.DBOperationInsert)
	var err error
	defer func() { endSpan(err) }()

	if e.Type == "" {
		e.Type = DefaultType
	}
	e.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO events (description, type, tags, created_at) VALUES (?, ?, ?, ?)",
		e.Description, e.Type, e.Tags, e.CreatedAt,
	)
	if err != nil {
		return err
	}
	e.ID, err = res.LastInsertId()
	return err
}

// Update persists changes to an existing event.
// Returns ErrEventNotFound when the id does not exist.
func (r *SQLRepository) Update(ctx context.Context, e *Event) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "events", tracing.DBOperationUpdate)
	var err error
	defer func() { endSpan(err) }()

	if e.Type == "" {
		e.Type = DefaultType
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE events SET description = ?, type = ?, tags = ? WHERE id = ?",
		e.Description, e.Type, e.Tags, e.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrEventNotFound
		return err
	}
	return nil
}

// Delete removes an event. Returns ErrEventNotFound when the id does not
// exist; templates referencing the event keep their dangling id.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "events", tracing.DBOperationDelete)
	var err error
	defer func() { endSpan(err) }()

	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrEventNotFound
		return err
	}
	return nil
}
