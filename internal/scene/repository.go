package scene

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/stagehand-live/stagehand/internal/tracing"
)

// ListOptions controls filtering and pagination for List.
// Search performs a case-insensitive substring match across title,
// description, and tags.
type ListOptions struct {
	Search string
	Limit  int
	Offset int
}

// Repository defines data access for scenes.
type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Scene, error)
	GetByID(ctx context.Context, id int64) (*Scene, error)
	Create(ctx context.Context, s *Scene) error
	Update(ctx context.Context, s *Scene) error
	Delete(ctx context.Context, id int64) error
}

// SQLRepository is the SQLite-backed implementation of Repository.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a scene repository backed by the given database.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const sceneColumns = "id, title, description, tags, created_at, updated_at"

func scanScene(row interface{ Scan(...any) error }) (*Scene, error) {
	var s Scene
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.Tags, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns scenes ordered by most recently updated.
func (r *SQLRepository) List(ctx context.Context, opts ListOptions) ([]Scene, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "scenes", tracing.DBOperationQuery)
	var err error
	defer func() { endSpan(err) }()

	query := "SELECT " + sceneColumns + " FROM scenes"
	args := []any{}
	if opts.Search != "" {
		query += " WHERE title LIKE ? OR description LIKE ? OR tags LIKE ?"
		pattern := "%" + opts.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	query += " ORDER BY updated_at DESC LIMIT ? OFFSET ?"
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scenes := []Scene{}
	for rows.Next() {
		s, scanErr := scanScene(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		scenes = append(scenes, *s)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	return scenes, nil
}

// GetByID returns the scene with the given id, or ErrSceneNotFound.
func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*Scene, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "scenes", tracing.DBOperationQuery)
	var err error
	defer func() { endSpan(err) }()

	row := r.db.QueryRowContext(ctx, "SELECT "+sceneColumns+" FROM scenes WHERE id = ?", id)
	s, err := scanScene(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrSceneNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new scene and fills in its id and timestamps.
func (r *SQLRepository) Create(ctx context.Context, s *Scene) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "scenes", tracing.DBOperationInsert)
	var err error
	defer func() { endSpan(err) }()

	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO scenes (title, description, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		s.Title, s.Description, s.Tags, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	s.ID, err = res.LastInsertId()
	return err
}

// Update persists changes to an existing scene and bumps updated_at.
// Returns ErrSceneNotFound when the id does not exist.
func (r *SQLRepository) Update(ctx context.Context, s *Scene) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "scenes", tracing.DBOperationUpdate)
	var err error
	defer func() { endSpan(err) }()

	s.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"UPDATE scenes SET title = ?, description = ?, tags = ?, updated_at = ? WHERE id = ?",
		s.Title, s.Description, s.Tags, s.UpdatedAt, s.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrSceneNotFound
		return err
	}
	return nil
}

// Delete removes a scene. Returns ErrSceneNotFound when the id does not
// exist; templates referencing the scene keep their dangling id.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "scenes", tracing.DBOperationDelete)
	var err error
	defer func() { endSpan(err) }()

	res, err := r.db.ExecContext(ctx, "DELETE FROM scenes WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrSceneNotFound
		return err
	}
	return nil
}
