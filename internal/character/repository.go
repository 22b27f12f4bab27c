package character

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/stagehand-live/stagehand/internal/tracing"
)

// ListOptions controls filtering and pagination for List.
// Search performs a case-insensitive substring match across name,
// description, and tags.
type ListOptions struct {
	Search string
	Limit  int
	Offset int
}

// Repository defines data access for characters.
type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Character, error)
	GetByID(ctx context.Context, id int64) (*Character, error)
	Create(ctx context.Context, c *Character) error
	Update(ctx context.Context, c *Character) error
	Delete(ctx context.Context, id int64) error
}

// SQLRepository is the SQLite-backed implementation of Repository.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a character repository backed by the given database.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const characterColumns = "id, name, description, appearance, tags, created_at, updated_at"

func scanCharacter(row interface{ Scan(...any) error }) (*Character, error) {
	var c Character
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Appearance, &c.Tags, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns characters ordered by most recently updated.
func (r *SQLRepository) List(ctx context.Context, opts ListOptions) ([]Character, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "characters", tracing.DBOperationQuery)
	var err error
	defer func() { endSpan(err) }()

	query := "SELECT " + characterColumns + " FROM characters"
	args := []any{}
	if opts.Search != "" {
		query += " WHERE name LIKE ? OR description LIKE ? OR tags LIKE ?"
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

	characters := []Character{}
	for rows.Next() {
		c, scanErr := scanCharacter(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		characters = append(characters, *c)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	return characters, nil
}

// GetByID returns the character with the given id, or ErrCharacterNotFound.
func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*Character, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "characters", tracing.DBOperationQuery)
	var err error
	defer func() { endSpan(err) }()

	row := r.db.QueryRowContext(ctx, "SELECT "+characterColumns+" FROM characters WHERE id = ?", id)
	c, err := scanCharacter(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrCharacterNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new character and fills in its id and timestamps.
func (r *SQLRepository) Create(ctx context.Context, c *Character) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "characters", tracing.DBOperationInsert)
	var err error
	defer func() { endSpan(err) }()

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO characters (name, description, appearance, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		c.Name, c.Description, c.Appearance, c.Tags, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

// Update persists changes to an existing character and bumps updated_at.
// Returns ErrCharacterNotFound when the id does not exist.
func (r *SQLRepository) Update(ctx context.Context, c *Character) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "characters", tracing.DBOperationUpdate)
	var err error
	defer func() { endSpan(err) }()

	c.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"UPDATE characters SET name = ?, description = ?, appearance = ?, tags = ?, updated_at = ? WHERE id = ?",
		c.Name, c.Description, c.Appearance, c.Tags, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrCharacterNotFound
		return err
	}
	return nil
}

// Delete removes a character. Returns ErrCharacterNotFound when the id does
// not exist; templates referencing the character keep their dangling id.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "characters", tracing.DBOperationDelete)
	var err error
	defer func() { endSpan(err) }()

	res, err := r.db.ExecContext(ctx, "DELETE FROM characters WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrCharacterNotFound
		return err
	}
	return nil
}
