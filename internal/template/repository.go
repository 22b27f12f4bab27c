package template

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/stagehand-live/stagehand/internal/tracing"
)

// ListOptions controls pagination for List.
type ListOptions struct {
	Limit  int
	Offset int
}

// Repository defines data access for templates.
type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Template, error)
	GetByID(ctx context.Context, id int64) (*Template, error)
	Create(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id int64) error
}

// SQLRepository is the SQLite-backed implementation of Repository.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a template repository backed by the given database.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const templateSelect = `SELECT t.id, t.title, t.template_text, t.scene_id, t.character_ids,
	t.event_ids, t.ai_style, t.input_snapshot, t.style_profile_id, t.created_at,
	COALESCE(s.title, '')
FROM templates t
LEFT JOIN scenes s ON s.id = t.scene_id`

func marshalIDs(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalIDs(raw string) ([]int64, error) {
	if raw == "" {
		return []int64{}, nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func scanTemplate(row interface{ Scan(...any) error }) (*Template, error) {
	var (
		t         Template
		charRaw   string
		eventRaw  string
		snapRaw   sql.NullString
		sceneID   sql.NullInt64
		profileID sql.NullInt64
	)
	err := row.Scan(&t.ID, &t.Title, &t.TemplateText, &sceneID, &charRaw,
		&eventRaw, &t.AIStyle, &snapRaw, &profileID, &t.CreatedAt, &t.SceneTitle)
	if err != nil {
		return nil, err
	}
	if sceneID.Valid {
		t.SceneID = &sceneID.Int64
	}
	if profileID.Valid {
		t.StyleProfileID = &profileID.Int64
	}
	if snapRaw.Valid && snapRaw.String != "" {
		t.InputSnapshot = json.RawMessage(snapRaw.String)
	}
	if t.CharacterIDs, err = unmarshalIDs(charRaw); err != nil {
		return nil, err
	}
	if t.EventIDs, err = unmarshalIDs(eventRaw); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns templates newest first, with scene titles joined in.
func (r *SQLRepository) List(ctx context.Context, opts ListOptions) ([]Template, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "templates", tracing.DBOperationQuery)
	var err error
	defer func() { endSpan(err) }()

	rows, err := r.db.QueryContext(ctx,
		templateSelect+" ORDER BY t.created_at DESC, t.id DESC LIMIT ? OFFSET ?",
		opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []Template{}
	for rows.Next() {
		t, scanErr := scanTemplate(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		templates = append(templates, *t)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// GetByID returns the template with the given id, or ErrTemplateNotFound.
func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*Template, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "templates", tracing.DBOperationQuery)
	var err error
	defer func() { endSpan(err) }()

	row := r.db.QueryRowContext(ctx, templateSelect+" WHERE t.id = ?", id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrTemplateNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new template and fills in its id and created_at.
func (r *SQLRepository) Create(ctx context.Context, t *Template) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "templates", tracing.DBOperationInsert)
	var err error
	defer func() { endSpan(err) }()

	charRaw, err := marshalIDs(t.CharacterIDs)
	if err != nil {
		return err
	}
	eventRaw, err := marshalIDs(t.EventIDs)
	if err != nil {
		return err
	}
	var snapRaw any
	if len(t.InputSnapshot) > 0 {
		snapRaw = string(t.InputSnapshot)
	}

	t.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO templates (title, template_text, scene_id, character_ids, event_ids, ai_style, input_snapshot, style_profile_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.Title, t.TemplateText, t.SceneID, charRaw, eventRaw, t.AIStyle, snapRaw, t.StyleProfileID, t.CreatedAt,
	)
	if err != nil {
		return err
	}
	t.ID, err = res.LastInsertId()
	return err
}

// Delete removes a template. Returns ErrTemplateNotFound when the id does
// not exist.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "templates", tracing.DBOperationDelete)
	var err error
	defer func() { endSpan(err) }()

	res, err := r.db.ExecContext(ctx, "DELETE FROM templates WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrTemplateNotFound
		return err
	}
	return nil
}
