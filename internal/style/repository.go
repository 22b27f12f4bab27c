package style

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/stagehand-live/stagehand/internal/tracing"
)

// Repository defines data access for style profiles.
type Repository interface {
	List(ctx context.Context) ([]Profile, error)
	GetByID(ctx context.Context, id int64) (*Profile, error)
	GetDefault(ctx context.Context) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id int64) error
	SetDefault(ctx context.Context, id int64) (*Profile, error)
}

// SQLRepository is the SQLite-backed implementation of Repository.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a style profile repository backed by the given
// database.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const profileColumns = "id, name, style_preset, composition, lighting, mood, camera, post_processing, ai_style, is_default, created_at, updated_at"

func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Name, &p.StylePreset, &p.Composition, &p.Lighting, &p.Mood,
		&p.Camera, &p.PostProcessing, &p.AIStyle, &p.IsDefault, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all profiles, default first, then most recently updated.
func (r *SQLRepository) List(ctx context.Context) ([]Profile, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "style_profiles", tracing.DBOperationQuery)
	var err error
	defer func() { endSpan(err) }()

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+profileColumns+" FROM style_profiles ORDER BY is_default DESC, updated_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []Profile{}
	for rows.Next() {
		p, scanErr := scanProfile(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetByID returns the profile with the given id, or ErrProfileNotFound.
func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*Profile, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "style_profiles", tracing.DBOperationQuery)
	var err error
	defer func() { endSpan(err) }()

	row := r.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM style_profiles WHERE id = ?", id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrProfileNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetDefault returns the profile currently flagged default, or
// ErrProfileNotFound when none is.
func (r *SQLRepository) GetDefault(ctx context.Context) (*Profile, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "style_profiles", tracing.DBOperationQuery)
	var err error
	defer func() { endSpan(err) }()

	row := r.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM style_profiles WHERE is_default = 1 LIMIT 1")
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrProfileNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new profile and fills in its id and timestamps. When
// IsDefault is set, every other profile's flag is cleared first.
func (r *SQLRepository) Create(ctx context.Context, p *Profile) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "style_profiles", tracing.DBOperationInsert)
	var err error
	defer func() { endSpan(err) }()

	if p.IsDefault {
		if _, err = r.db.ExecContext(ctx, "UPDATE style_profiles SET is_default = 0"); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO style_profiles (name, style_preset, composition, lighting, mood, camera, post_processing, ai_style, is_default, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.Name, p.StylePreset, p.Composition, p.Lighting, p.Mood, p.Camera, p.PostProcessing, p.AIStyle, p.IsDefault, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

// Update persists changes to an existing profile and bumps updated_at.
// Returns ErrProfileNotFound when the id does not exist. When IsDefault is
// set, every other profile's flag is cleared first.
func (r *SQLRepository) Update(ctx context.Context, p *Profile) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "style_profiles", tracing.DBOperationUpdate)
	var err error
	defer func() { endSpan(err) }()

	if p.IsDefault {
		if _, err = r.db.ExecContext(ctx, "UPDATE style_profiles SET is_default = 0 WHERE id != ?", p.ID); err != nil {
			return err
		}
	}

	p.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"UPDATE style_profiles SET name = ?, style_preset = ?, composition = ?, lighting = ?, mood = ?, camera = ?, post_processing = ?, ai_style = ?, is_default = ?, updated_at = ? WHERE id = ?",
		p.Name, p.StylePreset, p.Composition, p.Lighting, p.Mood, p.Camera, p.PostProcessing, p.AIStyle, p.IsDefault, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrProfileNotFound
		return err
	}
	return nil
}

// Delete removes a profile. Returns ErrProfileNotFound when the id does not
// exist. Deleting the default leaves no default; callers may SetDefault a
// replacement.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "style_profiles", tracing.DBOperationDelete)
	var err error
	defer func() { endSpan(err) }()

	res, err := r.db.ExecContext(ctx, "DELETE FROM style_profiles WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrProfileNotFound
		return err
	}
	return nil
}

// SetDefault flags the given profile as default after clearing the flag on
// every other row. The two statements are not atomic; a crash in between
// leaves no default, which readers must tolerate.
func (r *SQLRepository) SetDefault(ctx context.Context, id int64) (*Profile, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "style_profiles", tracing.DBOperationUpdate)
	var err error
	defer func() { endSpan(err) }()

	if _, err = r.db.ExecContext(ctx, "UPDATE style_profiles SET is_default = 0"); err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE style_profiles SET is_default = 1, updated_at = ? WHERE id = ?",
		time.Now().UTC(), id,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		err = ErrProfileNotFound
		return nil, err
	}
	return r.GetByID(ctx, id)
}
