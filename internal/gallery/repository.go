package gallery

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/stagehand-live/stagehand/internal/tracing"
)

// ListOptions controls pagination for List.
type ListOptions struct {
	Limit  int
	Offset int
}

// Repository defines data access for gallery images.
type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Image, error)
	GetByID(ctx context.Context, id int64) (*Image, error)
	GetActive(ctx context.Context) (*Image, error)
	Create(ctx context.Context, img *Image) error
	SetActive(ctx context.Context, id int64) (*Image, error)
	ClearActive(ctx context.Context) error
	Delete(ctx context.Context, id int64) error
}

// SQLRepository is the SQLite-backed implementation of Repository.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates an image repository backed by the given database.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const imageColumns = "id, filename, original_name, url, template_id, is_active, created_at"

func scanImage(row interface{ Scan(...any) error }) (*Image, error) {
	var (
		img        Image
		templateID sql.NullInt64
	)
	err := row.Scan(&img.ID, &img.Filename, &img.OriginalName, &img.URL, &templateID, &img.IsActive, &img.CreatedAt)
	if err != nil {
		return nil, err
	}
	if templateID.Valid {
		img.TemplateID = &templateID.Int64
	}
	return &img, nil
}

// List returns images newest first.
func (r *SQLRepository) List(ctx context.Context, opts ListOptions) ([]Image, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "images", tracing.DBOperationQuery)
	var err error
	defer func() { endSpan(err) }()

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+imageColumns+" FROM images ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []Image{}
	for rows.Next() {
		img, scanErr := scanImage(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		images = append(images, *img)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	return images, nil
}

// GetByID returns the image with the given id, or ErrImageNotFound.
func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*Image, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "images", tracing.DBOperationQuery)
	var err error
	defer func() { endSpan(err) }()

	row := r.db.QueryRowContext(ctx, "SELECT "+imageColumns+" FROM images WHERE id = ?", id)
	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrImageNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// GetActive returns the image currently flagged active, or ErrImageNotFound
// when none is.
func (r *SQLRepository) GetActive(ctx context.Context) (*Image, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "images", tracing.DBOperationQuery)
	var err error
	defer func() { endSpan(err) }()

	row := r.db.QueryRowContext(ctx, "SELECT "+imageColumns+" FROM images WHERE is_active = 1 LIMIT 1")
	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrImageNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Create inserts a new image row and fills in its id and created_at. When
// IsActive is set, every other row's flag is cleared first.
func (r *SQLRepository) Create(ctx context.Context, img *Image) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "images", tracing.DBOperationInsert)
	var err error
	defer func() { endSpan(err) }()

	if img.IsActive {
		if _, err = r.db.ExecContext(ctx, "UPDATE images SET is_active = 0"); err != nil {
			return err
		}
	}
	img.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO images (filename, original_name, url, template_id, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		img.Filename, img.OriginalName, img.URL, img.TemplateID, img.IsActive, img.CreatedAt,
	)
	if err != nil {
		return err
	}
	img.ID, err = res.LastInsertId()
	return err
}

// SetActive flags the given image as active after clearing the flag on every
// other row. The two statements are not atomic; a crash in between leaves no
// active image, which readers must tolerate.
func (r *SQLRepository) SetActive(ctx context.Context, id int64) (*Image, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "images", tracing.DBOperationUpdate)
	var err error
	defer func() { endSpan(err) }()

	if _, err = r.db.ExecContext(ctx, "UPDATE images SET is_active = 0"); err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, "UPDATE images SET is_active = 1 WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		err = ErrImageNotFound
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// ClearActive clears the active flag on every row.
func (r *SQLRepository) ClearActive(ctx context.Context) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "images", tracing.DBOperationUpdate)
	var err error
	defer func() { endSpan(err) }()

	_, err = r.db.ExecContext(ctx, "UPDATE images SET is_active = 0")
	return err
}

// Delete removes an image row. Returns ErrImageNotFound when the id does not
// exist. File removal is the caller's concern.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	ctx, endSpan := tracing.StartDBSpan(ctx, "images", tracing.DBOperationDelete)
	var err error
	defer func() { endSpan(err) }()

	res, err := r.db.ExecContext(ctx, "DELETE FROM images WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrImageNotFound
		return err
	}
	return nil
}
