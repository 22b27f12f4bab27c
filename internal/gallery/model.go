// Package gallery provides the model and repository for uploaded images and
// the single-active-image flag driving the stream overlay.
package gallery

import (
	"errors"
	"time"
)

// ErrImageNotFound is returned when an image lookup fails.
var ErrImageNotFound = errors.New("image not found")

// Image is an uploaded file's database row. Filename is the stored name
// (uuid plus the original extension); URL is the public path clients load.
// At most one row is flagged active at a time; the flag is advisory and
// maintained by SetActive's clear-then-set sequence.
type Image struct {
	ID           int64     `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	URL          string    `json:"url"`
	TemplateID   *int64    `json:"template_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
