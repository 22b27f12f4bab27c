// Package scene provides the model and repository for reusable scene
// descriptions that can be attached to generated prompts.
package scene

import (
	"errors"
	"time"
)

// ErrSceneNotFound is returned when a scene lookup fails.
var ErrSceneNotFound = errors.New("scene not found")

// Field length ceilings enforced at the API boundary.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxTagsLength        = 500
)

// Scene is a reusable location/setting description.
// Tags is an opaque comma-separated string; splitting and trimming is the
// consumer's responsibility.
type Scene struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        string    `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CopyTitle returns the title used when duplicating a scene, truncated to the
// title ceiling so the suffix never pushes it over.
func CopyTitle(title string) string {
	copied := title + " (Copy)"
	if len(copied) > MaxTitleLength {
		copied = copied[:MaxTitleLength]
	}
	return copied
}
