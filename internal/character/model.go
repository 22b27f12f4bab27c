// Package character provides the model and repository for recurring
// characters referenced from generated prompts.
package character

import (
	"errors"
	"time"
)

// ErrCharacterNotFound is returned when a character lookup fails.
var ErrCharacterNotFound = errors.New("character not found")

// Field length ceilings enforced at the API boundary.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 1000
	MaxAppearanceLength  = 1000
	MaxTagsLength        = 500
)

// Character is a recurring named figure. Appearance holds the visual
// description preferred by the prompt assembler; Description is the
// narrative fallback when Appearance is empty.
type Character struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Appearance  string    `json:"appearance"`
	Tags        string    `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
