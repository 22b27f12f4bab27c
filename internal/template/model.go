// Package template provides the model and repository for generated prompt
// templates. Rows are immutable: each generation inserts, and the only other
// operations are list, get, and delete.
package template

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrTemplateNotFound is returned when a template lookup fails.
var ErrTemplateNotFound = errors.New("template not found")

// Field length ceilings enforced at the API boundary.
const (
	MaxTitleLength        = 200
	MaxCustomEventLength  = 500
	MaxCustomPromptLength = 1000
)

// Template is a persisted, rendered prompt together with the references and
// raw input it was generated from. SceneID and StyleProfileID are nil when
// the generation carried none; dangling ids are kept when the referenced row
// is later deleted.
type Template struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	TemplateText   string          `json:"template_text"`
	SceneID        *int64          `json:"scene_id"`
	CharacterIDs   []int64         `json:"character_ids"`
	EventIDs       []int64         `json:"event_ids"`
	AIStyle        string          `json:"ai_style"`
	InputSnapshot  json.RawMessage `json:"input_snapshot,omitempty"`
	StyleProfileID *int64          `json:"style_profile_id"`
	CreatedAt      time.Time       `json:"created_at"`

	// SceneTitle is populated on list/get by joining the scenes table;
	// empty when the scene reference is nil or dangling.
	SceneTitle string `json:"scene_title,omitempty"`
}
