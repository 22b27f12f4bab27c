// Package style provides the model and repository for named style profiles,
// bundles of rendering dimensions applied as defaults during live prompt
// assembly.
package style

import (
	"errors"
	"time"
)

// ErrProfileNotFound is returned when a style profile lookup fails.
var ErrProfileNotFound = errors.New("style profile not found")

// Field length ceilings enforced at the API boundary.
const (
	MaxNameLength      = 200
	MaxDimensionLength = 500
	MaxAIStyleLength   = 200
)

// Profile is a named bundle of style dimensions. At most one profile is
// flagged default at a time; the flag is advisory and maintained by
// SetDefault's clear-then-set sequence.
type Profile struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	StylePreset    string    `json:"style_preset"`
	Composition    string    `json:"composition"`
	Lighting       string    `json:"lighting"`
	Mood           string    `json:"mood"`
	Camera         string    `json:"camera"`
	PostProcessing string    `json:"post_processing"`
	AIStyle        string    `json:"ai_style"`
	IsDefault      bool      `json:"is_default"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
