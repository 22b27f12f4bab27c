// Package event provides the model and repository for short narrative
// beats (actions, discoveries, encounters) that feed the prompt assembler.
package event

import (
	"errors"
	"time"
)

// ErrEventNotFound is returned when an event lookup fails.
var ErrEventNotFound = errors.New("event not found")

// DefaultType is used when a created event carries no explicit type.
const DefaultType = "action"

// Field length ceilings enforced at the API boundary.
const (
	MaxDescriptionLength = 500
	MaxTypeLength        = 100
	MaxTagsLength        = 200
)

// Event is a reusable one-line narrative beat. Events are append-mostly;
// they carry no updated_at column.
type Event struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Tags        string    `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}
