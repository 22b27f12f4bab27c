package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stagehand-live/stagehand/internal/event"
	"github.com/stagehand-live/stagehand/internal/middleware"
	"github.com/stagehand-live/stagehand/internal/validate"
)

// CreateEventRequest represents the request body for creating an event.
type CreateEventRequest struct {
	Description string `json:"description"`
	Type        string `json:"type"`
	Tags        string `json:"tags"`
}

// UpdateEventRequest represents the request body for updating an event.
// Nil fields are left unchanged.
type UpdateEventRequest struct {
	Description *string `json:"description,omitempty"`
	Type        *string `json:"type,omitempty"`
	Tags        *string `json:"tags,omitempty"`
}

// EventHandlers holds dependencies for event HTTP handlers.
type EventHandlers struct {
	repo event.Repository
}

// NewEventHandlers creates a new EventHandlers instance.
func NewEventHandlers(repo event.Repository) *EventHandlers {
	return &EventHandlers{repo: repo}
}

// ListEvents handles GET /api/events. The optional type query parameter
// filters by exact event type.
func (h *EventHandlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	search, limit, offset := listParams(r)

	events, err := h.repo.List(r.Context(), event.ListOptions{
		Search: search,
		Type:   r.URL.Query().Get("type"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to list events")
		return
	}

	WriteJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /api/events/{id}.
func (h *EventHandlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Event id must be a positive integer")
		return
	}

	e, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Event not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to retrieve event")
		return
	}

	WriteJSON(w, http.StatusOK, e)
}

// CreateEvent handles POST /api/events. An empty type defaults to "action".
func (h *EventHandlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	description, err := validate.Required(req.Description, event.MaxDescriptionLength)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "description is required and must be at most 500 characters")
		return
	}
	eventType, err := validate.Optional(req.Type, event.MaxTypeLength)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "type must be at most 100 characters")
		return
	}
	tags, err := validate.Optional(req.Tags, event.MaxTagsLength)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "tags must be at most 200 characters")
		return
	}

	e := &event.Event{Description: description, Type: eventType, Tags: tags}
	if err := h.repo.Create(r.Context(), e); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to create event")
		return
	}

	WriteJSON(w, http.StatusCreated, e)
}

// UpdateEvent handles PUT /api/events/{id}. Absent fields keep their values.
func (h *EventHandlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Event id must be a positive integer")
		return
	}

	var req UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Event not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to retrieve event")
		return
	}

	if req.Description != nil {
		description, err := validate.Required(*req.Description, event.MaxDescriptionLength)
		if err != nil {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "description is required and must be at most 500 characters")
			return
		}
		existing.Description = description
	}
	if req.Type != nil {
		eventType, err := validate.Optional(*req.Type, event.MaxTypeLength)
		if err != nil {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "type must be at most 100 characters")
			return
		}
		existing.Type = eventType
	}
	if req.Tags != nil {
		tags, err := validate.Optional(*req.Tags, event.MaxTagsLength)
		if err != nil {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "tags must be at most 200 characters")
			return
		}
		existing.Tags = tags
	}

	if err := h.repo.Update(r.Context(), existing); err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Event not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to update event")
		return
	}

	WriteJSON(w, http.StatusOK, existing)
}

// DeleteEvent handles DELETE /api/events/{id}.
func (h *EventHandlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Event id must be a positive integer")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Event not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete event")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
