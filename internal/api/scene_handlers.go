package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stagehand-live/stagehand/internal/middleware"
	"github.com/stagehand-live/stagehand/internal/scene"
	"github.com/stagehand-live/stagehand/internal/validate"
)

// CreateSceneRequest represents the request body for creating a scene.
type CreateSceneRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

// UpdateSceneRequest represents the request body for updating a scene.
// Nil fields are left unchanged.
type UpdateSceneRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Tags        *string `json:"tags,omitempty"`
}

// SceneHandlers holds dependencies for scene HTTP handlers.
type SceneHandlers struct {
	repo scene.Repository
}

// NewSceneHandlers creates a new SceneHandlers instance.
func NewSceneHandlers(repo scene.Repository) *SceneHandlers {
	return &SceneHandlers{repo: repo}
}

// ListScenes handles GET /api/scenes.
func (h *SceneHandlers) ListScenes(w http.ResponseWriter, r *http.Request) {
	search, limit, offset := listParams(r)

	scenes, err := h.repo.List(r.Context(), scene.ListOptions{Search: search, Limit: limit, Offset: offset})
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to list scenes")
		return
	}

	WriteJSON(w, http.StatusOK, scenes)
}

// GetScene handles GET /api/scenes/{id}.
func (h *SceneHandlers) GetScene(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Scene id must be a positive integer")
		return
	}

	s, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, scene.ErrSceneNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Scene not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to retrieve scene")
		return
	}

	WriteJSON(w, http.StatusOK, s)
}

// CreateScene handles POST /api/scenes.
func (h *SceneHandlers) CreateScene(w http.ResponseWriter, r *http.Request) {
	var req CreateSceneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	title, err := validate.Required(req.Title, scene.MaxTitleLength)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "title is required and must be at most 200 characters")
		return
	}
	description, err := validate.Optional(req.Description, scene.MaxDescriptionLength)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "description must be at most 2000 characters")
		return
	}
	tags, err := validate.Optional(req.Tags, scene.MaxTagsLength)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "tags must be at most 500 characters")
		return
	}

	s := &scene.Scene{Title: title, Description: description, Tags: tags}
	if err := h.repo.Create(r.Context(), s); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to create scene")
		return
	}

	WriteJSON(w, http.StatusCreated, s)
}

// UpdateScene handles PUT /api/scenes/{id}. Absent fields keep their values.
func (h *SceneHandlers) UpdateScene(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Scene id must be a positive integer")
		return
	}

	var req UpdateSceneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, scene.ErrSceneNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Scene not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to retrieve scene")
		return
	}

	if req.Title != nil {
		title, err := validate.Required(*req.Title, scene.MaxTitleLength)
		if err != nil {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "title is required and must be at most 200 characters")
			return
		}
		existing.Title = title
	}
	if req.Description != nil {
		description, err := validate.Optional(*req.Description, scene.MaxDescriptionLength)
		if err != nil {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "description must be at most 2000 characters")
			return
		}
		existing.Description = description
	}
	if req.Tags != nil {
		tags, err := validate.Optional(*req.Tags, scene.MaxTagsLength)
		if err != nil {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "tags must be at most 500 characters")
			return
		}
		existing.Tags = tags
	}

	if err := h.repo.Update(r.Context(), existing); err != nil {
		if errors.Is(err, scene.ErrSceneNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Scene not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to update scene")
		return
	}

	WriteJSON(w, http.StatusOK, existing)
}

// DeleteScene handles DELETE /api/scenes/{id}.
func (h *SceneHandlers) DeleteScene(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Scene id must be a positive integer")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, scene.ErrSceneNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Scene not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete scene")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DuplicateScene handles POST /api/scenes/{id}/duplicate. The copy gets the
// original title with a " (Copy)" suffix, truncated to the title ceiling.
func (h *SceneHandlers) DuplicateScene(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Scene id must be a positive integer")
		return
	}

	source, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, scene.ErrSceneNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Scene not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to retrieve scene")
		return
	}

	dup := &scene.Scene{
		Title:       scene.CopyTitle(source.Title),
		Description: source.Description,
		Tags:        source.Tags,
	}
	if err := h.repo.Create(r.Context(), dup); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to duplicate scene")
		return
	}

	WriteJSON(w, http.StatusCreated, dup)
}
