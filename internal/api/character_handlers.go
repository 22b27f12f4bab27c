package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stagehand-live/stagehand/internal/character"
	"github.com/stagehand-live/stagehand/internal/middleware"
	"github.com/stagehand-live/stagehand/internal/validate"
)

// CreateCharacterRequest represents the request body for creating a character.
type CreateCharacterRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Appearance  string `json:"appearance"`
	Tags        string `json:"tags"`
}

// UpdateCharacterRequest represents the request body for updating a character.
// Nil fields are left unchanged.
type UpdateCharacterRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Appearance  *string `json:"appearance,omitempty"`
	Tags        *string `json:"tags,omitempty"`
}

// CharacterHandlers holds dependencies for character HTTP handlers.
type CharacterHandlers struct {
	repo character.Repository
}

// NewCharacterHandlers creates a new CharacterHandlers instance.
func NewCharacterHandlers(repo character.Repository) *CharacterHandlers {
	return &CharacterHandlers{repo: repo}
}

// ListCharacters handles GET /api/characters.
func (h *CharacterHandlers) ListCharacters(w http.ResponseWriter, r *http.Request) {
	search, limit, offset := listParams(r)

	characters, err := h.repo.List(r.Context(), character.ListOptions{Search: search, Limit: limit, Offset: offset})
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to list characters")
		return
	}

	WriteJSON(w, http.StatusOK, characters)
}

// GetCharacter handles GET /api/characters/{id}.
func (h *CharacterHandlers) GetCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Character id must be a positive integer")
		return
	}

	c, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, character.ErrCharacterNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Character not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to retrieve character")
		return
	}

	WriteJSON(w, http.StatusOK, c)
}

// validateCharacterFields checks the optional character fields against their
// ceilings. Returns the error message for the first failing field.
func validateCharacterFields(description, appearance, tags string) (string, string, string, string) {
	d, err := validate.Optional(description, character.MaxDescriptionLength)
	if err != nil {
		return "", "", "", "description must be at most 1000 characters"
	}
	a, err := validate.Optional(appearance, character.MaxAppearanceLength)
	if err != nil {
		return "", "", "", "appearance must be at most 1000 characters"
	}
	tg, err := validate.Optional(tags, character.MaxTagsLength)
	if err != nil {
		return "", "", "", "tags must be at most 500 characters"
	}
	return d, a, tg, ""
}

// CreateCharacter handles POST /api/characters.
func (h *CharacterHandlers) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req CreateCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	name, err := validate.Required(req.Name, character.MaxNameLength)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "name is required and must be at most 100 characters")
		return
	}
	description, appearance, tags, errMsg := validateCharacterFields(req.Description, req.Appearance, req.Tags)
	if errMsg != "" {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, errMsg)
		return
	}

	c := &character.Character{Name: name, Description: description, Appearance: appearance, Tags: tags}
	if err := h.repo.Create(r.Context(), c); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to create character")
		return
	}

	WriteJSON(w, http.StatusCreated, c)
}

// UpdateCharacter handles PUT /api/characters/{id}. Absent fields keep their values.
func (h *CharacterHandlers) UpdateCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Character id must be a positive integer")
		return
	}

	var req UpdateCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, character.ErrCharacterNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Character not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to retrieve character")
		return
	}

	if req.Name != nil {
		name, err := validate.Required(*req.Name, character.MaxNameLength)
		if err != nil {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "name is required and must be at most 100 characters")
			return
		}
		existing.Name = name
	}

	description := existing.Description
	if req.Description != nil {
		description = *req.Description
	}
	appearance := existing.Appearance
	if req.Appearance != nil {
		appearance = *req.Appearance
	}
	tags := existing.Tags
	if req.Tags != nil {
		tags = *req.Tags
	}
	d, a, tg, errMsg := validateCharacterFields(description, appearance, tags)
	if errMsg != "" {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, errMsg)
		return
	}
	existing.Description, existing.Appearance, existing.Tags = d, a, tg

	if err := h.repo.Update(r.Context(), existing); err != nil {
		if errors.Is(err, character.ErrCharacterNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Character not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to update character")
		return
	}

	WriteJSON(w, http.StatusOK, existing)
}

// DeleteCharacter handles DELETE /api/characters/{id}.
func (h *CharacterHandlers) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Character id must be a positive integer")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, character.ErrCharacterNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Character not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete character")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
