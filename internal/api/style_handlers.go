package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stagehand-live/stagehand/internal/middleware"
	"github.com/stagehand-live/stagehand/internal/style"
	"github.com/stagehand-live/stagehand/internal/validate"
)

// StyleProfileRequest represents the request body for creating a style profile.
type StyleProfileRequest struct {
	Name           string `json:"name"`
	StylePreset    string `json:"style_preset"`
	Composition    string `json:"composition"`
	Lighting       string `json:"lighting"`
	Mood           string `json:"mood"`
	Camera         string `json:"camera"`
	PostProcessing string `json:"post_processing"`
	AIStyle        string `json:"ai_style"`
	IsDefault      bool   `json:"is_default"`
}

// UpdateStyleProfileRequest represents the request body for updating a style
// profile. Nil fields are left unchanged.
type UpdateStyleProfileRequest struct {
	Name           *string `json:"name,omitempty"`
	StylePreset    *string `json:"style_preset,omitempty"`
	Composition    *string `json:"composition,omitempty"`
	Lighting       *string `json:"lighting,omitempty"`
	Mood           *string `json:"mood,omitempty"`
	Camera         *string `json:"camera,omitempty"`
	PostProcessing *string `json:"post_processing,omitempty"`
	AIStyle        *string `json:"ai_style,omitempty"`
	IsDefault      *bool   `json:"is_default,omitempty"`
}

// StyleHandlers holds dependencies for style profile HTTP handlers.
type StyleHandlers struct {
	repo style.Repository
}

// NewStyleHandlers creates a new StyleHandlers instance.
func NewStyleHandlers(repo style.Repository) *StyleHandlers {
	return &StyleHandlers{repo: repo}
}

// validateProfile checks every dimension of the request against its ceiling.
// Returns an error message naming the failing field, or empty string.
func validateProfile(p *style.Profile) string {
	name, err := validate.Required(p.Name, style.MaxNameLength)
	if err != nil {
		return "name is required and must be at most 200 characters"
	}
	p.Name = name

	dims := []struct {
		field string
		value *string
		max   int
	}{
		{"style_preset", &p.StylePreset, style.MaxDimensionLength},
		{"composition", &p.Composition, style.MaxDimensionLength},
		{"lighting", &p.Lighting, style.MaxDimensionLength},
		{"mood", &p.Mood, style.MaxDimensionLength},
		{"camera", &p.Camera, style.MaxDimensionLength},
		{"post_processing", &p.PostProcessing, style.MaxDimensionLength},
		{"ai_style", &p.AIStyle, style.MaxAIStyleLength},
	}
	for _, d := range dims {
		v, err := validate.Optional(*d.value, d.max)
		if err != nil {
			return d.field + " exceeds its maximum length"
		}
		*d.value = v
	}
	return ""
}

// ListStyleProfiles handles GET /api/style-profiles. The default profile
// sorts first.
func (h *StyleHandlers) ListStyleProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.repo.List(r.Context())
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to list style profiles")
		return
	}

	WriteJSON(w, http.StatusOK, profiles)
}

// GetStyleProfile handles GET /api/style-profiles/{id}.
func (h *StyleHandlers) GetStyleProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Style profile id must be a positive integer")
		return
	}

	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, style.ErrProfileNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Style profile not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to retrieve style profile")
		return
	}

	WriteJSON(w, http.StatusOK, p)
}

// CreateStyleProfile handles POST /api/style-profiles. Creating a profile
// with is_default set clears the flag on every other profile.
func (h *StyleHandlers) CreateStyleProfile(w http.ResponseWriter, r *http.Request) {
	var req StyleProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	p := &style.Profile{
		Name:           req.Name,
		StylePreset:    req.StylePreset,
		Composition:    req.Composition,
		Lighting:       req.Lighting,
		Mood:           req.Mood,
		Camera:         req.Camera,
		PostProcessing: req.PostProcessing,
		AIStyle:        req.AIStyle,
		IsDefault:      req.IsDefault,
	}
	if errMsg := validateProfile(p); errMsg != "" {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, errMsg)
		return
	}

	if err := h.repo.Create(r.Context(), p); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to create style profile")
		return
	}

	WriteJSON(w, http.StatusCreated, p)
}

// UpdateStyleProfile handles PUT /api/style-profiles/{id}. Absent fields keep
// their values.
func (h *StyleHandlers) UpdateStyleProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Style profile id must be a positive integer")
		return
	}

	var req UpdateStyleProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, style.ErrProfileNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Style profile not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to retrieve style profile")
		return
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&existing.Name, req.Name)
	apply(&existing.StylePreset, req.StylePreset)
	apply(&existing.Composition, req.Composition)
	apply(&existing.Lighting, req.Lighting)
	apply(&existing.Mood, req.Mood)
	apply(&existing.Camera, req.Camera)
	apply(&existing.PostProcessing, req.PostProcessing)
	apply(&existing.AIStyle, req.AIStyle)
	if req.IsDefault != nil {
		existing.IsDefault = *req.IsDefault
	}

	if errMsg := validateProfile(existing); errMsg != "" {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, errMsg)
		return
	}

	if err := h.repo.Update(r.Context(), existing); err != nil {
		if errors.Is(err, style.ErrProfileNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Style profile not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to update style profile")
		return
	}

	WriteJSON(w, http.StatusOK, existing)
}

// SetDefaultStyleProfile handles PUT /api/style-profiles/{id}/default.
// The flag on every other profile is cleared first.
func (h *StyleHandlers) SetDefaultStyleProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Style profile id must be a positive integer")
		return
	}

	p, err := h.repo.SetDefault(r.Context(), id)
	if err != nil {
		if errors.Is(err, style.ErrProfileNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Style profile not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to set default style profile")
		return
	}

	WriteJSON(w, http.StatusOK, p)
}

// DeleteStyleProfile handles DELETE /api/style-profiles/{id}.
func (h *StyleHandlers) DeleteStyleProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Style profile id must be a positive integer")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, style.ErrProfileNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Style profile not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete style profile")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
