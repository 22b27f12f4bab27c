package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stagehand-live/stagehand/internal/character"
	"github.com/stagehand-live/stagehand/internal/event"
	"github.com/stagehand-live/stagehand/internal/middleware"
	"github.com/stagehand-live/stagehand/internal/overlay"
	"github.com/stagehand-live/stagehand/internal/prompt"
	"github.com/stagehand-live/stagehand/internal/scene"
	"github.com/stagehand-live/stagehand/internal/style"
	"github.com/stagehand-live/stagehand/internal/template"
	"github.com/stagehand-live/stagehand/internal/validate"
)

// GenerateTemplateRequest represents the request body for generating a
// template. Field names follow the dashboard's camelCase convention.
type GenerateTemplateRequest struct {
	Title          string   `json:"title"`
	SceneID        *int64   `json:"sceneId"`
	CharacterIDs   []int64  `json:"characterIds"`
	EventIDs       []int64  `json:"eventIds"`
	CustomEvents   []string `json:"customEvents"`
	CustomPrompt   string   `json:"customPrompt"`
	Modifiers      []string `json:"modifiers"`
	StylePreset    string   `json:"stylePreset"`
	Composition    string   `json:"composition"`
	Lighting       string   `json:"lighting"`
	Mood           string   `json:"mood"`
	Camera         string   `json:"camera"`
	PostProcessing string   `json:"postProcessing"`
	AIStyle        string   `json:"aiStyle"`
	StyleProfileID *int64   `json:"styleProfileId"`
}

// TemplateHandlers holds dependencies for template HTTP handlers.
type TemplateHandlers struct {
	templates template.Repository
	refs      refLookup
	hub       *overlay.Hub
	metrics   *middleware.Metrics
}

// NewTemplateHandlers creates a new TemplateHandlers instance.
// hub and metrics may be nil in tests.
func NewTemplateHandlers(
	templates template.Repository,
	scenes scene.Repository,
	characters character.Repository,
	events event.Repository,
	styles style.Repository,
	hub *overlay.Hub,
	metrics *middleware.Metrics,
) *TemplateHandlers {
	return &TemplateHandlers{
		templates: templates,
		refs:      refLookup{scenes: scenes, characters: characters, events: events, styles: styles},
		hub:       hub,
		metrics:   metrics,
	}
}

// ListTemplates handles GET /api/templates, newest first.
func (h *TemplateHandlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	_, limit, offset := listParams(r)

	templates, err := h.templates.List(r.Context(), template.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to list templates")
		return
	}

	WriteJSON(w, http.StatusOK, templates)
}

// GetTemplate handles GET /api/templates/{id}.
func (h *TemplateHandlers) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Template id must be a positive integer")
		return
	}

	t, err := h.templates.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Template not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to retrieve template")
		return
	}

	WriteJSON(w, http.StatusOK, t)
}

// GenerateTemplate handles POST /api/templates/generate. References are
// resolved in input order with unresolvable ids dropped silently, the prompt
// is rendered in sections mode, and the result is persisted together with
// the full input snapshot. Every call creates a new row.
func (h *TemplateHandlers) GenerateTemplate(w http.ResponseWriter, r *http.Request) {
	var req GenerateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	title, err := validate.Required(req.Title, template.MaxTitleLength)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "title is required and must be at most 200 characters")
		return
	}
	for _, ce := range req.CustomEvents {
		if _, err := validate.Optional(ce, template.MaxCustomEventLength); err != nil {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "custom events must be at most 500 characters each")
			return
		}
	}
	if _, err := validate.Optional(req.CustomPrompt, template.MaxCustomPromptLength); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "custom prompt must be at most 1000 characters")
		return
	}

	in := prompt.Input{
		CustomPrompt: req.CustomPrompt,
		Modifiers:    req.Modifiers,
		CustomEvents: req.CustomEvents,
		Style: prompt.StyleValues{
			StylePreset:    req.StylePreset,
			Composition:    req.Composition,
			Lighting:       req.Lighting,
			Mood:           req.Mood,
			Camera:         req.Camera,
			PostProcessing: req.PostProcessing,
			AIStyle:        req.AIStyle,
		},
	}
	in, resolved, err := h.refs.resolve(r.Context(), in, req.SceneID, req.CharacterIDs, req.EventIDs, req.StyleProfileID)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to resolve references")
		return
	}

	rendered := prompt.RenderSections(in)
	if rendered == "" {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Generated prompt is empty, add a scene, characters, events, or styles")
		return
	}

	snapshot, err := json.Marshal(req)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to snapshot input")
		return
	}

	t := &template.Template{
		Title:          title,
		TemplateText:   rendered,
		SceneID:        resolved.sceneID,
		CharacterIDs:   resolved.characterIDs,
		EventIDs:       resolved.eventIDs,
		AIStyle:        in.Style.AIStyle,
		InputSnapshot:  snapshot,
		StyleProfileID: resolved.styleProfileID,
	}
	if err := h.templates.Create(r.Context(), t); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to save template")
		return
	}
	if in.Scene != nil {
		t.SceneTitle = in.Scene.Title
	}

	if h.hub != nil {
		h.hub.BroadcastAll(overlay.EventTemplateGenerated, t)
	}
	if h.metrics != nil {
		h.metrics.IncTemplatesGenerated()
	}

	WriteJSON(w, http.StatusCreated, t)
}

// DeleteTemplate handles DELETE /api/templates/{id}.
func (h *TemplateHandlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Template id must be a positive integer")
		return
	}

	if err := h.templates.Delete(r.Context(), id); err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Template not found")
			return
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete template")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
