package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/stagehand-live/stagehand/internal/character"
	"github.com/stagehand-live/stagehand/internal/event"
	"github.com/stagehand-live/stagehand/internal/middleware"
	"github.com/stagehand-live/stagehand/internal/prompt"
	"github.com/stagehand-live/stagehand/internal/scene"
	"github.com/stagehand-live/stagehand/internal/style"
)

// resolveAllLimit is the list limit used when the parser needs every entity.
// Well above anything a single admin accumulates in practice.
const resolveAllLimit = 1000

// PreviewPromptRequest represents the request body for a live prompt
// preview. Same shape as template generation plus the free action text.
type PreviewPromptRequest struct {
	SceneID        *int64   `json:"sceneId"`
	CharacterIDs   []int64  `json:"characterIds"`
	EventIDs       []int64  `json:"eventIds"`
	CustomEvents   []string `json:"customEvents"`
	CustomPrompt   string   `json:"customPrompt"`
	Modifiers      []string `json:"modifiers"`
	Action         string   `json:"action"`
	StylePreset    string   `json:"stylePreset"`
	Composition    string   `json:"composition"`
	Lighting       string   `json:"lighting"`
	Mood           string   `json:"mood"`
	Camera         string   `json:"camera"`
	PostProcessing string   `json:"postProcessing"`
	AIStyle        string   `json:"aiStyle"`
	StyleProfileID *int64   `json:"styleProfileId"`
}

// ParseNarrativeRequest represents the request body for a narrative parse.
type ParseNarrativeRequest struct {
	Text string `json:"text"`
}

// PromptHandlers holds dependencies for the preview, parse, and options
// endpoints.
type PromptHandlers struct {
	refs refLookup
}

// NewPromptHandlers creates a new PromptHandlers instance.
func NewPromptHandlers(scenes scene.Repository, characters character.Repository, events event.Repository, styles style.Repository) *PromptHandlers {
	return &PromptHandlers{
		refs: refLookup{scenes: scenes, characters: characters, events: events, styles: styles},
	}
}

// PreviewPrompt handles POST /api/prompts/preview. Renders the prose form of
// the current selection without persisting anything. An empty selection
// yields an empty prompt rather than an error so the dashboard can call this
// on every change.
func (h *PromptHandlers) PreviewPrompt(w http.ResponseWriter, r *http.Request) {
	var req PreviewPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	in := prompt.Input{
		CustomPrompt: req.CustomPrompt,
		Modifiers:    req.Modifiers,
		CustomEvents: req.CustomEvents,
		Action:       strings.TrimSpace(req.Action),
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
	in, _, err := h.refs.resolve(r.Context(), in, req.SceneID, req.CharacterIDs, req.EventIDs, req.StyleProfileID)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to resolve references")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"prompt": prompt.RenderProse(in)})
}

// ParseNarrative handles POST /api/narrative/parse. Matches free text
// against every known scene, character, event, and the style vocabulary.
func (h *PromptHandlers) ParseNarrative(w http.ResponseWriter, r *http.Request) {
	var req ParseNarrativeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	scenes, err := h.refs.scenes.List(r.Context(), scene.ListOptions{Limit: resolveAllLimit})
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to load scenes")
		return
	}
	characters, err := h.refs.characters.List(r.Context(), character.ListOptions{Limit: resolveAllLimit})
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to load characters")
		return
	}
	events, err := h.refs.events.List(r.Context(), event.ListOptions{Limit: resolveAllLimit})
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to load events")
		return
	}

	result := prompt.ParseNarrative(req.Text, scenes, characters, events, prompt.DefaultVocabulary())
	WriteJSON(w, http.StatusOK, result)
}

// Options handles GET /api/options. Returns the built-in style vocabulary
// the dashboard renders its pickers from.
func (h *PromptHandlers) Options(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, prompt.DefaultVocabulary())
}
