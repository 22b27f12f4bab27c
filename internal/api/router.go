package api

import (
	"net/http"

	"github.com/stagehand-live/stagehand/internal/auth"
	"github.com/stagehand-live/stagehand/internal/character"
	"github.com/stagehand-live/stagehand/internal/event"
	"github.com/stagehand-live/stagehand/internal/gallery"
	"github.com/stagehand-live/stagehand/internal/image"
	"github.com/stagehand-live/stagehand/internal/middleware"
	"github.com/stagehand-live/stagehand/internal/overlay"
	"github.com/stagehand-live/stagehand/internal/scene"
	"github.com/stagehand-live/stagehand/internal/style"
	"github.com/stagehand-live/stagehand/internal/template"
	"github.com/stagehand-live/stagehand/internal/upload"
)

// RouterConfig carries every dependency the route table needs. Optional
// fields (Hub, Metrics, Sanitizer, LoginLimiter, MetricsHandler, HealthHandler)
// may be nil.
type RouterConfig struct {
	Scenes     scene.Repository
	Characters character.Repository
	Events     event.Repository
	Styles     style.Repository
	Templates  template.Repository
	Images     gallery.Repository

	Store     upload.Store
	Sanitizer *image.Sanitizer
	Hub       *overlay.Hub

	Sessions    *auth.SessionService
	Credentials *auth.Credentials

	LoginLimiter middleware.RateLimitStore
	Metrics      *middleware.Metrics

	MetricsHandler http.Handler
	HealthHandler  http.Handler

	UploadsDir string
	OverlayDir string

	MaxUploadBytes int64
	SecureCookies  bool
}

// NewRouter builds the full route table. Entity, template, prompt, and image
// routes sit behind the session cookie; health, metrics, the websocket, the
// overlay page, uploads, and the auth endpoints stay open.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	scenes := NewSceneHandlers(cfg.Scenes)
	characters := NewCharacterHandlers(cfg.Characters)
	events := NewEventHandlers(cfg.Events)
	styles := NewStyleHandlers(cfg.Styles)
	templates := NewTemplateHandlers(cfg.Templates, cfg.Scenes, cfg.Characters, cfg.Events, cfg.Styles, cfg.Hub, cfg.Metrics)
	prompts := NewPromptHandlers(cfg.Scenes, cfg.Characters, cfg.Events, cfg.Styles)
	images := NewImageHandlers(cfg.Images, cfg.Store, cfg.Sanitizer, cfg.Hub, cfg.Metrics, cfg.MaxUploadBytes)
	authn := NewAuthHandlers(cfg.Credentials, cfg.Sessions, cfg.SecureCookies)
	ws := NewWSHandlers(cfg.Hub, cfg.Metrics)

	sessionAuth := middleware.SessionAuth(cfg.Sessions, cfg.SecureCookies)
	guard := func(h http.HandlerFunc) http.Handler {
		return sessionAuth(h)
	}

	mux.Handle("GET /api/scenes", guard(scenes.ListScenes))
	mux.Handle("POST /api/scenes", guard(scenes.CreateScene))
	mux.Handle("GET /api/scenes/{id}", guard(scenes.GetScene))
	mux.Handle("PUT /api/scenes/{id}", guard(scenes.UpdateScene))
	mux.Handle("DELETE /api/scenes/{id}", guard(scenes.DeleteScene))
	mux.Handle("POST /api/scenes/{id}/duplicate", guard(scenes.DuplicateScene))

	mux.Handle("GET /api/characters", guard(characters.ListCharacters))
	mux.Handle("POST /api/characters", guard(characters.CreateCharacter))
	mux.Handle("GET /api/characters/{id}", guard(characters.GetCharacter))
	mux.Handle("PUT /api/characters/{id}", guard(characters.UpdateCharacter))
	mux.Handle("DELETE /api/characters/{id}", guard(characters.DeleteCharacter))

	mux.Handle("GET /api/events", guard(events.ListEvents))
	mux.Handle("POST /api/events", guard(events.CreateEvent))
	mux.Handle("GET /api/events/{id}", guard(events.GetEvent))
	mux.Handle("PUT /api/events/{id}", guard(events.UpdateEvent))
	mux.Handle("DELETE /api/events/{id}", guard(events.DeleteEvent))

	mux.Handle("GET /api/style-profiles", guard(styles.ListStyleProfiles))
	mux.Handle("POST /api/style-profiles", guard(styles.CreateStyleProfile))
	mux.Handle("GET /api/style-profiles/{id}", guard(styles.GetStyleProfile))
	mux.Handle("PUT /api/style-profiles/{id}", guard(styles.UpdateStyleProfile))
	mux.Handle("PUT /api/style-profiles/{id}/default", guard(styles.SetDefaultStyleProfile))
	mux.Handle("DELETE /api/style-profiles/{id}", guard(styles.DeleteStyleProfile))

	mux.Handle("GET /api/templates", guard(templates.ListTemplates))
	mux.Handle("POST /api/templates/generate", guard(templates.GenerateTemplate))
	mux.Handle("GET /api/templates/{id}", guard(templates.GetTemplate))
	mux.Handle("DELETE /api/templates/{id}", guard(templates.DeleteTemplate))

	mux.Handle("POST /api/prompts/preview", guard(prompts.PreviewPrompt))
	mux.Handle("POST /api/narrative/parse", guard(prompts.ParseNarrative))
	mux.Handle("GET /api/options", guard(prompts.Options))

	mux.Handle("GET /api/images", guard(images.ListImages))
	mux.Handle("POST /api/images/upload", guard(images.UploadImage))
	mux.Handle("PUT /api/images/{id}/activate", guard(images.ActivateImage))
	mux.Handle("PUT /api/images/hide", guard(images.HideImage))
	mux.Handle("PUT /api/images/caption", guard(images.Caption))
	mux.Handle("GET /api/images/active", guard(images.ActiveImage))
	mux.Handle("DELETE /api/images/{id}", guard(images.DeleteImage))

	login := http.Handler(http.HandlerFunc(authn.Login))
	if cfg.LoginLimiter != nil {
		login = middleware.RateLimiter(cfg.LoginLimiter, middleware.DefaultLoginLimit(), middleware.IPKeyFunc())(login)
	}
	mux.Handle("POST /api/auth/login", login)
	mux.HandleFunc("POST /api/auth/logout", authn.Logout)
	mux.HandleFunc("GET /api/auth/status", authn.Status)
	mux.HandleFunc("GET /api/auth/me", authn.Me)

	mux.HandleFunc("GET /ws", ws.Serve)

	if cfg.HealthHandler != nil {
		mux.Handle("GET /health", cfg.HealthHandler)
	}
	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}
	if cfg.OverlayDir != "" {
		mux.Handle("GET /overlay/", http.StripPrefix("/overlay/", http.FileServer(http.Dir(cfg.OverlayDir))))
	}
	if cfg.UploadsDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	return mux
}
