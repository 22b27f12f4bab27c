package api

import (
	"encoding/json"
	"net/http"

	"github.com/stagehand-live/stagehand/internal/auth"
	"github.com/stagehand-live/stagehand/internal/middleware"
)

// LoginRequest represents the request body for an admin login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthStatusResponse reports whether the request carries a valid session.
type AuthStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	User          string `json:"user,omitempty"`
}

// AuthHandlers holds dependencies for authentication HTTP handlers.
type AuthHandlers struct {
	credentials   *auth.Credentials
	sessions      *auth.SessionService
	secureCookies bool
}

// NewAuthHandlers creates a new AuthHandlers instance.
func NewAuthHandlers(credentials *auth.Credentials, sessions *auth.SessionService, secureCookies bool) *AuthHandlers {
	return &AuthHandlers{
		credentials:   credentials,
		sessions:      sessions,
		secureCookies: secureCookies,
	}
}

// Login handles POST /api/auth/login. A failed verification yields 401 and
// no cookie.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	if !h.credentials.Verify(req.Username, req.Password) {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeAuthFailed)
		WriteError(w, ctx, http.StatusUnauthorized, ErrCodeAuthFailed, "Invalid username or password")
		return
	}

	token, err := h.sessions.Issue(h.credentials.Username())
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to create session")
		return
	}

	http.SetCookie(w, auth.NewSessionCookie(token, h.secureCookies))
	WriteJSON(w, http.StatusOK, AuthStatusResponse{Authenticated: true, User: h.credentials.Username()})
}

// Logout handles POST /api/auth/logout. Always succeeds, clearing whatever
// cookie the client holds.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ExpiredSessionCookie(h.secureCookies))
	WriteJSON(w, http.StatusOK, AuthStatusResponse{Authenticated: false})
}

// Status handles GET /api/auth/status. Never errors; an invalid or missing
// cookie just reports unauthenticated.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.sessionClaims(r)
	if !ok {
		WriteJSON(w, http.StatusOK, AuthStatusResponse{Authenticated: false})
		return
	}
	WriteJSON(w, http.StatusOK, AuthStatusResponse{Authenticated: true, User: claims.Subject})
}

// Me handles GET /api/auth/me. Unlike Status this rejects unauthenticated
// callers.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.sessionClaims(r)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeAuthFailed)
		WriteError(w, ctx, http.StatusUnauthorized, ErrCodeAuthFailed, "Authentication required")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"user": claims.Subject})
}

func (h *AuthHandlers) sessionClaims(r *http.Request) (*auth.Claims, bool) {
	cookie, err := r.Cookie(auth.SessionCookieName)
	if err != nil {
		return nil, false
	}
	claims, err := h.sessions.Validate(cookie.Value)
	if err != nil {
		return nil, false
	}
	return claims, true
}
