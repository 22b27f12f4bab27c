package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/stagehand-live/stagehand/internal/auth"
)

// SessionAuth is a middleware that requires a valid session cookie.
// On success it stores the username in the request context for handlers
// and pushes it back to the logging middleware. On failure it responds
// 401 with the standard JSON error envelope, clearing any stale cookie.
func SessionAuth(sessions *auth.SessionService, secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookieName)
			if err != nil {
				unauthorized(w, r, secureCookies, false)
				return
			}

			claims, err := sessions.Validate(cookie.Value)
			if err != nil {
				// Expired or tampered cookie, tell the browser to drop it
				unauthorized(w, r, secureCookies, true)
				return
			}

			ctx := SetUsername(r.Context(), claims.Subject)
			UpdateResponseContext(w, ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, secureCookies, clearCookie bool) {
	UpdateResponseContext(w, SetErrorCode(r.Context(), "auth_failed"))
	if clearCookie {
		http.SetCookie(w, auth.ExpiredSessionCookie(secureCookies))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	body := map[string]map[string]string{
		"error": {
			"code":    "auth_failed",
			"message": "authentication required",
		},
	}
	_ = json.NewEncoder(w).Encode(body)
}
