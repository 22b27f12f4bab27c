package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stagehand-live/stagehand/internal/auth"
)

func TestSessionAuthValidCookie(t *testing.T) {
	sessions := auth.NewSessionService("test-secret")
	token, err := sessions.Issue("admin")
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}

	var gotUser string
	handler := SessionAuth(sessions, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUsername(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/scenes", nil)
	req.AddCookie(auth.NewSessionCookie(token, false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUser != "admin" {
		t.Errorf("expected username admin in context, got %q", gotUser)
	}
}

func TestSessionAuthMissingCookie(t *testing.T) {
	sessions := auth.NewSessionService("test-secret")
	handler := SessionAuth(sessions, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a cookie")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scenes", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding 401 body: %v", err)
	}
	if body.Error.Code != "auth_failed" {
		t.Errorf("expected auth_failed code, got %q", body.Error.Code)
	}
}

func TestSessionAuthInvalidTokenClearsCookie(t *testing.T) {
	sessions := auth.NewSessionService("test-secret")
	handler := SessionAuth(sessions, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/scenes", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected the stale session cookie to be cleared")
	}
}

func TestSessionAuthWrongSecret(t *testing.T) {
	issuer := auth.NewSessionService("secret-a")
	token, err := issuer.Issue("admin")
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}

	verifier := auth.NewSessionService("secret-b")
	handler := SessionAuth(verifier, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with a foreign token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/scenes", nil)
	req.AddCookie(auth.NewSessionCookie(token, false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
