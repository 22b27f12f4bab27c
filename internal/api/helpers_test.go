package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stagehand-live/stagehand/internal/auth"
	"github.com/stagehand-live/stagehand/internal/character"
	"github.com/stagehand-live/stagehand/internal/event"
	"github.com/stagehand-live/stagehand/internal/gallery"
	"github.com/stagehand-live/stagehand/internal/overlay"
	"github.com/stagehand-live/stagehand/internal/scene"
	"github.com/stagehand-live/stagehand/internal/style"
	"github.com/stagehand-live/stagehand/internal/template"
)

// fakeStore is an in-memory upload.Store for handler tests.
type fakeStore struct {
	files   map[string][]byte
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: make(map[string][]byte)}
}

func (s *fakeStore) Save(_ context.Context, filename string, data []byte, _ string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.files[filename] = data
	return "/uploads/" + filename, nil
}

func (s *fakeStore) Remove(_ context.Context, filename string) error {
	if _, ok := s.files[filename]; !ok {
		return errors.New("no such file")
	}
	delete(s.files, filename)
	return nil
}

// testEnv wires a full router against in-memory repositories.
type testEnv struct {
	scenes     *scene.MemoryRepository
	characters *character.MemoryRepository
	events     *event.MemoryRepository
	styles     *style.MemoryRepository
	templates  *template.MemoryRepository
	images     *gallery.MemoryRepository
	store      *fakeStore
	hub        *overlay.Hub
	sessions   *auth.SessionService
	router     http.Handler
	cookie     *http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	credentials, err := auth.NewCredentials("gm", "", "opensesame")
	if err != nil {
		t.Fatalf("NewCredentials() error = %v", err)
	}
	sessions := auth.NewSessionService("test-secret")

	env := &testEnv{
		scenes:     scene.NewMemoryRepository(),
		characters: character.NewMemoryRepository(),
		events:     event.NewMemoryRepository(),
		styles:     style.NewMemoryRepository(),
		templates:  template.NewMemoryRepository(),
		images:     gallery.NewMemoryRepository(),
		store:      newFakeStore(),
		hub:        overlay.NewHub(),
		sessions:   sessions,
	}
	env.router = NewRouter(RouterConfig{
		Scenes:      env.scenes,
		Characters:  env.characters,
		Events:      env.events,
		Styles:      env.styles,
		Templates:   env.templates,
		Images:      env.images,
		Store:       env.store,
		Hub:         env.hub,
		Sessions:    sessions,
		Credentials: credentials,
	})

	token, err := sessions.Issue("gm")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	env.cookie = auth.NewSessionCookie(token, false)

	return env
}

// do sends an authenticated JSON request through the router.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(e.cookie)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// doAnon sends a request without the session cookie.
func (e *testEnv) doAnon(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// doUpload sends an authenticated multipart upload with the given file
// content and extra form fields.
func (e *testEnv) doUpload(t *testing.T, filename, contentType string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="image"; filename="` + filename + `"`}
	hdr["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("CreatePart() error = %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s) error = %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/images/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(e.cookie)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeAs decodes the recorded response body into T.
func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

// errorCode extracts the error code from an error envelope response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response %q: %v", rec.Body.String(), err)
	}
	return resp.Error.Code
}
