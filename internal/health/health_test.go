package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stagehand-live/stagehand/internal/db"
)

type fakeChecker struct {
	err error
}

func (f fakeChecker) HealthCheck(ctx context.Context) error {
	return f.err
}

func TestHandlerAllHealthy(t *testing.T) {
	handler := Handler(map[string]Checker{
		"db":    fakeChecker{},
		"redis": fakeChecker{},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected ok, got %q", resp.Status)
	}
	if resp.Checks["db"] != "ok" || resp.Checks["redis"] != "ok" {
		t.Errorf("expected all checks ok, got %v", resp.Checks)
	}
}

func TestHandlerDegraded(t *testing.T) {
	handler := Handler(map[string]Checker{
		"db":    fakeChecker{},
		"redis": fakeChecker{err: errors.New("connection refused")},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("expected degraded, got %q", resp.Status)
	}
	if resp.Checks["redis"] != "connection refused" {
		t.Errorf("expected failure detail, got %q", resp.Checks["redis"])
	}
}

func TestDBChecker(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer conn.Close()

	checker := NewDBChecker(conn)
	if err := checker.HealthCheck(ctx); err != nil {
		t.Errorf("expected healthy database, got %v", err)
	}

	conn.Close()
	if err := checker.HealthCheck(ctx); err == nil {
		t.Error("expected error after closing the database")
	}
}
