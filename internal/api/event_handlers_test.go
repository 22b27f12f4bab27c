package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stagehand-live/stagehand/internal/event"
)

func TestCreateEventDefaultsType(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/events", CreateEventRequest{
		Description: "The bridge collapses",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	got := decodeAs[event.Event](t, rec)
	if got.Type != event.DefaultType {
		t.Errorf("Type = %q, want default %q", got.Type, event.DefaultType)
	}
}

func TestCreateEventRequiresDescription(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/events", CreateEventRequest{Type: "discovery"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if code := errorCode(t, rec); code != ErrCodeValidation {
		t.Errorf("error code = %q, want %q", code, ErrCodeValidation)
	}
}

func TestListEventsTypeFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seed := []event.Event{
		{Description: "A hidden door swings open", Type: "discovery"},
		{Description: "Bandits attack", Type: "encounter"},
		{Description: "A second passage appears", Type: "discovery"},
	}
	for i := range seed {
		if err := env.events.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("seed event: %v", err)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/events?type=discovery", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	got := decodeAs[[]event.Event](t, rec)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, e := range got {
		if e.Type != "discovery" {
			t.Errorf("Type = %q, want discovery", e.Type)
		}
	}
}

func TestUpdateEventPartial(t *testing.T) {
	env := newTestEnv(t)
	e := &event.Event{Description: "The torch gutters out", Type: "action"}
	if err := env.events.Create(context.Background(), e); err != nil {
		t.Fatalf("seed event: %v", err)
	}

	typ := "omen"
	rec := env.do(t, http.MethodPut, "/api/events/1", UpdateEventRequest{Type: &typ})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	got := decodeAs[event.Event](t, rec)
	if got.Type != "omen" {
		t.Errorf("Type = %q", got.Type)
	}
	if got.Description != "The torch gutters out" {
		t.Error("description must survive a partial update")
	}
}
