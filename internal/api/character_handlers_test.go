package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stagehand-live/stagehand/internal/character"
)

func TestCreateCharacter(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/characters", CreateCharacterRequest{
		Name:        "Kael",
		Description: "A brooding ranger",
		Appearance:  "Scarred face, green cloak",
		Tags:        "party",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	got := decodeAs[character.Character](t, rec)
	if got.ID == 0 {
		t.Error("expected non-zero id")
	}
	if got.Appearance != "Scarred face, green cloak" {
		t.Errorf("Appearance = %q", got.Appearance)
	}
}

func TestCreateCharacterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  CreateCharacterRequest
	}{
		{"empty name", CreateCharacterRequest{Name: ""}},
		{"name too long", CreateCharacterRequest{Name: strings.Repeat("x", 101)}},
		{"appearance too long", CreateCharacterRequest{Name: "ok", Appearance: strings.Repeat("x", 1001)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/characters", tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestUpdateCharacterPartial(t *testing.T) {
	env := newTestEnv(t)
	c := &character.Character{Name: "Mira", Description: "Court wizard", Appearance: "Silver robes"}
	if err := env.characters.Create(context.Background(), c); err != nil {
		t.Fatalf("seed character: %v", err)
	}

	appearance := "Silver robes, glowing staff"
	rec := env.do(t, http.MethodPut, "/api/characters/1", UpdateCharacterRequest{Appearance: &appearance})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	got := decodeAs[character.Character](t, rec)
	if got.Appearance != appearance {
		t.Errorf("Appearance = %q", got.Appearance)
	}
	if got.Name != "Mira" || got.Description != "Court wizard" {
		t.Error("untouched fields must survive a partial update")
	}
}

func TestDeleteCharacterNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/api/characters/42", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
