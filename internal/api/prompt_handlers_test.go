package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stagehand-live/stagehand/internal/prompt"
)

func TestPreviewPrompt(t *testing.T) {
	env := newTestEnv(t)
	sceneID, charID, _, _ := seedPromptFixtures(t, env)

	rec := env.do(t, http.MethodPost, "/api/prompts/preview", PreviewPromptRequest{
		SceneID:      &sceneID,
		CharacterIDs: []int64{charID},
		Action:       "Kael nocks an arrow",
		Mood:         "tense",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	got := decodeAs[map[string]string](t, rec)
	p := got["prompt"]
	for _, want := range []string{
		"Setting: Twisted pines under a blood moon",
		"Kael, Scarred face, green cloak",
		"Kael nocks an arrow",
		"tense",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestPreviewPromptAppliesProfile(t *testing.T) {
	env := newTestEnv(t)
	_, _, _, profileID := seedPromptFixtures(t, env)

	rec := env.do(t, http.MethodPost, "/api/prompts/preview", PreviewPromptRequest{
		Action:         "The party regroups",
		StyleProfileID: &profileID,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	got := decodeAs[map[string]string](t, rec)
	if !strings.Contains(got["prompt"], "noir graphic novel styling") {
		t.Errorf("profile preset missing from prompt: %q", got["prompt"])
	}
}

func TestPreviewPromptEmptySelection(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/prompts/preview", PreviewPromptRequest{})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	got := decodeAs[map[string]string](t, rec)
	if got["prompt"] != "" {
		t.Errorf("prompt = %q, want empty for empty selection", got["prompt"])
	}
}

func TestParseNarrativeEndpoint(t *testing.T) {
	env := newTestEnv(t)
	sceneID, charID, eventID, _ := seedPromptFixtures(t, env)

	rec := env.do(t, http.MethodPost, "/api/narrative/parse", ParseNarrativeRequest{
		Text: "Kael creeps through the dark forest when an ambush erupts from the underbrush",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	got := decodeAs[prompt.ParseResult](t, rec)
	if got.SceneID == nil || *got.SceneID != sceneID {
		t.Error("expected the scene to match")
	}
	if len(got.CharacterIDs) != 1 || got.CharacterIDs[0] != charID {
		t.Errorf("CharacterIDs = %v", got.CharacterIDs)
	}
	if len(got.EventIDs) != 1 || got.EventIDs[0] != eventID {
		t.Errorf("EventIDs = %v", got.EventIDs)
	}
	if got.Text == "" {
		t.Error("remaining text must echo the input")
	}
}

func TestParseNarrativeNoMatches(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/narrative/parse", ParseNarrativeRequest{Text: "nothing relevant here"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	got := decodeAs[prompt.ParseResult](t, rec)
	if got.SceneID != nil || len(got.CharacterIDs) != 0 || len(got.EventIDs) != 0 {
		t.Errorf("unexpected matches: %+v", got)
	}
}

func TestOptionsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/options", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	got := decodeAs[prompt.Vocabulary](t, rec)
	if len(got.Presets) == 0 || len(got.Moods) == 0 || len(got.Cameras) == 0 {
		t.Error("vocabulary lists must be populated")
	}
}
