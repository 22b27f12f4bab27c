package prompt

import (
	"strings"
	"testing"

	"github.com/stagehand-live/stagehand/internal/character"
	"github.com/stagehand-live/stagehand/internal/event"
	"github.com/stagehand-live/stagehand/internal/scene"
	"github.com/stagehand-live/stagehand/internal/style"
)

func TestRenderSections_FullInput(t *testing.T) {
	in := Input{
		CustomPrompt: "Epic battle",
		Modifiers:    []string{"gritty", "wide shot"},
		Scene:        &scene.Scene{Title: "The Rusty Anchor", Description: "A smoky dockside tavern"},
		Characters: []character.Character{
			{Name: "Kaelen", Description: "a wandering ranger", Appearance: "green cloak"},
			{Name: "Mira", Description: "a court wizard"},
		},
		Events:       []event.Event{{Description: "A chair shatters against the bar"}},
		CustomEvents: []string{"The crowd scatters"},
		Style:        StyleValues{Lighting: "Torchlit glow and soot", AIStyle: "oil painting"},
	}

	got := RenderSections(in)

	wantParts := []string{
		"Epic battle",
		"gritty, wide shot",
		"Scene: The Rusty Anchor\nA smoky dockside tavern",
		"Characters:\n- Kaelen: a wandering ranger (Appearance: green cloak)\n- Mira: a court wizard",
		"Events/Actions:\n1. A chair shatters against the bar\n2. The crowd scatters",
		"Lighting: Torchlit glow and soot",
		"AI Style: oil painting",
	}
	for _, part := range wantParts {
		if !strings.Contains(got, part) {
			t.Errorf("output missing %q\noutput:\n%s", part, got)
		}
	}
	if strings.Contains(got, "Composition:") || strings.Contains(got, "Mood:") {
		t.Errorf("output includes unpopulated style lines:\n%s", got)
	}
	if got != strings.TrimSpace(got) {
		t.Error("output not trimmed")
	}
}

func TestRenderSections_StyleLineOrder(t *testing.T) {
	in := Input{Style: StyleValues{
		StylePreset:    "preset",
		Composition:    "comp",
		Lighting:       "light",
		Mood:           "mood",
		Camera:         "cam",
		PostProcessing: "post",
		AIStyle:        "ai",
	}}
	got := RenderSections(in)
	want := "Composition: comp\nLighting: light\nMood: mood\nCamera: cam\nPost-Processing: post\nStyle Preset: preset\nAI Style: ai"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderSections_Deterministic(t *testing.T) {
	in := Input{
		Scene:      &scene.Scene{Title: "Keep", Description: "A ruined keep"},
		Characters: []character.Character{{Name: "Kaelen", Description: "ranger"}},
		Style:      StyleValues{Mood: "Grim resolve"},
	}
	first := RenderSections(in)
	second := RenderSections(in)
	if first != second {
		t.Error("identical input rendered different output")
	}
}

func TestRenderSections_EmptyInput(t *testing.T) {
	if got := RenderSections(Input{}); got != "" {
		t.Errorf("empty input rendered %q", got)
	}
}

func TestRenderProse(t *testing.T) {
	in := Input{
		Scene: &scene.Scene{Description: "a smoky dockside tavern"},
		Characters: []character.Character{
			{Name: "Kaelen", Description: "a ranger", Appearance: "tall elf in a green cloak"},
			{Name: "Mira", Description: "a court wizard"},
		},
		Action: "the brawl erupts",
		Style: StyleValues{
			StylePreset:    "dark fantasy concept art",
			Mood:           "Ferocious blood-rush",
			Camera:         "35mm lens close-up",
			PostProcessing: "Film grain and gate weave",
		},
	}

	got := RenderProse(in)
	want := "dark fantasy concept art. Ferocious blood-rush. " +
		"Setting: a smoky dockside tavern. " +
		"Kaelen, tall elf in a green cloak; Mira, a court wizard. " +
		"the brawl erupts. " +
		"Camera: 35mm lens close-up. Film grain and gate weave."
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestRenderProse_Empty(t *testing.T) {
	if got := RenderProse(Input{}); got != "" {
		t.Errorf("empty input rendered %q", got)
	}
}

func TestRenderProse_CollapsesDoublePeriods(t *testing.T) {
	got := RenderProse(Input{Action: "the gates close."})
	if strings.Contains(got, "..") {
		t.Errorf("output contains double period: %q", got)
	}
}

func TestMerge_Precedence(t *testing.T) {
	profile := &style.Profile{
		StylePreset: "profile preset",
		Lighting:    "profile lighting",
		Mood:        "profile mood",
	}
	override := StyleValues{Mood: "override mood", Camera: "override camera"}

	got := Merge(override, profile)

	if got.Mood != "override mood" {
		t.Errorf("Mood = %q, override should win", got.Mood)
	}
	if got.StylePreset != "profile preset" || got.Lighting != "profile lighting" {
		t.Error("profile values not carried through")
	}
	if got.Camera != "override camera" {
		t.Errorf("Camera = %q", got.Camera)
	}
	if got.Composition != "" {
		t.Errorf("Composition = %q, want absent", got.Composition)
	}
}

func TestMerge_NilProfile(t *testing.T) {
	override := StyleValues{Mood: "only"}
	if got := Merge(override, nil); got != override {
		t.Errorf("Merge with nil profile = %+v", got)
	}
}
