package prompt

import (
	"fmt"
	"strings"

	"github.com/stagehand-live/stagehand/internal/character"
	"github.com/stagehand-live/stagehand/internal/event"
	"github.com/stagehand-live/stagehand/internal/scene"
	"github.com/stagehand-live/stagehand/internal/style"
)

// StyleValues are the per-request style dimensions. Empty fields are
// omitted from the rendered output.
type StyleValues struct {
	StylePreset    string `json:"style_preset"`
	Composition    string `json:"composition"`
	Lighting       string `json:"lighting"`
	Mood           string `json:"mood"`
	Camera         string `json:"camera"`
	PostProcessing string `json:"post_processing"`
	AIStyle        string `json:"ai_style"`
}

// Merge resolves the three-tier precedence: a non-empty override wins, then
// the profile's value, then absent. A nil profile leaves the overrides as-is.
func Merge(override StyleValues, profile *style.Profile) StyleValues {
	if profile == nil {
		return override
	}
	pick := func(over, prof string) string {
		if over != "" {
			return over
		}
		return prof
	}
	return StyleValues{
		StylePreset:    pick(override.StylePreset, profile.StylePreset),
		Composition:    pick(override.Composition, profile.Composition),
		Lighting:       pick(override.Lighting, profile.Lighting),
		Mood:           pick(override.Mood, profile.Mood),
		Camera:         pick(override.Camera, profile.Camera),
		PostProcessing: pick(override.PostProcessing, profile.PostProcessing),
		AIStyle:        pick(override.AIStyle, profile.AIStyle),
	}
}

// Input is the resolved material for one render. References are already
// looked up; unresolvable ids were dropped before this point.
type Input struct {
	CustomPrompt string
	Modifiers    []string
	Scene        *scene.Scene
	Characters   []character.Character
	Events       []event.Event
	CustomEvents []string
	Action       string
	Style        StyleValues
}

// RenderSections renders the persisted template form: headed sections for
// scene, characters, and events, followed by one Label: value line per
// populated style dimension. Deterministic for identical input. The result
// may be empty; callers reject empty output.
func RenderSections(in Input) string {
	var b strings.Builder

	if in.CustomPrompt != "" {
		b.WriteString(in.CustomPrompt)
		b.WriteString("\n\n")
	}

	modifiers := nonEmpty(in.Modifiers)
	if len(modifiers) > 0 {
		b.WriteString(strings.Join(modifiers, ", "))
		b.WriteString("\n\n")
	}

	if in.Scene != nil {
		fmt.Fprintf(&b, "Scene: %s\n%s\n\n", in.Scene.Title, in.Scene.Description)
	}

	if len(in.Characters) > 0 {
		b.WriteString("Characters:\n")
		for _, c := range in.Characters {
			fmt.Fprintf(&b, "- %s: %s", c.Name, c.Description)
			if c.Appearance != "" {
				fmt.Fprintf(&b, " (Appearance: %s)", c.Appearance)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	customEvents := nonEmpty(in.CustomEvents)
	if len(in.Events) > 0 || len(customEvents) > 0 {
		b.WriteString("Events/Actions:\n")
		n := 1
		for _, e := range in.Events {
			fmt.Fprintf(&b, "%d. %s\n", n, e.Description)
			n++
		}
		for _, desc := range customEvents {
			fmt.Fprintf(&b, "%d. %s\n", n, desc)
			n++
		}
		b.WriteString("\n")
	}

	for _, line := range []struct{ label, value string }{
		{"Composition", in.Style.Composition},
		{"Lighting", in.Style.Lighting},
		{"Mood", in.Style.Mood},
		{"Camera", in.Style.Camera},
		{"Post-Processing", in.Style.PostProcessing},
		{"Style Preset", in.Style.StylePreset},
		{"AI Style", in.Style.AIStyle},
	} {
		if line.value != "" {
			fmt.Fprintf(&b, "%s: %s\n", line.label, line.value)
		}
	}

	return strings.TrimSpace(b.String())
}

// RenderProse renders the live session form: the same material flattened to
// a single sentence-joined string. Empty input renders the empty string so
// callers can disable generation.
func RenderProse(in Input) string {
	parts := []string{}
	add := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}

	add(in.Style.StylePreset)
	add(in.Style.Composition)
	add(in.Style.Lighting)
	add(in.Style.Mood)

	if in.Scene != nil {
		add("Setting: " + in.Scene.Description)
	}

	if len(in.Characters) > 0 {
		descs := make([]string, 0, len(in.Characters))
		for _, c := range in.Characters {
			desc := c.Appearance
			if desc == "" {
				desc = c.Description
			}
			descs = append(descs, c.Name+", "+desc)
		}
		add(strings.Join(descs, "; "))
	}

	add(strings.TrimSpace(in.Action))

	if in.Style.Camera != "" {
		add("Camera: " + in.Style.Camera)
	}
	add(in.Style.PostProcessing)

	if len(parts) == 0 {
		return ""
	}
	return strings.ReplaceAll(strings.Join(parts, ". "), "..", ".") + "."
}

func nonEmpty(values []string) []string {
	out := []string{}
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
