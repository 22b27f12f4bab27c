package prompt

import (
	"sort"
	"strings"

	"github.com/stagehand-live/stagehand/internal/character"
	"github.com/stagehand-live/stagehand/internal/event"
	"github.com/stagehand-live/stagehand/internal/scene"
)

// fuzzyBudget caps the edit distance allowed by fuzzyContains regardless of
// pattern length.
const fuzzyBudget = 2

// ParseResult is the outcome of one narrative parse. SceneID is nil when no
// scene matched; the original text is returned unchanged for the caller to
// keep as action text.
type ParseResult struct {
	SceneID      *int64            `json:"matched_scene_id"`
	CharacterIDs []int64           `json:"matched_character_ids"`
	EventIDs     []int64           `json:"matched_event_ids"`
	Styles       map[string]string `json:"matched_styles"`
	Text         string            `json:"remaining_text"`
}

// ParseNarrative scans free text for mentions of known scenes, characters,
// events, and style vocabulary. Matching is case-insensitive and tolerates
// small typos via an edit-distance budget, so dictated narration still hits.
// Longer names are tried first so "Dark Forest" wins over "Forest". The
// first matching scene wins; characters and events accumulate; at most one
// style value is kept per dimension. Pure and synchronous.
func ParseNarrative(text string, scenes []scene.Scene, characters []character.Character, events []event.Event, vocab Vocabulary) ParseResult {
	result := ParseResult{
		CharacterIDs: []int64{},
		EventIDs:     []int64{},
		Styles:       map[string]string{},
		Text:         text,
	}
	if text == "" {
		return result
	}

	sortedScenes := make([]scene.Scene, len(scenes))
	copy(sortedScenes, scenes)
	sort.SliceStable(sortedScenes, func(i, j int) bool {
		return len(sortedScenes[i].Title) > len(sortedScenes[j].Title)
	})
	for _, s := range sortedScenes {
		if fuzzyContains(text, s.Title) {
			id := s.ID
			result.SceneID = &id
			break
		}
	}

	sortedCharacters := make([]character.Character, len(characters))
	copy(sortedCharacters, characters)
	sort.SliceStable(sortedCharacters, func(i, j int) bool {
		return len(sortedCharacters[i].Name) > len(sortedCharacters[j].Name)
	})
	for _, c := range sortedCharacters {
		if fuzzyContains(text, c.Name) {
			result.CharacterIDs = append(result.CharacterIDs, c.ID)
		}
	}

	sortedEvents := make([]event.Event, len(events))
	copy(sortedEvents, events)
	sort.SliceStable(sortedEvents, func(i, j int) bool {
		return len(sortedEvents[i].Description) > len(sortedEvents[j].Description)
	})
	for _, e := range sortedEvents {
		if fuzzyContains(text, e.Description) {
			result.EventIDs = append(result.EventIDs, e.ID)
		}
	}

	matchDimension(text, vocab.Compositions, "composition", result.Styles)
	matchDimension(text, vocab.Lightings, "lighting", result.Styles)
	matchDimension(text, vocab.Moods, "mood", result.Styles)
	matchDimension(text, vocab.Cameras, "camera", result.Styles)
	matchDimension(text, vocab.PostProcessings, "post_processing", result.Styles)
	matchPreset(text, vocab.Presets, result.Styles)

	return result
}

// matchDimension records the first (longest) matching option for one style
// dimension.
func matchDimension(text string, options []string, key string, styles map[string]string) {
	sorted := make([]string, len(options))
	copy(sorted, options)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	for _, option := range sorted {
		if fuzzyContains(text, option) {
			styles[key] = option
			return
		}
	}
}

// matchPreset records the first preset whose label fuzzy-matches or whose
// full value appears verbatim. The stored value is always the expanded
// prompt fragment.
func matchPreset(text string, presets []Preset, styles map[string]string) {
	lowerText := strings.ToLower(text)
	for _, preset := range presets {
		if preset.Label == "" || preset.Value == "" {
			continue
		}
		if fuzzyContains(text, preset.Label) {
			styles["style_preset"] = preset.Value
			return
		}
		if strings.Contains(lowerText, strings.ToLower(preset.Value)) {
			styles["style_preset"] = preset.Value
			return
		}
	}
}

// fuzzyContains reports whether text contains pattern, either verbatim
// (case-insensitive) or within a small edit distance. Patterns under three
// runes never fuzzy-match; the error budget is min(fuzzyBudget, 30% of the
// pattern length), so short words stay strict.
func fuzzyContains(text, pattern string) bool {
	lowerText := strings.ToLower(text)
	lowerPattern := strings.ToLower(strings.TrimSpace(pattern))
	if lowerPattern == "" {
		return false
	}
	if strings.Contains(lowerText, lowerPattern) {
		return true
	}

	patRunes := []rune(lowerPattern)
	patLen := len(patRunes)
	if patLen < 3 {
		return false
	}
	maxErrors := fuzzyBudget
	if cap30 := patLen * 3 / 10; cap30 < maxErrors {
		maxErrors = cap30
	}
	if maxErrors == 0 {
		return false
	}

	textRunes := []rune(lowerText)
	for i := 0; i <= len(textRunes)-patLen+maxErrors; i++ {
		for lenOffset := -1; lenOffset <= 1; lenOffset++ {
			windowLen := patLen + lenOffset
			if windowLen <= 0 || i+windowLen > len(textRunes) {
				continue
			}
			if levenshtein(patRunes, textRunes[i:i+windowLen]) <= maxErrors {
				return true
			}
		}
	}
	return false
}

// levenshtein computes the edit distance between two rune slices with a
// rolling two-row matrix.
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j-1]+cost, curr[j-1]+1, prev[j]+1)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
