package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stagehand-live/stagehand/internal/character"
	"github.com/stagehand-live/stagehand/internal/event"
	"github.com/stagehand-live/stagehand/internal/prompt"
	"github.com/stagehand-live/stagehand/internal/scene"
	"github.com/stagehand-live/stagehand/internal/style"
)

// refLookup bundles the repositories needed to resolve prompt references.
type refLookup struct {
	scenes     scene.Repository
	characters character.Repository
	events     event.Repository
	styles     style.Repository
}

// resolvedRefs carries the reference ids that survived resolution.
type resolvedRefs struct {
	sceneID        *int64
	characterIDs   []int64
	eventIDs       []int64
	styleProfileID *int64
}

// resolve looks up every referenced entity in input order and fills in the
// given prompt input. Missing ids are dropped silently so stale dashboard
// state never blocks a render. Only infrastructure failures surface as
// errors.
func (l refLookup) resolve(ctx context.Context, in prompt.Input, sceneID *int64, characterIDs, eventIDs []int64, styleProfileID *int64) (prompt.Input, resolvedRefs, error) {
	refs := resolvedRefs{characterIDs: []int64{}, eventIDs: []int64{}}

	if sceneID != nil {
		s, err := l.scenes.GetByID(ctx, *sceneID)
		switch {
		case err == nil:
			in.Scene = s
			refs.sceneID = &s.ID
		case errors.Is(err, scene.ErrSceneNotFound):
			slog.DebugContext(ctx, "dropping unresolvable scene reference", "scene_id", *sceneID)
		default:
			return in, refs, err
		}
	}

	for _, id := range characterIDs {
		c, err := l.characters.GetByID(ctx, id)
		switch {
		case err == nil:
			in.Characters = append(in.Characters, *c)
			refs.characterIDs = append(refs.characterIDs, c.ID)
		case errors.Is(err, character.ErrCharacterNotFound):
			slog.DebugContext(ctx, "dropping unresolvable character reference", "character_id", id)
		default:
			return in, refs, err
		}
	}

	for _, id := range eventIDs {
		e, err := l.events.GetByID(ctx, id)
		switch {
		case err == nil:
			in.Events = append(in.Events, *e)
			refs.eventIDs = append(refs.eventIDs, e.ID)
		case errors.Is(err, event.ErrEventNotFound):
			slog.DebugContext(ctx, "dropping unresolvable event reference", "event_id", id)
		default:
			return in, refs, err
		}
	}

	if styleProfileID != nil {
		p, err := l.styles.GetByID(ctx, *styleProfileID)
		switch {
		case err == nil:
			in.Style = prompt.Merge(in.Style, p)
			refs.styleProfileID = &p.ID
		case errors.Is(err, style.ErrProfileNotFound):
			slog.DebugContext(ctx, "dropping unresolvable style profile reference", "style_profile_id", *styleProfileID)
		default:
			return in, refs, err
		}
	}

	return in, refs, nil
}
