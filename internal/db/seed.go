package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type seedEvent struct {
	description string
	eventType   string
	tags        string
}

var sampleEvents = []seedEvent{
	{"Dynamic rooftop leap with cape billowing in the wind", "action", "parkour,cinematic,heroic"},
	{"Hero braces for impact while energy shield crackles", "combat", "defense,tech,glow"},
	{"Sorcerer unleashes arcane blast with swirling runes", "magic", "spellcasting,arcane,light burst"},
	{"Duelists collide in mid-air sword clash, sparks flying", "combat", "swordplay,mid-air,high-drama"},
	{"Investigator kicks open neon-soaked alley door", "action", "detective,noir,neon"},
	{"Archer fires triple-shot volley from gargoyle perch", "precision", "ranged,stealth,gothic"},
	{"Team charges forward in split-panel battle montage", "team", "ensemble,splash-page,momentum"},
	{"Rogue slides under laser grid with twin daggers ready", "stealth", "acrobatics,heist,tech"},
	{"Battle mage slams staff to ground, shockwave radiates", "magic", "shockwave,elemental,earth"},
	{"Pilot vaults into mech cockpit as engines ignite", "tech", "mecha,launch,hangar"},
	{"Gunslinger spins into cover, muzzle flash lighting dust", "combat", "western,gunfight,dramatic lighting"},
	{"Heroine performs mid-spin roundhouse surrounded by speed lines", "martial arts", "kinetic,impact,comic fx"},
	{"Beast tamer whistles as spectral companions materialize", "summoning", "mystical,companions,ethereal"},
	{"Scientist detonates prototype gadget, rainbow plasma erupts", "tech", "experiment,chaos,energy"},
	{"Adventurers brace against sandstorm while map glows", "exploration", "desert,relic-hunt,mystery"},
}

type seedProfile struct {
	name           string
	stylePreset    string
	composition    string
	lighting       string
	mood           string
	camera         string
	postProcessing string
	aiStyle        string
	isDefault      bool
}

var sampleProfiles = []seedProfile{
	{"Dark Fantasy", "dark fantasy comic art, heavy blacks", "wide establishing shot", "cold moonlight with mist", "grim resolve", "24mm wide", "high-contrast grading", "illustration", true},
	{"Cinematic Heroic", "cinematic film still, 35mm grain", "rule-of-thirds framing", "golden hour warm backlight", "triumphant", "50mm portrait", "teal-orange color grade", "photorealistic", false},
	{"Comic Book Action", "silver age comic, bold ink lines", "hero landing splash page", "strobe burst, rim lighting", "ferocious blood-rush", "low angle dynamic", "halftone dots, saturated primaries", "comic book", false},
	{"Noir Mystery", "noir graphic novel, monochrome wash", "dutch angle", "sodium vapor street lamp", "paranoid dread", "canted close-up", "film noir vignette", "noir", false},
	{"Whimsical Adventure", "saturday morning cartoon, soft cel-shading", "panoramic vista", "bioluminescent glow", "whimsical mischief", "bird-eye sweeping", "pastel bloom", "cartoon", false},
}

// Seed populates the event library and the starter style profiles. Each
// batch runs in one transaction and rows that already exist (matched by
// description or name) are skipped, so startup seeding is idempotent.
func Seed(ctx context.Context, conn *sql.DB) error {
	if err := seedEvents(ctx, conn); err != nil {
		return err
	}
	return seedStyleProfiles(ctx, conn)
}

func seedEvents(ctx context.Context, conn *sql.DB) error {
	existing, err := existingValues(ctx, conn, "SELECT description FROM events")
	if err != nil {
		return fmt.Errorf("failed to read existing events: %w", err)
	}

	toInsert := []seedEvent{}
	for _, e := range sampleEvents {
		if !existing[e.description] {
			toInsert = append(toInsert, e)
		}
	}
	if len(toInsert) == 0 {
		slog.Debug("event library already populated, skipping seed")
		return nil
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, e := range toInsert {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO events (description, type, tags, created_at) VALUES (?, ?, ?, ?)",
			e.description, e.eventType, e.tags, now,
		); err != nil {
			return fmt.Errorf("failed to seed events: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("seeded event library", "inserted", len(toInsert))
	return nil
}

func seedStyleProfiles(ctx context.Context, conn *sql.DB) error {
	existing, err := existingValues(ctx, conn, "SELECT name FROM style_profiles")
	if err != nil {
		return fmt.Errorf("failed to read existing style profiles: %w", err)
	}

	toInsert := []seedProfile{}
	for _, p := range sampleProfiles {
		if !existing[p.name] {
			toInsert = append(toInsert, p)
		}
	}
	if len(toInsert) == 0 {
		slog.Debug("style profiles already populated, skipping seed")
		return nil
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, p := range toInsert {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO style_profiles (name, style_preset, composition, lighting, mood, camera, post_processing, ai_style, is_default, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.name, p.stylePreset, p.composition, p.lighting, p.mood, p.camera, p.postProcessing, p.aiStyle, p.isDefault, now, now,
		); err != nil {
			return fmt.Errorf("failed to seed style profiles: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("seeded style profiles", "inserted", len(toInsert))
	return nil
}

func existingValues(ctx context.Context, conn *sql.DB, query string) (map[string]bool, error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := map[string]bool{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values[v] = true
	}
	return values, rows.Err()
}
