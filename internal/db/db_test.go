package db

import (
	"context"
	"testing"
)

func TestOpenCreatesSchema(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	for _, table := range []string{"scenes", "characters", "events", "style_profiles", "templates", "images"} {
		var name string
		err := conn.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	if err := Migrate(ctx, conn); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	if err := Seed(ctx, conn); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := Seed(ctx, conn); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var eventCount, profileCount int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&eventCount); err != nil {
		t.Fatalf("count events: %v", err)
	}
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM style_profiles").Scan(&profileCount); err != nil {
		t.Fatalf("count profiles: %v", err)
	}

	if eventCount != len(sampleEvents) {
		t.Errorf("events = %d, want %d", eventCount, len(sampleEvents))
	}
	if profileCount != len(sampleProfiles) {
		t.Errorf("style profiles = %d, want %d", profileCount, len(sampleProfiles))
	}

	var defaultName string
	if err := conn.QueryRowContext(ctx,
		"SELECT name FROM style_profiles WHERE is_default = 1").Scan(&defaultName); err != nil {
		t.Fatalf("default profile: %v", err)
	}
	if defaultName != "Dark Fantasy" {
		t.Errorf("default profile = %q, want Dark Fantasy", defaultName)
	}
}

func TestColumnExists(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	exists, err := columnExists(ctx, conn, "templates", "input_snapshot")
	if err != nil {
		t.Fatalf("columnExists: %v", err)
	}
	if !exists {
		t.Error("input_snapshot column missing after Migrate")
	}

	exists, err = columnExists(ctx, conn, "templates", "no_such_column")
	if err != nil {
		t.Fatalf("columnExists: %v", err)
	}
	if exists {
		t.Error("nonexistent column reported present")
	}
}
