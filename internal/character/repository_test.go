package character

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRepository_CreateGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	c := &Character{Name: "Kaelen", Description: "A wandering ranger", Appearance: "tall elf in a green cloak", Tags: "party,ranger"}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID == 0 {
		t.Fatal("Create did not assign an id")
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
		t.Error("Create did not set timestamps")
	}

	got, err := repo.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Kaelen" || got.Appearance != "tall elf in a green cloak" {
		t.Errorf("got %+v", got)
	}
}

func TestMemoryRepository_UpdateMissing(t *testing.T) {
	repo := NewMemoryRepository()

	err := repo.Update(context.Background(), &Character{ID: 42, Name: "Nobody"})
	if !errors.Is(err, ErrCharacterNotFound) {
		t.Errorf("Update missing = %v, want ErrCharacterNotFound", err)
	}
}

func TestMemoryRepository_ListSearch(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	seed := []Character{
		{Name: "Kaelen", Description: "ranger of the north", Tags: "party"},
		{Name: "Mira", Description: "court wizard", Tags: "npc,wizard"},
		{Name: "Thorgrim", Description: "dwarf smith", Tags: "npc"},
	}
	for i := range seed {
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	tests := []struct {
		search string
		want   int
	}{
		{"kaelen", 1},
		{"npc", 2},
		{"WIZARD", 1},
		{"dragon", 0},
		{"", 3},
	}
	for _, tt := range tests {
		got, err := repo.List(ctx, ListOptions{Search: tt.search, Limit: 50})
		if err != nil {
			t.Fatalf("List(%q): %v", tt.search, err)
		}
		if len(got) != tt.want {
			t.Errorf("List(%q) returned %d characters, want %d", tt.search, len(got), tt.want)
		}
	}
}

func TestMemoryRepository_DeleteTwice(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	c := &Character{Name: "Ephemeral"}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, c.ID); !errors.Is(err, ErrCharacterNotFound) {
		t.Errorf("second Delete = %v, want ErrCharacterNotFound", err)
	}
}
