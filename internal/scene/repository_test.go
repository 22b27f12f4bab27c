package scene

import (
	"context"
	"testing"
)

func TestMemoryRepository_CreateGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	s := &Scene{Title: "Tavern", Description: "A smoky roadside tavern", Tags: "interior,night"}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.ID == 0 {
		t.Fatal("Create() did not assign an id")
	}
	if s.CreatedAt.IsZero() || s.UpdatedAt.IsZero() {
		t.Fatal("Create() did not assign timestamps")
	}

	got, err := repo.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != s.Title || got.Description != s.Description || got.Tags != s.Tags {
		t.Errorf("GetByID() = %+v, want fields of %+v", got, s)
	}
}

func TestMemoryRepository_GetMissing(t *testing.T) {
	repo := NewMemoryRepository()
	if _, err := repo.GetByID(context.Background(), 42); err != ErrSceneNotFound {
		t.Errorf("GetByID(42) error = %v, want ErrSceneNotFound", err)
	}
}

func TestMemoryRepository_DeleteIdempotentFailure(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	s := &Scene{Title: "Crypt", Description: "Cold stone crypt"}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, s.ID); err != ErrSceneNotFound {
		t.Errorf("GetByID() after delete error = %v, want ErrSceneNotFound", err)
	}
	// A second delete fails the same way, it does not crash.
	if err := repo.Delete(ctx, s.ID); err != ErrSceneNotFound {
		t.Errorf("second Delete() error = %v, want ErrSceneNotFound", err)
	}
}

func TestMemoryRepository_ListSearch(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	seed := []Scene{
		{Title: "Dark Forest", Description: "Twisted pines", Tags: "outdoor"},
		{Title: "Throne Room", Description: "Gilded hall", Tags: "interior,royal"},
		{Title: "Docks", Description: "Fog over the forest of masts", Tags: ""},
	}
	for i := range seed {
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tests := []struct {
		name    string
		search  string
		wantLen int
	}{
		{"no filter", "", 3},
		{"title match case-insensitive", "dark", 1},
		{"description match", "forest", 2},
		{"tags match", "royal", 1},
		{"no match", "volcano", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, ListOptions{Search: tt.search, Limit: 50})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("List(%q) returned %d scenes, want %d", tt.search, len(got), tt.wantLen)
			}
		})
	}
}

func TestMemoryRepository_ListPagination(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		s := &Scene{Title: "Scene", Description: "d"}
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	page, err := repo.List(ctx, ListOptions{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("List(limit=2) returned %d scenes", len(page))
	}

	rest, err := repo.List(ctx, ListOptions{Limit: 10, Offset: 4})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("List(offset=4) returned %d scenes, want 1", len(rest))
	}

	past, err := repo.List(ctx, ListOptions{Limit: 10, Offset: 99})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(past) != 0 {
		t.Errorf("List(offset=99) returned %d scenes, want 0", len(past))
	}
}

func TestCopyTitle(t *testing.T) {
	if got := CopyTitle("Tavern"); got != "Tavern (Copy)" {
		t.Errorf("CopyTitle() = %q", got)
	}
	long := make([]byte, MaxTitleLength)
	for i := range long {
		long[i] = 'a'
	}
	if got := CopyTitle(string(long)); len(got) != MaxTitleLength {
		t.Errorf("CopyTitle() length = %d, want %d", len(got), MaxTitleLength)
	}
}
