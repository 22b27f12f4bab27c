package style

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRepository_SetDefaultMovesFlag(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	dark := &Profile{Name: "Dark Fantasy", IsDefault: true}
	noir := &Profile{Name: "Neon Noir"}
	for _, p := range []*Profile{dark, noir} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.SetDefault(ctx, noir.ID)
	if err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if !got.IsDefault {
		t.Error("SetDefault did not flag the target profile")
	}

	prev, err := repo.GetByID(ctx, dark.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if prev.IsDefault {
		t.Error("previous default kept its flag")
	}

	def, err := repo.GetDefault(ctx)
	if err != nil {
		t.Fatalf("GetDefault: %v", err)
	}
	if def.ID != noir.ID {
		t.Errorf("GetDefault = %d, want %d", def.ID, noir.ID)
	}
}

func TestMemoryRepository_SetDefaultMissing(t *testing.T) {
	repo := NewMemoryRepository()
	if _, err := repo.SetDefault(context.Background(), 7); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("SetDefault missing = %v, want ErrProfileNotFound", err)
	}
}

func TestMemoryRepository_CreateDefaultClearsOthers(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := &Profile{Name: "First", IsDefault: true}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	second := &Profile{Name: "Second", IsDefault: true}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create: %v", err)
	}

	profiles, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	defaults := 0
	for _, p := range profiles {
		if p.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Errorf("%d profiles flagged default, want 1", defaults)
	}
	if !profiles[0].IsDefault {
		t.Error("List did not order the default profile first")
	}
}

func TestMemoryRepository_GetDefaultNone(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	p := &Profile{Name: "Plain"}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.GetDefault(ctx); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("GetDefault with no default = %v, want ErrProfileNotFound", err)
	}
}

func TestMemoryRepository_DeleteDefaultLeavesNoDefault(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	p := &Profile{Name: "Only", IsDefault: true}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetDefault(ctx); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("GetDefault after deleting default = %v, want ErrProfileNotFound", err)
	}
}
