package gallery

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRepository_SetActiveMovesFlag(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := &Image{Filename: "a.png", URL: "/uploads/a.png", IsActive: true}
	second := &Image{Filename: "b.png", URL: "/uploads/b.png"}
	for _, img := range []*Image{first, second} {
		if err := repo.Create(ctx, img); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.SetActive(ctx, second.ID)
	if err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if !got.IsActive {
		t.Error("SetActive did not flag the target image")
	}

	prev, err := repo.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if prev.IsActive {
		t.Error("previous active image kept its flag")
	}
}

func TestMemoryRepository_CreateActiveClearsOthers(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := &Image{Filename: "a.png", IsActive: true}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	second := &Image{Filename: "b.png", IsActive: true}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create: %v", err)
	}

	active, err := repo.GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if active.ID != second.ID {
		t.Errorf("active = %d, want %d", active.ID, second.ID)
	}
}

func TestMemoryRepository_ClearActive(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	img := &Image{Filename: "a.png", IsActive: true}
	if err := repo.Create(ctx, img); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.ClearActive(ctx); err != nil {
		t.Fatalf("ClearActive: %v", err)
	}
	if _, err := repo.GetActive(ctx); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("GetActive after clear = %v, want ErrImageNotFound", err)
	}
}

func TestMemoryRepository_SetActiveMissing(t *testing.T) {
	repo := NewMemoryRepository()
	if _, err := repo.SetActive(context.Background(), 5); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("SetActive missing = %v, want ErrImageNotFound", err)
	}
}

func TestMemoryRepository_DeleteKeepsFlagSemantics(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	img := &Image{Filename: "a.png", IsActive: true}
	if err := repo.Create(ctx, img); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, img.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetActive(ctx); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("GetActive after deleting active = %v, want ErrImageNotFound", err)
	}
	if err := repo.Delete(ctx, img.ID); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("second Delete = %v, want ErrImageNotFound", err)
	}
}
