package gallery

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory implementation of Repository.
// Used for testing and development.
type MemoryRepository struct {
	mu     sync.RWMutex
	images map[int64]Image
	nextID int64
}

// NewMemoryRepository creates an empty in-memory image repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{images: make(map[int64]Image), nextID: 1}
}

// List returns images newest first.
func (r *MemoryRepository) List(_ context.Context, opts ListOptions) ([]Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	images := []Image{}
	for _, img := range r.images {
		images = append(images, img)
	}
	sort.Slice(images, func(i, j int) bool {
		if !images[i].CreatedAt.Equal(images[j].CreatedAt) {
			return images[i].CreatedAt.After(images[j].CreatedAt)
		}
		return images[i].ID > images[j].ID
	})

	if opts.Offset >= len(images) {
		return []Image{}, nil
	}
	images = images[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(images) {
		images = images[:opts.Limit]
	}
	return images, nil
}

// GetByID returns the image with the given id, or ErrImageNotFound.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	img, ok := r.images[id]
	if !ok {
		return nil, ErrImageNotFound
	}
	return &img, nil
}

// GetActive returns the image currently flagged active, or ErrImageNotFound
// when none is.
func (r *MemoryRepository) GetActive(_ context.Context) (*Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, img := range r.images {
		if img.IsActive {
			return &img, nil
		}
	}
	return nil, ErrImageNotFound
}

func (r *MemoryRepository) clearActiveLocked(except int64) {
	for id, img := range r.images {
		if id != except && img.IsActive {
			img.IsActive = false
			r.images[id] = img
		}
	}
}

// Create inserts a new image row and fills in its id and created_at.
func (r *MemoryRepository) Create(_ context.Context, img *Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if img.IsActive {
		r.clearActiveLocked(0)
	}
	img.ID = r.nextID
	r.nextID++
	img.CreatedAt = time.Now().UTC()
	r.images[img.ID] = *img
	return nil
}

// SetActive flags the given image as active after clearing every other
// row's flag.
func (r *MemoryRepository) SetActive(_ context.Context, id int64) (*Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	img, ok := r.images[id]
	if !ok {
		return nil, ErrImageNotFound
	}
	r.clearActiveLocked(id)
	img.IsActive = true
	r.images[id] = img
	return &img, nil
}

// ClearActive clears the active flag on every row.
func (r *MemoryRepository) ClearActive(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearActiveLocked(0)
	return nil
}

// Delete removes an image row, or returns ErrImageNotFound.
func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.images[id]; !ok {
		return ErrImageNotFound
	}
	delete(r.images, id)
	return nil
}
