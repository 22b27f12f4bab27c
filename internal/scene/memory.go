package scene

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository is an in-memory implementation of Repository.
// Used for testing and development.
type MemoryRepository struct {
	mu     sync.RWMutex
	scenes map[int64]Scene
	nextID int64
}

// NewMemoryRepository creates an empty in-memory scene repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{scenes: make(map[int64]Scene), nextID: 1}
}

func matchesSearch(s Scene, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(s.Title), needle) ||
		strings.Contains(strings.ToLower(s.Description), needle) ||
		strings.Contains(strings.ToLower(s.Tags), needle)
}

// List returns scenes ordered by most recently updated.
func (r *MemoryRepository) List(_ context.Context, opts ListOptions) ([]Scene, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []Scene{}
	for _, s := range r.scenes {
		if matchesSearch(s, opts.Search) {
			matched = append(matched, s)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].UpdatedAt.Equal(matched[j].UpdatedAt) {
			return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if opts.Offset >= len(matched) {
		return []Scene{}, nil
	}
	matched = matched[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

// GetByID returns the scene with the given id, or ErrSceneNotFound.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Scene, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.scenes[id]
	if !ok {
		return nil, ErrSceneNotFound
	}
	return &s, nil
}

// Create inserts a new scene and fills in its id and timestamps.
func (r *MemoryRepository) Create(_ context.Context, s *Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	s.ID = r.nextID
	r.nextID++
	s.CreatedAt = now
	s.UpdatedAt = now
	r.scenes[s.ID] = *s
	return nil
}

// Update persists changes to an existing scene and bumps updated_at.
func (r *MemoryRepository) Update(_ context.Context, s *Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scenes[s.ID]; !ok {
		return ErrSceneNotFound
	}
	s.UpdatedAt = time.Now().UTC()
	r.scenes[s.ID] = *s
	return nil
}

// Delete removes a scene, or returns ErrSceneNotFound.
func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scenes[id]; !ok {
		return ErrSceneNotFound
	}
	delete(r.scenes, id)
	return nil
}
