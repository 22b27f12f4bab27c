package template

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory implementation of Repository.
// Used for testing and development. Scene titles are not joined; SceneTitle
// stays whatever the caller stored.
type MemoryRepository struct {
	mu        sync.RWMutex
	templates map[int64]Template
	nextID    int64
}

// NewMemoryRepository creates an empty in-memory template repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{templates: make(map[int64]Template), nextID: 1}
}

// List returns templates newest first.
func (r *MemoryRepository) List(_ context.Context, opts ListOptions) ([]Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	templates := []Template{}
	for _, t := range r.templates {
		templates = append(templates, t)
	}
	sort.Slice(templates, func(i, j int) bool {
		if !templates[i].CreatedAt.Equal(templates[j].CreatedAt) {
			return templates[i].CreatedAt.After(templates[j].CreatedAt)
		}
		return templates[i].ID > templates[j].ID
	})

	if opts.Offset >= len(templates) {
		return []Template{}, nil
	}
	templates = templates[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(templates) {
		templates = templates[:opts.Limit]
	}
	return templates, nil
}

// GetByID returns the template with the given id, or ErrTemplateNotFound.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return &t, nil
}

// Create inserts a new template and fills in its id and created_at.
func (r *MemoryRepository) Create(_ context.Context, t *Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.CharacterIDs == nil {
		t.CharacterIDs = []int64{}
	}
	if t.EventIDs == nil {
		t.EventIDs = []int64{}
	}
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = time.Now().UTC()
	r.templates[t.ID] = *t
	return nil
}

// Delete removes a template, or returns ErrTemplateNotFound.
func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.templates[id]; !ok {
		return ErrTemplateNotFound
	}
	delete(r.templates, id)
	return nil
}
