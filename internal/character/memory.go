package character

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
	mu         sync.RWMutex
	characters map[int64]Character
	nextID     int64
}

// NewMemoryRepository creates an empty in-memory character repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{characters: make(map[int64]Character), nextID: 1}
}

func matchesSearch(c Character, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(c.Name), needle) ||
		strings.Contains(strings.ToLower(c.Description), needle) ||
		strings.Contains(strings.ToLower(c.Tags), needle)
}

// List returns characters ordered by most recently updated.
func (r *MemoryRepository) List(_ context.Context, opts ListOptions) ([]Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []Character{}
	for _, c := range r.characters {
		if matchesSearch(c, opts.Search) {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].UpdatedAt.Equal(matched[j].UpdatedAt) {
			return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if opts.Offset >= len(matched) {
		return []Character{}, nil
	}
	matched = matched[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

// GetByID returns the character with the given id, or ErrCharacterNotFound.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.characters[id]
	if !ok {
		return nil, ErrCharacterNotFound
	}
	return &c, nil
}

// Create inserts a new character and fills in its id and timestamps.
func (r *MemoryRepository) Create(_ context.Context, c *Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	c.ID = r.nextID
	r.nextID++
	c.CreatedAt = now
	c.UpdatedAt = now
	r.characters[c.ID] = *c
	return nil
}

// Update persists changes to an existing character and bumps updated_at.
func (r *MemoryRepository) Update(_ context.Context, c *Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.characters[c.ID]; !ok {
		return ErrCharacterNotFound
	}
	c.UpdatedAt = time.Now().UTC()
	r.characters[c.ID] = *c
	return nil
}

// Delete removes a character, or returns ErrCharacterNotFound.
func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.characters[id]; !ok {
		return ErrCharacterNotFound
	}
	delete(r.characters, id)
	return nil
}
