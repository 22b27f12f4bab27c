package event

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
	events map[int64]Event
	nextID int64
}

// NewMemoryRepository creates an empty in-memory event repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{events: make(map[int64]Event), nextID: 1}
}

func matchesFilters(e Event, opts ListOptions) bool {
	if opts.Type != "" && e.Type != opts.Type {
		return false
	}
	if opts.Search == "" {
		return true
	}
	needle := strings.ToLower(opts.Search)
	return strings.Contains(strings.ToLower(e.Description), needle) ||
		strings.Contains(strings.ToLower(e.Type), needle) ||
		strings.Contains(strings.ToLower(e.Tags), needle)
}

// List returns events newest first.
func (r *MemoryRepository) List(_ context.Context, opts ListOptions) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []Event{}
	for _, e := range r.events {
		if matchesFilters(e, opts) {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if opts.Offset >= len(matched) {
		return []Event{}, nil
	}
	matched = matched[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

// GetByID returns the event with the given id, or ErrEventNotFound.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	return &e, nil
}

// Create inserts a new event, applying DefaultType when Type is empty.
func (r *MemoryRepository) Create(_ context.Context, e *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.Type == "" {
		e.Type = DefaultType
	}
	e.ID = r.nextID
	r.nextID++
	e.CreatedAt = time.Now().UTC()
	r.events[e.ID] = *e
	return nil
}

// Update persists changes to an existing event.
func (r *MemoryRepository) Update(_ context.Context, e *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.events[e.ID]
	if !ok {
		return ErrEventNotFound
	}
	if e.Type == "" {
		e.Type = DefaultType
	}
	e.CreatedAt = existing.CreatedAt
	r.events[e.ID] = *e
	return nil
}

// Delete removes an event, or returns ErrEventNotFound.
func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}
