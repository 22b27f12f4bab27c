package style

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory implementation of Repository.
// Used for testing and development.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[int64]Profile
	nextID   int64
}

// NewMemoryRepository creates an empty in-memory style profile repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: make(map[int64]Profile), nextID: 1}
}

// List returns all profiles, default first, then most recently updated.
func (r *MemoryRepository) List(_ context.Context) ([]Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := []Profile{}
	for _, p := range r.profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].IsDefault != profiles[j].IsDefault {
			return profiles[i].IsDefault
		}
		if !profiles[i].UpdatedAt.Equal(profiles[j].UpdatedAt) {
			return profiles[i].UpdatedAt.After(profiles[j].UpdatedAt)
		}
		return profiles[i].ID > profiles[j].ID
	})
	return profiles, nil
}

// GetByID returns the profile with the given id, or ErrProfileNotFound.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

// GetDefault returns the profile currently flagged default, or
// ErrProfileNotFound when none is.
func (r *MemoryRepository) GetDefault(_ context.Context) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		if p.IsDefault {
			return &p, nil
		}
	}
	return nil, ErrProfileNotFound
}

func (r *MemoryRepository) clearDefaultLocked(except int64) {
	for id, p := range r.profiles {
		if id != except && p.IsDefault {
			p.IsDefault = false
			r.profiles[id] = p
		}
	}
}

// Create inserts a new profile and fills in its id and timestamps.
func (r *MemoryRepository) Create(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.IsDefault {
		r.clearDefaultLocked(0)
	}
	now := time.Now().UTC()
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = now
	p.UpdatedAt = now
	r.profiles[p.ID] = *p
	return nil
}

// Update persists changes to an existing profile and bumps updated_at.
func (r *MemoryRepository) Update(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.ID]; !ok {
		return ErrProfileNotFound
	}
	if p.IsDefault {
		r.clearDefaultLocked(p.ID)
	}
	p.UpdatedAt = time.Now().UTC()
	r.profiles[p.ID] = *p
	return nil
}

// Delete removes a profile, or returns ErrProfileNotFound.
func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[id]; !ok {
		return ErrProfileNotFound
	}
	delete(r.profiles, id)
	return nil
}

// SetDefault flags the given profile as default after clearing every other
// row's flag.
func (r *MemoryRepository) SetDefault(_ context.Context, id int64) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	r.clearDefaultLocked(id)
	p.IsDefault = true
	p.UpdatedAt = time.Now().UTC()
	r.profiles[id] = p
	return &p, nil
}
