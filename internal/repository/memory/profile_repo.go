// Package memory contains in-process implementations of repository interfaces.
// They back the "memory://" storage URL and serve as test doubles.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/model"
	"github.com/and161185/streamish/internal/repository"
)

var _ repository.UserProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo keeps profiles in insertion order behind a RWMutex.
type ProfileRepo struct {
	mu       sync.RWMutex
	items    []model.UserProfile
	idStart  int64
	onDelete []func(id int64)
}

// NewProfileRepo constructs a profile repository preloaded with seed.
// idStart is the id assigned by Add when the store is empty (values < 1 mean 1).
func NewProfileRepo(idStart int64, seed ...model.UserProfile) *ProfileRepo {
	if idStart < 1 {
		idStart = 1
	}
	return &ProfileRepo{
		items:   append([]model.UserProfile(nil), seed...),
		idStart: idStart,
	}
}

// GetAll returns a copy of all profiles.
func (r *ProfileRepo) GetAll(_ context.Context) ([]model.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.UserProfile{}, r.items...), nil
}

// GetByID returns the first profile with the given id.
func (r *ProfileRepo) GetByID(_ context.Context, id int64) (model.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.items[i], nil
	}
	return model.UserProfile{}, errs.ErrNotFound
}

// Add assigns max(id)+1, or idStart on an empty store, and appends p.
func (r *ProfileRepo) Add(_ context.Context, p *model.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.idStart
	if len(r.items) > 0 {
		var maxID int64
		for _, it := range r.items {
			maxID = max(maxID, it.ID)
		}
		next = maxID + 1
	}
	p.ID = next
	r.items = append(r.items, *p)
	return nil
}

// Update replaces the stored profile in place; a miss is a no-op.
func (r *ProfileRepo) Update(_ context.Context, p model.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(p.ID); i >= 0 {
		r.items[i] = p
	}
	return nil
}

// OnDelete registers fn to run after a profile is removed.
func (r *ProfileRepo) OnDelete(fn func(id int64)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDelete = append(r.onDelete, fn)
}

// Delete removes the profile and runs the OnDelete hooks; a miss is a no-op.
func (r *ProfileRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return nil
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	hooks := slices.Clone(r.onDelete)
	r.mu.Unlock()

	for _, fn := range hooks {
		fn(id)
	}
	return nil
}

// GetUserVideos is not supported by the in-memory store.
func (r *ProfileRepo) GetUserVideos(_ context.Context, _ int64) ([]model.Video, error) {
	return nil, errs.ErrUnimplemented
}

func (r *ProfileRepo) indexOf(id int64) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}
