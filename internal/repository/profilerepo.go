// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/streamish/internal/model"
)

// UserProfileRepository provides CRUD access for user profiles.
type UserProfileRepository interface {
	// GetAll returns every profile in id order.
	GetAll(ctx context.Context) ([]model.UserProfile, error)
	// GetByID loads a profile by id or returns errs.ErrNotFound.
	GetByID(ctx context.Context, id int64) (model.UserProfile, error)
	// Add stores a new profile and writes the assigned id back into p.
	Add(ctx context.Context, p *model.UserProfile) error
	// Update overwrites the stored profile with the same id. Unknown ids are ignored.
	Update(ctx context.Context, p model.UserProfile) error
	// Delete removes the profile with the given id. Unknown ids are ignored.
	Delete(ctx context.Context, id int64) error
	// GetUserVideos returns the videos owned by a profile, newest first.
	GetUserVideos(ctx context.Context, id int64) ([]model.Video, error)
}
