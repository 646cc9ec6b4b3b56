package repository

import (
	"context"
	"time"

	"github.com/and161185/streamish/internal/model"
)

// VideoRepository provides access to videos and their comments.
// Listings embed the owning profile and are ordered newest first.
type VideoRepository interface {
	GetAll(ctx context.Context) ([]model.Video, error)
	GetAllWithComments(ctx context.Context) ([]model.Video, error)
	// GetByID loads a video by id or returns errs.ErrNotFound.
	GetByID(ctx context.Context, id int64) (model.Video, error)
	GetByIDWithComments(ctx context.Context, id int64) (model.Video, error)
	// Add stores a new video and writes the assigned id back into v.
	Add(ctx context.Context, v *model.Video) error
	// Update overwrites title, description, url and owner. Unknown ids are ignored.
	Update(ctx context.Context, v model.Video) error
	// Delete removes a video and its comments. Unknown ids are ignored.
	Delete(ctx context.Context, id int64) error
	// Search matches term against titles case-insensitively, ordered by creation date.
	Search(ctx context.Context, term string, sortDesc bool) ([]model.Video, error)
	// Hottest returns videos created at or after since, newest first.
	Hottest(ctx context.Context, since time.Time) ([]model.Video, error)
	// AddComment stores a comment for an existing video or returns errs.ErrNotFound.
	AddComment(ctx context.Context, c *model.Comment) error
}
