package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/model"
	"github.com/and161185/streamish/internal/repository"
)

var _ repository.VideoRepository = (*VideoRepo)(nil)

// VideoRepo keeps videos and comments in memory and resolves owners through profiles.
type VideoRepo struct {
	mu       sync.RWMutex
	videos   []model.Video
	comments []model.Comment
	profiles *ProfileRepo
}

// NewVideoRepo constructs a video repository that embeds owners from profiles.
// Deleting a profile removes its videos and comments, as the SQL schemas cascade.
func NewVideoRepo(profiles *ProfileRepo) *VideoRepo {
	r := &VideoRepo{profiles: profiles}
	profiles.OnDelete(r.dropOwner)
	return r
}

// dropOwner removes the videos and comments of a deleted profile.
func (r *VideoRepo) dropOwner(profileID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var owned []int64
	r.videos = slices.DeleteFunc(r.videos, func(v model.Video) bool {
		if v.UserProfileID == profileID {
			owned = append(owned, v.ID)
			return true
		}
		return false
	})
	r.comments = slices.DeleteFunc(r.comments, func(c model.Comment) bool {
		return c.UserProfileID == profileID || slices.Contains(owned, c.VideoID)
	})
}

// GetAll returns all videos with owners, newest first.
func (r *VideoRepo) GetAll(ctx context.Context) ([]model.Video, error) {
	return r.list(ctx, false, func(model.Video) bool { return true }, true)
}

// GetAllWithComments returns all videos with owners and comments, newest first.
func (r *VideoRepo) GetAllWithComments(ctx context.Context) ([]model.Video, error) {
	return r.list(ctx, true, func(model.Video) bool { return true }, true)
}

// GetByID returns a single video with its owner.
func (r *VideoRepo) GetByID(ctx context.Context, id int64) (model.Video, error) {
	return r.one(ctx, id, false)
}

// GetByIDWithComments returns a single video with its owner and comments.
func (r *VideoRepo) GetByIDWithComments(ctx context.Context, id int64) (model.Video, error) {
	return r.one(ctx, id, true)
}

// Add assigns max(id)+1 and stores v without owner or comments.
func (r *VideoRepo) Add(ctx context.Context, v *model.Video) error {
	if err := r.checkProfile(ctx, v.UserProfileID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var maxID int64
	for _, it := range r.videos {
		maxID = max(maxID, it.ID)
	}
	v.ID = maxID + 1
	stored := *v
	stored.UserProfile, stored.Comments = nil, nil
	r.videos = append(r.videos, stored)
	return nil
}

// Update overwrites the mutable fields of an existing video; a miss is a no-op.
// An unknown owner is rejected only when the video exists, like an FK on UPDATE.
func (r *VideoRepo) Update(ctx context.Context, v model.Video) error {
	r.mu.RLock()
	found := slices.ContainsFunc(r.videos, func(it model.Video) bool { return it.ID == v.ID })
	r.mu.RUnlock()
	if !found {
		return nil
	}
	if err := r.checkProfile(ctx, v.UserProfileID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.videos {
		if r.videos[i].ID == v.ID {
			r.videos[i].Title = v.Title
			r.videos[i].Description = v.Description
			r.videos[i].URL = v.URL
			r.videos[i].UserProfileID = v.UserProfileID
			return nil
		}
	}
	return nil
}

// Delete removes a video and its comments; a miss is a no-op.
func (r *VideoRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.videos = slices.DeleteFunc(r.videos, func(v model.Video) bool { return v.ID == id })
	r.comments = slices.DeleteFunc(r.comments, func(c model.Comment) bool { return c.VideoID == id })
	return nil
}

// Search returns videos whose title contains term (case-insensitive).
func (r *VideoRepo) Search(ctx context.Context, term string, sortDesc bool) ([]model.Video, error) {
	term = strings.ToLower(term)
	return r.list(ctx, false, func(v model.Video) bool {
		return strings.Contains(strings.ToLower(v.Title), term)
	}, sortDesc)
}

// Hottest returns videos created at or after since.
func (r *VideoRepo) Hottest(ctx context.Context, since time.Time) ([]model.Video, error) {
	return r.list(ctx, false, func(v model.Video) bool { return !v.DateCreated.Before(since) }, true)
}

// AddComment appends a comment to an existing video.
func (r *VideoRepo) AddComment(ctx context.Context, c *model.Comment) error {
	r.mu.RLock()
	found := slices.ContainsFunc(r.videos, func(v model.Video) bool { return v.ID == c.VideoID })
	r.mu.RUnlock()
	if !found {
		return errs.ErrNotFound
	}
	if err := r.checkProfile(ctx, c.UserProfileID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var maxID int64
	for _, it := range r.comments {
		maxID = max(maxID, it.ID)
	}
	c.ID = maxID + 1
	r.comments = append(r.comments, *c)
	return nil
}

// checkProfile mirrors the foreign key the SQL backends enforce.
func (r *VideoRepo) checkProfile(ctx context.Context, id int64) error {
	_, err := r.profiles.GetByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("user profile %d: %w", id, errs.ErrInvalidArgument)
	}
	return err
}

func (r *VideoRepo) one(ctx context.Context, id int64, withComments bool) (model.Video, error) {
	out, err := r.list(ctx, withComments, func(v model.Video) bool { return v.ID == id }, true)
	if err != nil {
		return model.Video{}, err
	}
	if len(out) == 0 {
		return model.Video{}, errs.ErrNotFound
	}
	return out[0], nil
}

// list snapshots matching videos under the read lock, then resolves owners.
func (r *VideoRepo) list(ctx context.Context, withComments bool, keep func(model.Video) bool, desc bool) ([]model.Video, error) {
	r.mu.RLock()
	out := make([]model.Video, 0, len(r.videos))
	for _, v := range r.videos {
		if !keep(v) {
			continue
		}
		if withComments {
			v.Comments = []model.Comment{}
			for _, c := range r.comments {
				if c.VideoID == v.ID {
					v.Comments = append(v.Comments, c)
				}
			}
		}
		out = append(out, v)
	}
	r.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b model.Video) int {
		if c := a.DateCreated.Compare(b.DateCreated); c != 0 {
			if desc {
				return -c
			}
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	for i := range out {
		p, err := r.profiles.GetByID(ctx, out[i].UserProfileID)
		if err != nil {
			continue
		}
		out[i].UserProfile = &p
	}
	return out, nil
}
