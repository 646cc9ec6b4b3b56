package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/model"
	"github.com/and161185/streamish/internal/repository"
)

// VideoService defines operations over videos and their comments.
type VideoService interface {
	List(ctx context.Context, withComments bool) ([]model.Video, error)
	Get(ctx context.Context, id int64, withComments bool) (model.Video, error)
	Create(ctx context.Context, v *model.Video) error
	Update(ctx context.Context, pathID int64, v model.Video) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, q model.SearchQuery) ([]model.Video, error)
	Hottest(ctx context.Context, since time.Time) ([]model.Video, error)
	AddComment(ctx context.Context, videoID int64, c *model.Comment) error
}

type VideoServiceImpl struct {
	repo repository.VideoRepository
	log  *zap.Logger
	now  func() time.Time
}

// NewVideoService constructs VideoService.
func NewVideoService(repo repository.VideoRepository, log *zap.Logger) *VideoServiceImpl {
	return &VideoServiceImpl{repo: repo, log: log, now: time.Now}
}

// List returns all videos newest first, optionally with comments.
func (s *VideoServiceImpl) List(ctx context.Context, withComments bool) ([]model.Video, error) {
	if withComments {
		return s.repo.GetAllWithComments(ctx)
	}
	return s.repo.GetAll(ctx)
}

// Get returns one video, optionally with comments.
func (s *VideoServiceImpl) Get(ctx context.Context, id int64, withComments bool) (model.Video, error) {
	if withComments {
		return s.repo.GetByIDWithComments(ctx, id)
	}
	return s.repo.GetByID(ctx, id)
}

// Create stores v with a repository-assigned id, stamping DateCreated when missing.
func (s *VideoServiceImpl) Create(ctx context.Context, v *model.Video) error {
	v.ID = 0
	v.UserProfile, v.Comments = nil, nil
	if v.DateCreated.IsZero() {
		v.DateCreated = s.now().UTC()
	}
	if err := s.repo.Add(ctx, v); err != nil {
		return err
	}
	s.log.Info("video created", zap.Int64("id", v.ID), zap.Int64("user_profile_id", v.UserProfileID))
	return nil
}

// Update overwrites the video at pathID; a body id mismatch is rejected.
func (s *VideoServiceImpl) Update(ctx context.Context, pathID int64, v model.Video) error {
	if pathID != v.ID {
		return errs.ErrIDMismatch
	}
	return s.repo.Update(ctx, v)
}

// Delete removes the video and its comments.
func (s *VideoServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("video deleted", zap.Int64("id", id))
	return nil
}

// Search matches q.Term against titles. An empty term matches every video.
func (s *VideoServiceImpl) Search(ctx context.Context, q model.SearchQuery) ([]model.Video, error) {
	return s.repo.Search(ctx, q.Term, q.SortDescending)
}

// Hottest returns videos created on or after since.
func (s *VideoServiceImpl) Hottest(ctx context.Context, since time.Time) ([]model.Video, error) {
	return s.repo.Hottest(ctx, since)
}

// AddComment attaches c to videoID.
func (s *VideoServiceImpl) AddComment(ctx context.Context, videoID int64, c *model.Comment) error {
	c.ID = 0
	c.VideoID = videoID
	return s.repo.AddComment(ctx, c)
}
