// Package service implements request-level rules on top of the repositories.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/model"
	"github.com/and161185/streamish/internal/repository"
)

// ProfileService defines operations over user profiles.
type ProfileService interface {
	List(ctx context.Context) ([]model.UserProfile, error)
	// Get returns errs.ErrNotFound when the profile does not exist.
	Get(ctx context.Context, id int64) (model.UserProfile, error)
	// Create stores p with a repository-assigned id.
	Create(ctx context.Context, p *model.UserProfile) error
	// Update rejects a body whose id differs from pathID with errs.ErrIDMismatch.
	Update(ctx context.Context, pathID int64, p model.UserProfile) error
	Delete(ctx context.Context, id int64) error
	Videos(ctx context.Context, id int64) ([]model.Video, error)
}

type ProfileServiceImpl struct {
	repo repository.UserProfileRepository
	log  *zap.Logger
	now  func() time.Time
}

// NewProfileService constructs ProfileService.
func NewProfileService(repo repository.UserProfileRepository, log *zap.Logger) *ProfileServiceImpl {
	return &ProfileServiceImpl{repo: repo, log: log, now: time.Now}
}

// List returns all profiles.
func (s *ProfileServiceImpl) List(ctx context.Context) ([]model.UserProfile, error) {
	return s.repo.GetAll(ctx)
}

// Get returns one profile.
func (s *ProfileServiceImpl) Get(ctx context.Context, id int64) (model.UserProfile, error) {
	return s.repo.GetByID(ctx, id)
}

// Create ignores any client-supplied id and stamps DateCreated when it is missing.
func (s *ProfileServiceImpl) Create(ctx context.Context, p *model.UserProfile) error {
	p.ID = 0
	if p.DateCreated.IsZero() {
		p.DateCreated = s.now().UTC()
	}
	if err := s.repo.Add(ctx, p); err != nil {
		return err
	}
	s.log.Info("profile created", zap.Int64("id", p.ID))
	return nil
}

// Update overwrites the profile at pathID.
func (s *ProfileServiceImpl) Update(ctx context.Context, pathID int64, p model.UserProfile) error {
	if pathID != p.ID {
		return errs.ErrIDMismatch
	}
	return s.repo.Update(ctx, p)
}

// Delete removes the profile; unknown ids are not an error.
func (s *ProfileServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("profile deleted", zap.Int64("id", id))
	return nil
}

// Videos returns the videos posted by the profile.
func (s *ProfileServiceImpl) Videos(ctx context.Context, id int64) ([]model.Video, error) {
	return s.repo.GetUserVideos(ctx, id)
}
