// Package seed loads YAML fixtures and writes them into empty repositories.
package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/and161185/streamish/internal/model"
	"github.com/and161185/streamish/internal/repository"
)

// Fixture is the root of a seed file.
type Fixture struct {
	Profiles []Profile `yaml:"profiles"`
}

// Profile is a seeded user with the videos they posted.
type Profile struct {
	Name        string    `yaml:"name"`
	Email       string    `yaml:"email"`
	ImageURL    string    `yaml:"image_url"`
	DateCreated time.Time `yaml:"date_created"`
	Videos      []Video   `yaml:"videos"`
}

// Video is a seeded video.
type Video struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	URL         string    `yaml:"url"`
	DateCreated time.Time `yaml:"date_created"`
	Comments    []Comment `yaml:"comments"`
}

// Comment is a seeded comment; Author is the email of a profile in the same fixture.
type Comment struct {
	Message string `yaml:"message"`
	Author  string `yaml:"author"`
}

// Load decodes the fixture at path, rejecting unknown keys.
func Load(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var fx Fixture
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &fx, nil
}

// Apply writes fx through the repositories unless profiles already exist.
// It reports whether anything was written.
func Apply(
	ctx context.Context,
	profiles repository.UserProfileRepository,
	videos repository.VideoRepository,
	fx *Fixture,
	log *zap.Logger,
) (bool, error) {
	existing, err := profiles.GetAll(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		log.Info("seed skipped: store not empty", zap.Int("profiles", len(existing)))
		return false, nil
	}

	byEmail := make(map[string]int64, len(fx.Profiles))
	for _, p := range fx.Profiles {
		up := &model.UserProfile{Name: p.Name, Email: p.Email, ImageURL: p.ImageURL, DateCreated: orNow(p.DateCreated)}
		if err := profiles.Add(ctx, up); err != nil {
			return false, fmt.Errorf("seed profile %q: %w", p.Email, err)
		}
		byEmail[p.Email] = up.ID
	}

	var nVideos, nComments int
	for i, p := range fx.Profiles {
		ownerID := byEmail[p.Email]
		for _, v := range p.Videos {
			mv := &model.Video{
				Title:         v.Title,
				Description:   v.Description,
				URL:           v.URL,
				DateCreated:   orNow(v.DateCreated),
				UserProfileID: ownerID,
			}
			if err := videos.Add(ctx, mv); err != nil {
				return false, fmt.Errorf("seed video %q: %w", v.Title, err)
			}
			nVideos++
			for _, c := range v.Comments {
				author, ok := byEmail[c.Author]
				if !ok {
					return false, fmt.Errorf("seed comment on %q: profile[%d]: unknown author %q", v.Title, i, c.Author)
				}
				if err := videos.AddComment(ctx, &model.Comment{Message: c.Message, VideoID: mv.ID, UserProfileID: author}); err != nil {
					return false, fmt.Errorf("seed comment on %q: %w", v.Title, err)
				}
				nComments++
			}
		}
	}

	log.Info("seeded",
		zap.Int("profiles", len(fx.Profiles)),
		zap.Int("videos", nVideos),
		zap.Int("comments", nComments),
	)
	return true, nil
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
