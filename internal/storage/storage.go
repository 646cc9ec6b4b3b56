// Package storage opens the repository backend named by the database URL.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/streamish/internal/config"
	"github.com/and161185/streamish/internal/migrate"
	"github.com/and161185/streamish/internal/repository"
	"github.com/and161185/streamish/internal/repository/memory"
	"github.com/and161185/streamish/internal/repository/postgres"
	"github.com/and161185/streamish/internal/repository/sqlite"
)

// Store bundles the repositories of one backend with its lifecycle hooks.
type Store struct {
	Backend  string
	Profiles repository.UserProfileRepository
	Videos   repository.VideoRepository

	ping  func(ctx context.Context) error
	close func() error
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases backend resources.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open selects the backend from the URL scheme: memory, sqlite/sqlite3 or postgres/postgresql.
// Migrations run first when cfg.Migrate is set.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*Store, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	switch u.Scheme {
	case "memory":
		profiles := memory.NewProfileRepo(cfg.IDStart)
		log.Info("storage opened", zap.String("backend", "memory"))
		return &Store{
			Backend:  "memory",
			Profiles: profiles,
			Videos:   memory.NewVideoRepo(profiles),
		}, nil

	case "sqlite", "sqlite3":
		path := sqlitePath(cfg.URL, u.Scheme)
		db, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if cfg.Migrate {
			if err := db.Migrate(ctx); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("migrate sqlite: %w", err)
			}
		}
		log.Info("storage opened", zap.String("backend", "sqlite"), zap.String("path", path))
		return &Store{
			Backend:  "sqlite",
			Profiles: sqlite.NewProfileRepo(db, cfg.IDStart),
			Videos:   sqlite.NewVideoRepo(db),
			ping:     db.Ping,
			close:    db.Close,
		}, nil

	case "postgres", "postgresql":
		if cfg.Migrate {
			if err := migrate.Up(ctx, cfg.URL); err != nil {
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		db, err := postgres.New(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		log.Info("storage opened", zap.String("backend", "postgres"), zap.String("host", u.Host))
		return &Store{
			Backend:  "postgres",
			Profiles: postgres.NewProfileRepo(db, cfg.IDStart),
			Videos:   postgres.NewVideoRepo(db),
			ping:     db.Ping,
			close:    func() error { db.Close(); return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}
}

// sqlitePath turns sqlite://data/app.db into data/app.db; an empty path means in-memory.
func sqlitePath(raw, scheme string) string {
	p := strings.TrimPrefix(raw, scheme+"://")
	p = strings.TrimPrefix(p, scheme+":")
	if p == "" {
		return ":memory:"
	}
	return p
}
