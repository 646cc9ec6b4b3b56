package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/streamish/internal/config"
	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/model"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, config.DatabaseConfig{URL: "memory://", IDStart: 7}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, "memory", s.Backend)
	require.NoError(t, s.Ping(ctx))

	p := &model.UserProfile{Name: "a"}
	require.NoError(t, s.Profiles.Add(ctx, p))
	require.Equal(t, int64(7), p.ID)

	_, err = s.Profiles.GetUserVideos(ctx, p.ID)
	require.ErrorIs(t, err, errs.ErrUnimplemented)
}

func TestOpen_SQLiteInMemory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, config.DatabaseConfig{URL: "sqlite://", Migrate: true, IDStart: 1}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, "sqlite", s.Backend)
	require.NoError(t, s.Ping(ctx))

	p := &model.UserProfile{Name: "a", Email: "a@example.com"}
	require.NoError(t, s.Profiles.Add(ctx, p))
	vs, err := s.Profiles.GetUserVideos(ctx, p.ID)
	require.NoError(t, err)
	require.Empty(t, vs)
}

func TestOpen_UnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{URL: "mongodb://x"}, zaptest.NewLogger(t))
	require.ErrorContains(t, err, "unsupported")
}

func TestSQLitePath(t *testing.T) {
	require.Equal(t, "data/app.db", sqlitePath("sqlite://data/app.db", "sqlite"))
	require.Equal(t, "/var/lib/app.db", sqlitePath("sqlite:///var/lib/app.db", "sqlite"))
	require.Equal(t, ":memory:", sqlitePath("sqlite://", "sqlite"))
	require.Equal(t, "app.db", sqlitePath("sqlite3:app.db", "sqlite3"))
}
