package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/model"
)

// goose keeps migration settings in globals, so these tests do not run in parallel.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))
	return db
}

func day(d int) time.Time { return time.Date(2022, 1, d, 0, 0, 0, 0, time.UTC) }

func TestProfileRepo_IDAssignmentAndSilentMisses(t *testing.T) {
	ctx := context.Background()
	r := NewProfileRepo(openTestDB(t), 1)

	first := &model.UserProfile{Name: "Olivia", Email: "o@example.com", DateCreated: day(1)}
	require.NoError(t, r.Add(ctx, first))
	require.Equal(t, int64(1), first.ID)

	second := &model.UserProfile{Name: "Ned", Email: "n@example.com", DateCreated: day(2)}
	require.NoError(t, r.Add(ctx, second))
	require.Equal(t, int64(2), second.ID)

	require.NoError(t, r.Update(ctx, model.UserProfile{ID: 99, Name: "ghost"}))
	require.NoError(t, r.Delete(ctx, 99))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.True(t, all[0].DateCreated.Equal(day(1)))

	require.NoError(t, r.Update(ctx, model.UserProfile{ID: 2, Name: "Edward", Email: "e@example.com", DateCreated: day(3)}))
	got, err := r.GetByID(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "Edward", got.Name)

	require.NoError(t, r.Delete(ctx, 2))
	_, err = r.GetByID(ctx, 2)
	require.ErrorIs(t, err, errs.ErrNotFound)

	third := &model.UserProfile{Name: "Mina", DateCreated: day(4)}
	require.NoError(t, r.Add(ctx, third))
	require.Equal(t, int64(2), third.ID)
}

func TestProfileRepo_Add_CustomStart(t *testing.T) {
	r := NewProfileRepo(openTestDB(t), 1000)
	p := &model.UserProfile{Name: "first", DateCreated: day(1)}
	require.NoError(t, r.Add(context.Background(), p))
	require.Equal(t, int64(1000), p.ID)
}

func TestVideoRepo_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	profiles := NewProfileRepo(db, 1)
	videos := NewVideoRepo(db)

	owner := &model.UserProfile{Name: "Olivia", Email: "o@example.com", DateCreated: day(1)}
	require.NoError(t, profiles.Add(ctx, owner))

	for _, v := range []model.Video{
		{Title: "Cats on keyboards", URL: "https://youtube.com/embed/a", DateCreated: day(1), UserProfileID: owner.ID},
		{Title: "Cooking pasta", URL: "https://youtube.com/embed/b", DateCreated: day(3), UserProfileID: owner.ID},
		{Title: "More cats 100%", URL: "https://youtube.com/embed/c", DateCreated: day(2), UserProfileID: owner.ID},
	} {
		v := v
		require.NoError(t, videos.Add(ctx, &v))
		require.NotZero(t, v.ID)
	}

	err := videos.Add(ctx, &model.Video{Title: "orphan", URL: "u", DateCreated: day(1), UserProfileID: 42})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	all, err := videos.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Cooking pasta", all[0].Title)
	require.Equal(t, "Olivia", all[0].UserProfile.Name)

	found, err := videos.Search(ctx, "CATS", false)
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Equal(t, "Cats on keyboards", found[0].Title)

	found, err = videos.Search(ctx, "100%", true)
	require.NoError(t, err)
	require.Len(t, found, 1)

	hot, err := videos.Hottest(ctx, day(2))
	require.NoError(t, err)
	require.Len(t, hot, 2)

	c := &model.Comment{Message: "meow", VideoID: 1, UserProfileID: owner.ID}
	require.NoError(t, videos.AddComment(ctx, c))
	require.NotZero(t, c.ID)
	err = videos.AddComment(ctx, &model.Comment{Message: "lost", VideoID: 404, UserProfileID: owner.ID})
	require.ErrorIs(t, err, errs.ErrNotFound)

	v, err := videos.GetByIDWithComments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, v.Comments, 1)
	require.Equal(t, "meow", v.Comments[0].Message)

	withComments, err := videos.GetAllWithComments(ctx)
	require.NoError(t, err)
	require.Len(t, withComments, 3)
	require.NotNil(t, withComments[0].Comments)

	userVideos, err := profiles.GetUserVideos(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, userVideos, 3)
	_, err = profiles.GetUserVideos(ctx, 77)
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, videos.Update(ctx, model.Video{ID: 1, Title: "Dogs", URL: "u", UserProfileID: owner.ID}))
	v, err = videos.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Dogs", v.Title)

	require.NoError(t, profiles.Delete(ctx, owner.ID))
	all, err = videos.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
	_, err = videos.GetByID(ctx, 1)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
