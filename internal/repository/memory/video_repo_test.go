package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/model"
)

func day(d int) time.Time { return time.Date(2022, 1, d, 0, 0, 0, 0, time.UTC) }

func newVideoRepo(t *testing.T) *VideoRepo {
	t.Helper()
	ctx := context.Background()
	r := NewVideoRepo(NewProfileRepo(1, seedProfiles()...))
	for _, v := range []model.Video{
		{Title: "Cats on keyboards", URL: "https://youtube.com/embed/a", DateCreated: day(1), UserProfileID: 1},
		{Title: "Cooking pasta", URL: "https://youtube.com/embed/b", DateCreated: day(3), UserProfileID: 2},
		{Title: "More CATS", URL: "https://youtube.com/embed/c", DateCreated: day(2), UserProfileID: 4},
	} {
		v := v
		require.NoError(t, r.Add(ctx, &v))
	}
	return r
}

func titles(vs []model.Video) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Title)
	}
	return out
}

func TestVideoRepo_GetAll_NewestFirstWithOwner(t *testing.T) {
	r := newVideoRepo(t)
	all, err := r.GetAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Cooking pasta", "More CATS", "Cats on keyboards"}, titles(all))
	require.NotNil(t, all[0].UserProfile)
	require.Equal(t, "Ned", all[0].UserProfile.Name)
	require.Nil(t, all[0].Comments)
}

func TestVideoRepo_UnknownOwner(t *testing.T) {
	ctx := context.Background()
	profiles := NewProfileRepo(1, seedProfiles()...)
	r := NewVideoRepo(profiles)

	err := r.Add(ctx, &model.Video{Title: "orphan", UserProfileID: 777})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	v := &model.Video{Title: "ok", UserProfileID: 4}
	require.NoError(t, r.Add(ctx, v))
	err = r.AddComment(ctx, &model.Comment{Message: "hi", VideoID: v.ID, UserProfileID: 777})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	err = r.Update(ctx, model.Video{ID: v.ID, Title: "moved", UserProfileID: 777})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	got, err := r.GetByID(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, "ok", got.Title)
	require.Equal(t, int64(4), got.UserProfileID)
}

func TestVideoRepo_Comments(t *testing.T) {
	ctx := context.Background()
	r := newVideoRepo(t)

	c := &model.Comment{Message: "meow", VideoID: 1, UserProfileID: 2}
	require.NoError(t, r.AddComment(ctx, c))
	require.Equal(t, int64(1), c.ID)
	require.NoError(t, r.AddComment(ctx, &model.Comment{Message: "purr", VideoID: 1, UserProfileID: 3}))

	err := r.AddComment(ctx, &model.Comment{Message: "lost", VideoID: 42})
	require.ErrorIs(t, err, errs.ErrNotFound)

	v, err := r.GetByIDWithComments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, v.Comments, 2)
	require.Equal(t, "meow", v.Comments[0].Message)

	all, err := r.GetAllWithComments(ctx)
	require.NoError(t, err)
	require.Empty(t, all[0].Comments)
	require.NotNil(t, all[0].Comments)

	require.NoError(t, r.Delete(ctx, 1))
	_, err = r.GetByID(ctx, 1)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.Empty(t, r.comments)
}

func TestVideoRepo_Search(t *testing.T) {
	ctx := context.Background()
	r := newVideoRepo(t)

	asc, err := r.Search(ctx, "cats", false)
	require.NoError(t, err)
	require.Equal(t, []string{"Cats on keyboards", "More CATS"}, titles(asc))

	desc, err := r.Search(ctx, "CATS", true)
	require.NoError(t, err)
	require.Equal(t, []string{"More CATS", "Cats on keyboards"}, titles(desc))

	none, err := r.Search(ctx, "dogs", true)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestVideoRepo_Hottest(t *testing.T) {
	r := newVideoRepo(t)
	got, err := r.Hottest(context.Background(), day(2))
	require.NoError(t, err)
	require.Equal(t, []string{"Cooking pasta", "More CATS"}, titles(got))
}

func TestVideoRepo_Update_MissIsNoop(t *testing.T) {
	ctx := context.Background()
	r := newVideoRepo(t)

	require.NoError(t, r.Update(ctx, model.Video{ID: 2, Title: "Cooking risotto", URL: "u", UserProfileID: 3}))
	v, err := r.GetByID(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "Cooking risotto", v.Title)
	require.Equal(t, day(3), v.DateCreated)
	require.Equal(t, "Mina", v.UserProfile.Name)

	require.NoError(t, r.Update(ctx, model.Video{ID: 50, Title: "ghost"}))
	require.NoError(t, r.Delete(ctx, 50))
	all, _ := r.GetAll(ctx)
	require.Len(t, all, 3)
}
