package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/model"
)

var videoCols = []string{
	"id", "title", "description", "url", "date_created", "user_profile_id",
	"name", "email", "image_url", "date_created",
}

var commentCols = []string{"id", "message", "video_id", "user_profile_id"}

func TestVideoRepo_GetAllWithComments(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewVideoRepo(db)
	now := time.Now()

	mock.ExpectQuery(`FROM video v JOIN user_profile p ON p.id = v.user_profile_id ORDER BY v.date_created DESC`).
		WillReturnRows(pgxmock.NewRows(videoCols).
			AddRow(int64(2), "b", "", "u2", now, int64(1), "Olivia", "o@x", "", now).
			AddRow(int64(1), "a", "", "u1", now.Add(-time.Hour), int64(2), "Ned", "n@x", "", now))
	mock.ExpectQuery(`SELECT id, message, video_id, user_profile_id FROM comment ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(commentCols).
			AddRow(int64(1), "first", int64(1), int64(1)).
			AddRow(int64(2), "second", int64(1), int64(2)))

	vs, err := r.GetAllWithComments(context.Background())
	require.NoError(t, err)
	require.Len(t, vs, 2)
	require.NotNil(t, vs[0].Comments)
	require.Empty(t, vs[0].Comments)
	require.Len(t, vs[1].Comments, 2)
	require.Equal(t, "second", vs[1].Comments[1].Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepo_GetByIDWithComments_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewVideoRepo(db)

	mock.ExpectQuery(`WHERE v.id=\$1`).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)
	_, err := r.GetByIDWithComments(context.Background(), 42)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepo_Add(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewVideoRepo(db)
	ctx := context.Background()
	now := time.Now()
	v := &model.Video{Title: "t", Description: "d", URL: "u", DateCreated: now, UserProfileID: 1}

	mock.ExpectQuery(`INSERT INTO video \(title, description, url, date_created, user_profile_id\)`).
		WithArgs("t", "d", "u", now, int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	require.NoError(t, r.Add(ctx, v))
	require.Equal(t, int64(11), v.ID)

	bad := &model.Video{Title: "t", URL: "u", DateCreated: now, UserProfileID: 77}
	mock.ExpectQuery(`INSERT INTO video`).
		WithArgs("t", "", "u", now, int64(77)).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	err := r.Add(ctx, bad)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepo_Search_EscapesAndOrders(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewVideoRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`WHERE v.title ILIKE \$1 ORDER BY v.date_created DESC`).
		WithArgs(`%50\%\_off%`).
		WillReturnRows(pgxmock.NewRows(videoCols))
	vs, err := r.Search(ctx, "50%_off", true)
	require.NoError(t, err)
	require.Empty(t, vs)

	mock.ExpectQuery(`WHERE v.title ILIKE \$1 ORDER BY v.date_created ASC`).
		WithArgs(`%cat%`).
		WillReturnRows(pgxmock.NewRows(videoCols))
	_, err = r.Search(ctx, "cat", false)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepo_Hottest(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewVideoRepo(db)
	since := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE v.date_created >= \$1`).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows(videoCols).
			AddRow(int64(1), "a", "", "u", since, int64(1), "Olivia", "o@x", "", since))
	vs, err := r.Hottest(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepo_AddComment(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewVideoRepo(db)
	ctx := context.Background()

	c := &model.Comment{Message: "nice", VideoID: 1, UserProfileID: 2}
	mock.ExpectQuery(`INSERT INTO comment`).
		WithArgs("nice", int64(1), int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(8)))
	require.NoError(t, r.AddComment(ctx, c))
	require.Equal(t, int64(8), c.ID)

	mock.ExpectQuery(`INSERT INTO comment`).
		WithArgs("nice", int64(9), int64(2)).
		WillReturnError(pgx.ErrNoRows)
	err := r.AddComment(ctx, &model.Comment{Message: "nice", VideoID: 9, UserProfileID: 2})
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepo_UpdateDelete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewVideoRepo(db)
	ctx := context.Background()
	v := model.Video{ID: 3, Title: "t", URL: "u", UserProfileID: 1}

	mock.ExpectExec(`UPDATE video SET title=\$2, description=\$3, url=\$4, user_profile_id=\$5 WHERE id=\$1`).
		WithArgs(v.ID, v.Title, v.Description, v.URL, v.UserProfileID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.NoError(t, r.Update(ctx, v))

	mock.ExpectExec(`DELETE FROM video WHERE id=\$1`).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}
