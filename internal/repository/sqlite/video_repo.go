package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/model"
	"github.com/and161185/streamish/internal/repository"
)

var _ repository.VideoRepository = (*VideoRepo)(nil)

// VideoRepo implements VideoRepository using SQLite.
type VideoRepo struct{ db *DB }

// NewVideoRepo constructs a video repository.
func NewVideoRepo(db *DB) *VideoRepo { return &VideoRepo{db: db} }

const videoSelect = `
SELECT v.id, v.title, v.description, v.url, v.date_created, v.user_profile_id,
       p.name AS owner_name, p.email AS owner_email,
       p.image_url AS owner_image_url, p.date_created AS owner_date_created
FROM video v
JOIN user_profile p ON p.id = v.user_profile_id`

type videoRow struct {
	ID               int64     `db:"id"`
	Title            string    `db:"title"`
	Description      string    `db:"description"`
	URL              string    `db:"url"`
	DateCreated      time.Time `db:"date_created"`
	UserProfileID    int64     `db:"user_profile_id"`
	OwnerName        string    `db:"owner_name"`
	OwnerEmail       string    `db:"owner_email"`
	OwnerImageURL    string    `db:"owner_image_url"`
	OwnerDateCreated time.Time `db:"owner_date_created"`
}

func (r videoRow) model() model.Video {
	return model.Video{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		URL:           r.URL,
		DateCreated:   r.DateCreated,
		UserProfileID: r.UserProfileID,
		UserProfile: &model.UserProfile{
			ID:          r.UserProfileID,
			Name:        r.OwnerName,
			Email:       r.OwnerEmail,
			ImageURL:    r.OwnerImageURL,
			DateCreated: r.OwnerDateCreated,
		},
	}
}

type commentRow struct {
	ID            int64  `db:"id"`
	Message       string `db:"message"`
	VideoID       int64  `db:"video_id"`
	UserProfileID int64  `db:"user_profile_id"`
}

func selectVideos(ctx context.Context, db *DB, q string, args ...any) ([]model.Video, error) {
	var rows []videoRow
	if err := db.X.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("select videos: %w", err)
	}
	out := make([]model.Video, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}

// withComments loads comments for vs in one IN query.
func (r *VideoRepo) withComments(ctx context.Context, vs []model.Video) error {
	for i := range vs {
		vs[i].Comments = []model.Comment{}
	}
	if len(vs) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(vs))
	pos := make(map[int64]int, len(vs))
	for i, v := range vs {
		ids = append(ids, v.ID)
		pos[v.ID] = i
	}
	q, args, err := sqlx.In(`SELECT id, message, video_id, user_profile_id FROM comment WHERE video_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return err
	}
	var rows []commentRow
	if err := r.db.X.SelectContext(ctx, &rows, r.db.X.Rebind(q), args...); err != nil {
		return fmt.Errorf("select comments: %w", err)
	}
	for _, c := range rows {
		i := pos[c.VideoID]
		vs[i].Comments = append(vs[i].Comments, model.Comment(c))
	}
	return nil
}

// GetAll selects every video with its owner, newest first.
func (r *VideoRepo) GetAll(ctx context.Context) ([]model.Video, error) {
	return selectVideos(ctx, r.db, videoSelect+` ORDER BY v.date_created DESC, v.id`)
}

// GetAllWithComments selects every video with owner and comments, newest first.
func (r *VideoRepo) GetAllWithComments(ctx context.Context) ([]model.Video, error) {
	vs, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.withComments(ctx, vs); err != nil {
		return nil, err
	}
	return vs, nil
}

// GetByID selects a video with its owner.
func (r *VideoRepo) GetByID(ctx context.Context, id int64) (model.Video, error) {
	var row videoRow
	if err := r.db.X.GetContext(ctx, &row, videoSelect+` WHERE v.id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Video{}, errs.ErrNotFound
		}
		return model.Video{}, fmt.Errorf("select video %d: %w", id, err)
	}
	return row.model(), nil
}

// GetByIDWithComments selects a video with owner and comments.
func (r *VideoRepo) GetByIDWithComments(ctx context.Context, id int64) (model.Video, error) {
	v, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Video{}, err
	}
	vs := []model.Video{v}
	if err := r.withComments(ctx, vs); err != nil {
		return model.Video{}, err
	}
	return vs[0], nil
}

// Add inserts v and stores the generated id back into it.
func (r *VideoRepo) Add(ctx context.Context, v *model.Video) error {
	const q = `INSERT INTO video (title, description, url, date_created, user_profile_id) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.X.ExecContext(ctx, q, v.Title, v.Description, v.URL, v.DateCreated.UTC(), v.UserProfileID)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("user profile %d: %w", v.UserProfileID, errs.ErrInvalidArgument)
	}
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	v.ID, err = res.LastInsertId()
	return err
}

// Update overwrites title, description, url and owner; zero affected rows is not an error.
func (r *VideoRepo) Update(ctx context.Context, v model.Video) error {
	const q = `UPDATE video SET title = ?, description = ?, url = ?, user_profile_id = ? WHERE id = ?`
	_, err := r.db.X.ExecContext(ctx, q, v.Title, v.Description, v.URL, v.UserProfileID, v.ID)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("user profile %d: %w", v.UserProfileID, errs.ErrInvalidArgument)
	}
	if err != nil {
		return fmt.Errorf("update video %d: %w", v.ID, err)
	}
	return nil
}

// Delete removes the video; comments cascade.
func (r *VideoRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.X.ExecContext(ctx, `DELETE FROM video WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete video %d: %w", id, err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search selects videos whose title contains term; SQLite LIKE ignores ASCII case.
func (r *VideoRepo) Search(ctx context.Context, term string, sortDesc bool) ([]model.Video, error) {
	order := ` ORDER BY v.date_created ASC, v.id`
	if sortDesc {
		order = ` ORDER BY v.date_created DESC, v.id`
	}
	pattern := "%" + likeEscaper.Replace(term) + "%"
	return selectVideos(ctx, r.db, videoSelect+` WHERE v.title LIKE ? ESCAPE '\'`+order, pattern)
}

// Hottest selects videos created at or after since, newest first.
func (r *VideoRepo) Hottest(ctx context.Context, since time.Time) ([]model.Video, error) {
	return selectVideos(ctx, r.db, videoSelect+` WHERE v.date_created >= ? ORDER BY v.date_created DESC, v.id`, since.UTC())
}

// AddComment inserts c if its video exists.
func (r *VideoRepo) AddComment(ctx context.Context, c *model.Comment) error {
	const q = `
INSERT INTO comment (message, video_id, user_profile_id)
SELECT ?, id, ? FROM video WHERE id = ?`
	res, err := r.db.X.ExecContext(ctx, q, c.Message, c.UserProfileID, c.VideoID)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("user profile %d: %w", c.UserProfileID, errs.ErrInvalidArgument)
	}
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	c.ID, err = res.LastInsertId()
	return err
}

func isForeignKeyViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
