package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/model"
	"github.com/and161185/streamish/internal/repository"
)

var _ repository.VideoRepository = (*VideoRepo)(nil)

// VideoRepo implements VideoRepository using PostgreSQL.
type VideoRepo struct{ db *DB }

// NewVideoRepo constructs a video repository.
func NewVideoRepo(db *DB) *VideoRepo { return &VideoRepo{db: db} }

const videoSelect = `
SELECT v.id, v.title, v.description, v.url, v.date_created, v.user_profile_id,
       p.name, p.email, p.image_url, p.date_created
FROM video v
JOIN user_profile p ON p.id = v.user_profile_id`

const commentColumns = `id, message, video_id, user_profile_id`

func scanVideo(row scanner) (model.Video, error) {
	var (
		v model.Video
		p model.UserProfile
	)
	err := row.Scan(&v.ID, &v.Title, &v.Description, &v.URL, &v.DateCreated, &v.UserProfileID,
		&p.Name, &p.Email, &p.ImageURL, &p.DateCreated)
	if err != nil {
		return model.Video{}, err
	}
	p.ID = v.UserProfileID
	v.UserProfile = &p
	return v, nil
}

func queryVideos(ctx context.Context, pool PgxPool, q string, args ...any) ([]model.Video, error) {
	rows, err := pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select videos: %w", err)
	}
	defer rows.Close()

	out := []model.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VideoRepo) queryComments(ctx context.Context, q string, args ...any) (map[int64][]model.Comment, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select comments: %w", err)
	}
	defer rows.Close()

	out := map[int64][]model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Message, &c.VideoID, &c.UserProfileID); err != nil {
			return nil, err
		}
		out[c.VideoID] = append(out[c.VideoID], c)
	}
	return out, rows.Err()
}

func attachComments(vs []model.Video, byVideo map[int64][]model.Comment) {
	for i := range vs {
		vs[i].Comments = byVideo[vs[i].ID]
		if vs[i].Comments == nil {
			vs[i].Comments = []model.Comment{}
		}
	}
}

// GetAll selects every video with its owner, newest first.
func (r *VideoRepo) GetAll(ctx context.Context) ([]model.Video, error) {
	const q = videoSelect + ` ORDER BY v.date_created DESC, v.id`
	return queryVideos(ctx, r.db.Pool, q)
}

// GetAllWithComments selects every video with owner and comments, newest first.
func (r *VideoRepo) GetAllWithComments(ctx context.Context) ([]model.Video, error) {
	vs, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	const q = `SELECT ` + commentColumns + ` FROM comment ORDER BY id`
	byVideo, err := r.queryComments(ctx, q)
	if err != nil {
		return nil, err
	}
	attachComments(vs, byVideo)
	return vs, nil
}

// GetByID selects a video with its owner.
func (r *VideoRepo) GetByID(ctx context.Context, id int64) (model.Video, error) {
	const q = videoSelect + ` WHERE v.id=$1`
	v, err := scanVideo(r.db.Pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Video{}, errs.ErrNotFound
		}
		return model.Video{}, fmt.Errorf("select video %d: %w", id, err)
	}
	return v, nil
}

// GetByIDWithComments selects a video with owner and comments.
func (r *VideoRepo) GetByIDWithComments(ctx context.Context, id int64) (model.Video, error) {
	v, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Video{}, err
	}
	const q = `SELECT ` + commentColumns + ` FROM comment WHERE video_id=$1 ORDER BY id`
	byVideo, err := r.queryComments(ctx, q, id)
	if err != nil {
		return model.Video{}, err
	}
	vs := []model.Video{v}
	attachComments(vs, byVideo)
	return vs[0], nil
}

// Add inserts v and stores the generated id back into it.
func (r *VideoRepo) Add(ctx context.Context, v *model.Video) error {
	const q = `
INSERT INTO video (title, description, url, date_created, user_profile_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	err := r.db.Pool.QueryRow(ctx, q, v.Title, v.Description, v.URL, v.DateCreated, v.UserProfileID).Scan(&v.ID)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("user profile %d: %w", v.UserProfileID, errs.ErrInvalidArgument)
	}
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

// Update overwrites title, description, url and owner; zero affected rows is not an error.
func (r *VideoRepo) Update(ctx context.Context, v model.Video) error {
	const q = `
UPDATE video
SET title=$2, description=$3, url=$4, user_profile_id=$5
WHERE id=$1`
	_, err := r.db.Pool.Exec(ctx, q, v.ID, v.Title, v.Description, v.URL, v.UserProfileID)
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
	const q = `DELETE FROM video WHERE id=$1`
	if _, err := r.db.Pool.Exec(ctx, q, id); err != nil {
		return fmt.Errorf("delete video %d: %w", id, err)
	}
	return nil
}

// Search selects videos whose title contains term, ignoring case.
func (r *VideoRepo) Search(ctx context.Context, term string, sortDesc bool) ([]model.Video, error) {
	const asc = videoSelect + ` WHERE v.title ILIKE $1 ORDER BY v.date_created ASC, v.id`
	const desc = videoSelect + ` WHERE v.title ILIKE $1 ORDER BY v.date_created DESC, v.id`
	q := asc
	if sortDesc {
		q = desc
	}
	return queryVideos(ctx, r.db.Pool, q, likePattern(term))
}

// Hottest selects videos created at or after since, newest first.
func (r *VideoRepo) Hottest(ctx context.Context, since time.Time) ([]model.Video, error) {
	const q = videoSelect + ` WHERE v.date_created >= $1 ORDER BY v.date_created DESC, v.id`
	return queryVideos(ctx, r.db.Pool, q, since)
}

// AddComment inserts c if its video exists.
func (r *VideoRepo) AddComment(ctx context.Context, c *model.Comment) error {
	const q = `
INSERT INTO comment (message, video_id, user_profile_id)
SELECT $1::text, $2::bigint, $3::bigint
WHERE EXISTS (SELECT 1 FROM video WHERE id=$2::bigint)
RETURNING id`
	err := r.db.Pool.QueryRow(ctx, q, c.Message, c.VideoID, c.UserProfileID).Scan(&c.ID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return errs.ErrNotFound
	case isForeignKeyViolation(err):
		return fmt.Errorf("user profile %d: %w", c.UserProfileID, errs.ErrInvalidArgument)
	default:
		return fmt.Errorf("insert comment: %w", err)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps term for a substring LIKE match with wildcards escaped.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
