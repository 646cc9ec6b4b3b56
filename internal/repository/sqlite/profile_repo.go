package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/model"
	"github.com/and161185/streamish/internal/repository"
)

var _ repository.UserProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implements UserProfileRepository using SQLite.
type ProfileRepo struct {
	db      *DB
	idStart int64
}

// NewProfileRepo constructs a profile repository. idStart is the first id on an empty table.
func NewProfileRepo(db *DB, idStart int64) *ProfileRepo {
	if idStart < 1 {
		idStart = 1
	}
	return &ProfileRepo{db: db, idStart: idStart}
}

type profileRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	ImageURL    string    `db:"image_url"`
	DateCreated time.Time `db:"date_created"`
}

func (r profileRow) model() model.UserProfile {
	return model.UserProfile{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		ImageURL:    r.ImageURL,
		DateCreated: r.DateCreated,
	}
}

// GetAll selects every profile ordered by id.
func (r *ProfileRepo) GetAll(ctx context.Context) ([]model.UserProfile, error) {
	var rows []profileRow
	const q = `SELECT id, name, email, image_url, date_created FROM user_profile ORDER BY id`
	if err := r.db.X.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("select profiles: %w", err)
	}
	out := make([]model.UserProfile, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}

// GetByID selects a profile by id.
func (r *ProfileRepo) GetByID(ctx context.Context, id int64) (model.UserProfile, error) {
	var row profileRow
	const q = `SELECT id, name, email, image_url, date_created FROM user_profile WHERE id = ?`
	if err := r.db.X.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.UserProfile{}, errs.ErrNotFound
		}
		return model.UserProfile{}, fmt.Errorf("select profile %d: %w", id, err)
	}
	return row.model(), nil
}

// Add inserts p with id max(id)+1 (idStart on an empty table) in one statement.
func (r *ProfileRepo) Add(ctx context.Context, p *model.UserProfile) error {
	const q = `
INSERT INTO user_profile (id, name, email, image_url, date_created)
SELECT COALESCE(MAX(id), ? - 1) + 1, ?, ?, ?, ? FROM user_profile`
	res, err := r.db.X.ExecContext(ctx, q, r.idStart, p.Name, p.Email, p.ImageURL, p.DateCreated.UTC())
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// Update overwrites the row with p.ID; zero affected rows is not an error.
func (r *ProfileRepo) Update(ctx context.Context, p model.UserProfile) error {
	const q = `UPDATE user_profile SET name = ?, email = ?, image_url = ?, date_created = ? WHERE id = ?`
	if _, err := r.db.X.ExecContext(ctx, q, p.Name, p.Email, p.ImageURL, p.DateCreated.UTC(), p.ID); err != nil {
		return fmt.Errorf("update profile %d: %w", p.ID, err)
	}
	return nil
}

// Delete removes the row with id; its videos and comments cascade.
func (r *ProfileRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.X.ExecContext(ctx, `DELETE FROM user_profile WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete profile %d: %w", id, err)
	}
	return nil
}

// GetUserVideos selects the videos owned by id, newest first.
func (r *ProfileRepo) GetUserVideos(ctx context.Context, id int64) ([]model.Video, error) {
	var ok bool
	if err := r.db.X.GetContext(ctx, &ok, `SELECT EXISTS (SELECT 1 FROM user_profile WHERE id = ?)`, id); err != nil {
		return nil, fmt.Errorf("check profile %d: %w", id, err)
	}
	if !ok {
		return nil, errs.ErrNotFound
	}
	return selectVideos(ctx, r.db, videoSelect+` WHERE v.user_profile_id = ? ORDER BY v.date_created DESC, v.id`, id)
}
